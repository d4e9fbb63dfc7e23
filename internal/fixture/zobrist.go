package fixture

import "tacticore/internal/prng"

// zobristSeed is fixed so Hash is reproducible across processes, the way
// the teacher's board package seeds its own Zobrist table
// (internal/board/zobrist.go) from a fixed constant rather than a random
// one.
const zobristSeed = 0xA12CE55F00D1234

// occupant values index zobristCell's second dimension: empty cells
// never contribute a key.
const (
	occupantAgentZero = iota
	occupantAgentOne
	occupantCount
)

var (
	zobristCell   [ArenaCells][occupantCount]uint64
	zobristToMove uint64
)

func init() {
	rng := prng.New(zobristSeed)
	for cell := 0; cell < ArenaCells; cell++ {
		for occ := 0; occ < occupantCount; occ++ {
			zobristCell[cell][occ] = rng.Next()
		}
	}
	zobristToMove = rng.Next()
}
