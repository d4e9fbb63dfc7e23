// tacticore-demo drives the planner against the tactical arena fixture
// to completion, frame by frame, the way a host loop would, and logs
// every move it settles on to the replay store.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"tacticore/internal/action"
	"tacticore/internal/fixture"
	"tacticore/internal/planner"
	"tacticore/internal/replay"
	"tacticore/internal/search"
)

var (
	baseDepth     = flag.Int("depth", 10, "base search depth")
	frameBudgetMs = flag.Float64("frame-ms", 2.0, "per-frame search budget in milliseconds")
	timeLimitMs   = flag.Int64("time-ms", 0, "total time budget per move in milliseconds, 0 for none")
	maxMoves      = flag.Int("moves", 40, "maximum number of moves to play before stopping")
	ttSizeMB      = flag.Int("tt-mb", 64, "transposition table size in megabytes")
	noAdaptive    = flag.Bool("no-adaptive", false, "disable entropy-driven adaptive depth")
)

func main() {
	flag.Parse()

	cfg := search.DefaultConfig()
	cfg.BaseDepth = *baseDepth
	cfg.TTSizeMB = *ttSizeMB
	cfg.AdaptiveDepth = !*noAdaptive

	eng, err := search.NewEngine(cfg)
	if err != nil {
		log.Fatalf("could not create engine: %v", err)
	}

	rlog, err := replay.Open()
	if err != nil {
		log.Fatalf("could not open replay log: %v", err)
	}
	defer rlog.Close()

	arena := fixture.NewArena()
	heur := fixture.NewHeuristic()
	p := planner.New(eng)

	for move := 1; move <= *maxMoves; move++ {
		if arena.IsTerminal() {
			fmt.Printf("agent %d has no legal move; game over\n", arena.ActiveAgentID())
			break
		}

		start := time.Now()
		for !p.PlanStep(arena, heur, planner.Context{
			FrameBudgetMs: *frameBudgetMs,
			TimeLimitMs:   *timeLimitMs,
		}) {
			printProgress(move, eng)
		}
		plan := p.CurrentPlan()

		seq, err := rlog.Append(replay.ResultFromPlan(plan, eng))
		if err != nil {
			log.Fatalf("could not append replay record: %v", err)
		}
		fmt.Printf("move %d: agent %d plays %d->%d (eval %.3f, depth %d, %dms, seq %d)\n",
			move, arena.ActiveAgentID(), plan.Primary.From, plan.Primary.To,
			plan.ExpectedValue.ToFloatForLoggingOnly(), plan.LookaheadDepth,
			time.Since(start).Milliseconds(), seq)
		if plan.VerificationApplied {
			fmt.Printf("  verified against MCTS: value %.3f, entropy trend %.3f\n",
				plan.VerifiedValue.ToFloatForLoggingOnly(), plan.EntropyTrend)
		}

		if plan.Primary == action.None {
			break
		}
		next, err := arena.Apply(plan.Primary)
		if err != nil {
			log.Fatalf("could not apply planned move: %v", err)
		}
		arena = next.(*fixture.Arena)
	}
}

func printProgress(move int, eng *search.Engine) {
	fmt.Printf("  move %d: depth %d nodes %d tt-hit-rate %.2f\n",
		move, eng.CompletedDepth(), eng.Nodes(), eng.TTHitRate())
}
