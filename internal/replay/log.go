// Package replay persists search results for later inspection, wrapping
// badger/v4 exactly the way the teacher's internal/storage package wraps
// it: DefaultOptions, a silenced logger, and encoding/json marshalling
// of a Go struct into a byte value. It is deliberately outside
// internal/search and internal/planner — the core itself persists
// nothing; this is the host-side "logs/replays" collaborator.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "result:"

// Log is an append-only, badger-backed sequence of Result records, keyed
// by a monotonically increasing sequence number so iteration in key
// order is also chronological order.
type Log struct {
	db   *badger.DB
	next uint64
}

// Open opens (creating if necessary) the replay log at the platform
// data directory.
func Open() (*Log, error) {
	dir, err := databaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dir)
}

// OpenAt opens the replay log at an explicit directory, letting callers
// such as tests bypass the platform default.
func OpenAt(dir string) (*Log, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	l := &Log{db: db}
	if err := l.loadNext(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// loadNext scans backward from the current key space to find the
// sequence number one past the highest key stored, so Append resumes
// correctly across process restarts.
func (l *Log) loadNext() error {
	return l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := append([]byte(keyPrefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		it.Seek(seekKey)
		if !it.Valid() {
			l.next = 0
			return nil
		}
		key := it.Item().KeyCopy(nil)
		seq, ok := parseKey(key)
		if !ok {
			l.next = 0
			return nil
		}
		l.next = seq + 1
		return nil
	})
}

func encodeKey(seq uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], seq)
	return key
}

func parseKey(key []byte) (uint64, bool) {
	if len(key) != len(keyPrefix)+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(keyPrefix):]), true
}

// Append stores result under the next sequence number and returns it.
func (l *Log) Append(result Result) (uint64, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return 0, err
	}
	seq := l.next
	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(seq), data)
	})
	if err != nil {
		return 0, err
	}
	l.next++
	return seq, nil
}

// Get returns the record stored at seq.
func (l *Log) Get(seq uint64) (Result, error) {
	var result Result
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(seq))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("replay: no record at sequence %d", seq)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	return result, err
}

// Latest returns the most recently appended record, or ok == false if
// the log is empty.
func (l *Log) Latest() (result Result, ok bool, err error) {
	err = l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := append([]byte(keyPrefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		it.Seek(seekKey)
		if !it.Valid() {
			return nil
		}
		item := it.Item()
		if len(item.KeyCopy(nil)) != len(keyPrefix)+8 {
			return nil
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	return result, ok, err
}

// All returns every stored record in chronological (sequence) order.
// It's meant for small replay logs (tests, a demo session) rather than
// production-scale iteration.
func (l *Log) All() ([]Result, error) {
	var out []Result
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r Result
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}
