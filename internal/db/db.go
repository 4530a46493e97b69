// Package db keeps a bounded history of demo runs in a BoltDB file.
package db

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"dailies/internal/rec"

	"go.etcd.io/bbolt"
)

// Demos names one bucket per demo.
var Demos = []string{"caesar", "tip", "band", "calc"}

var ErrUnknownDemo = errors.New("unknown demo")

type Config struct {
	File string `yaml:"file"`
	// MaxRuns caps the runs kept per demo. Zero keeps everything.
	MaxRuns int `yaml:"maxRuns"`
}

type Run struct {
	Demo   string            `json:"demo"`
	Input  map[string]string `json:"input"`
	Output string            `json:"output,omitempty"`
	Error  string            `json:"error,omitempty"`
	At     time.Time         `json:"at"`
}

type DB struct {
	bolt    *bbolt.DB
	maxRuns int
}

func Open(config Config) (*DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("db: file is required")
	}
	if config.MaxRuns < 0 {
		return nil, fmt.Errorf("db: maxRuns must not be negative")
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		return nil, fmt.Errorf("db: create db dir: %w", err)
	}

	b, err := bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("db: open bbolt db: %w", err)
	}

	err = b.Update(func(tx *bbolt.Tx) error {
		for _, demo := range Demos {
			_, err := tx.CreateBucketIfNotExists([]byte(demo))
			if err != nil {
				return fmt.Errorf("create bucket %q: %w", demo, err)
			}
		}
		return nil
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("db: initialize buckets: %w", err)
	}

	return &DB{bolt: b, maxRuns: config.MaxRuns}, nil
}

func (db *DB) Close() error {
	err := db.bolt.Close()
	if err != nil {
		return fmt.Errorf("db: close bbolt db: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func (db *DB) Closer() io.Closer {
	return closerFunc(db.Close)
}

func bucket(tx *bbolt.Tx, demo string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(demo))
	if b == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownDemo, demo)
	}
	return b, nil
}

func (db *DB) AddRun(demo string, run Run) (err error) {
	defer rec.Wrap(&err, "db: add %s run: %w", demo)

	run.Demo = demo
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return db.bolt.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, demo)
		if err != nil {
			return err
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(binary.BigEndian.AppendUint64(nil, seq), data); err != nil {
			return err
		}

		return prune(b, db.maxRuns)
	})
}

// count walks the cursor; Bucket.Stats does not see writes of the open transaction.
func count(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// prune drops the oldest runs until at most limit remain.
func prune(b *bbolt.Bucket, limit int) error {
	if limit == 0 {
		return nil
	}

	n := count(b)
	if n <= limit {
		return nil
	}

	var stale [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil && len(stale) < n-limit; k, _ = c.Next() {
		stale = append(stale, k)
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Count(demo string) (int, error) {
	var n int
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, demo)
		if err != nil {
			return err
		}
		n = count(b)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db: count %s runs: %w", demo, err)
	}
	return n, nil
}

var errStop = fmt.Errorf("stop iteration")

// Runs yields the runs of demo, newest first.
// A failure is yielded once as the error of a zero Run.
func (db *DB) Runs(demo string) iter.Seq2[Run, error] {
	return func(yield func(Run, error) bool) {
		err := db.bolt.View(func(tx *bbolt.Tx) error {
			b, err := bucket(tx, demo)
			if err != nil {
				return err
			}

			c := b.Cursor()
			for k, v := c.Last(); k != nil; k, v = c.Prev() {
				var run Run
				err := json.Unmarshal(v, &run)
				if err != nil {
					return fmt.Errorf("unmarshal run %x: %w", k, err)
				}

				if !yield(run, nil) {
					return errStop
				}
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStop) {
			yield(Run{}, fmt.Errorf("db: list %s runs: %w", demo, err))
		}
	}
}
