// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	label TEXT NOT NULL,
	elapsed_ns INTEGER NOT NULL,
	enqueues INTEGER NOT NULL,
	dequeues INTEGER NOT NULL,
	control_enqueues INTEGER NOT NULL,
	control_dequeues INTEGER NOT NULL,
	avg_enqueue_ns REAL NOT NULL,
	avg_dequeue_ns REAL NOT NULL,
	avg_latency_ns REAL NOT NULL,
	throughput REAL NOT NULL
)`

// Store persists run summaries: a timestamped plain-text report per run
// under a results directory, and optionally one row per run in a
// SQLite database for later comparison across sweeps. Either sink may
// be disabled by leaving its location empty.
type Store struct {
	dir string
	db  *sql.DB
}

// OpenStore prepares the result sinks. dir is created if missing;
// dbPath is opened (and the runs table created) only when non-empty.
func OpenStore(dir, dbPath string) (*Store, error) {
	s := &Store{dir: dir}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("bench: create results dir: %w", err)
		}
	}
	if dbPath != "" {
		db, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("bench: open results db: %w", err)
		}
		if _, err := db.Exec(createRunsTable); err != nil {
			db.Close()
			return nil, fmt.Errorf("bench: create runs table: %w", err)
		}
		s.db = db
	}
	return s, nil
}

// Save persists one summary to every enabled sink.
func (s *Store) Save(sum Summary) error {
	now := time.Now()
	if s.dir != "" {
		name := fmt.Sprintf("results_%s.txt", now.Format("20060102_150405.000"))
		path := filepath.Join(s.dir, name)
		if err := os.WriteFile(path, []byte(sum.String()), 0o644); err != nil {
			return fmt.Errorf("bench: write summary: %w", err)
		}
	}
	if s.db != nil {
		_, err := s.db.Exec(
			`INSERT INTO runs (created_at, label, elapsed_ns, enqueues, dequeues,
				control_enqueues, control_dequeues, avg_enqueue_ns, avg_dequeue_ns,
				avg_latency_ns, throughput)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			now.Format(time.RFC3339Nano), sum.Label, int64(sum.Elapsed),
			sum.Enqueues, sum.Dequeues, sum.ControlEnqueues, sum.ControlDequeues,
			sum.AvgEnqueue, sum.AvgDequeue, sum.AvgLatency, sum.Throughput,
		)
		if err != nil {
			return fmt.Errorf("bench: insert run: %w", err)
		}
	}
	return nil
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
