package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the agent writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			transaction_id TEXT,
			action         TEXT,
			resource       TEXT,
			amount         INTEGER,
			outcome        TEXT,
			note           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_ts ON transactions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS sync_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			trigger_by  TEXT,
			generation  INTEGER,
			checksum    INTEGER,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_ts ON sync_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS integrity_checks (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			expected  INTEGER,
			actual    INTEGER,
			violated  INTEGER,
			pending   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_integrity_ts ON integrity_checks(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTransaction(evt *TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO transactions (timestamp, transaction_id, action, resource, amount, outcome, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), evt.TransactionID, string(evt.Action), string(evt.Resource),
		evt.Amount, evt.Outcome, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecordSync(evt *SyncEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO sync_events (timestamp, trigger_by, generation, checksum, note)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().Unix(), evt.Trigger, evt.Generation, evt.Checksum, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecordIntegrity(evt *IntegrityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	violated := 0
	if evt.Violated {
		violated = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO integrity_checks (timestamp, expected, actual, violated, pending)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().Unix(), evt.Expected, evt.Actual, violated, evt.Pending,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
