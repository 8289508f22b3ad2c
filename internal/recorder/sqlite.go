package recorder

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StochSentinel/internal/logging"
	"StochSentinel/internal/model"
)

// SQLiteRecorder persists readings to a SQLite database.
type SQLiteRecorder struct {
	db  *sqlx.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	log = logging.OrNop(log)
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			pairs       INTEGER,
			evaluated   INTEGER,
			skipped     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS readings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			candle_time TIMESTAMP NOT NULL,
			close       TEXT,
			period      INTEGER NOT NULL,
			k           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_pair ON readings(symbol, timeframe, candle_time)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReadings(runID string, ev *model.Evaluation) error {
	rows := NewReadingRows(runID, ev)
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.NamedExec(`INSERT INTO readings
		(run_id, symbol, timeframe, candle_time, close, period, k)
		VALUES (:run_id, :symbol, :timeframe, :candle_time, :close, :period, :k)`, rows)
	return err
}

func (r *SQLiteRecorder) RecordRun(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.NamedExec(`INSERT OR REPLACE INTO scan_runs
		(run_id, started_at, finished_at, pairs, evaluated, skipped)
		VALUES (:run_id, :started_at, :finished_at, :pairs, :evaluated, :skipped)`, run)
	return err
}

// CountReadings returns how many readings are stored for a pair.
func (r *SQLiteRecorder) CountReadings(symbol, timeframe string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM readings WHERE symbol = ? AND timeframe = ?`, symbol, timeframe)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
