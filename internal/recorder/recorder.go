package recorder

import (
	"time"

	"StochSentinel/internal/model"
)

// ScanRun holds the per-pass counters written to the journal.
type ScanRun struct {
	RunID     string    `db:"run_id"`
	StartedAt time.Time `db:"started_at"`
	Finished  time.Time `db:"finished_at"`
	Pairs     int       `db:"pairs"`
	Evaluated int       `db:"evaluated"`
	Skipped   int       `db:"skipped"`
}

// ReadingRow is one %K value computed for one pair in one pass.
type ReadingRow struct {
	RunID      string    `db:"run_id"`
	Symbol     string    `db:"symbol"`
	Timeframe  string    `db:"timeframe"`
	CandleTime time.Time `db:"candle_time"`
	Close      string    `db:"close"`
	Period     int       `db:"period"`
	K          string    `db:"k"`
}

// NewReadingRows flattens an evaluation into journal rows. Undefined
// readings are left out.
func NewReadingRows(runID string, ev *model.Evaluation) []ReadingRow {
	rows := make([]ReadingRow, 0, len(ev.Readings))
	for _, r := range ev.Readings {
		if !r.Defined {
			continue
		}
		rows = append(rows, ReadingRow{
			RunID:      runID,
			Symbol:     ev.Symbol,
			Timeframe:  ev.Timeframe,
			CandleTime: ev.CandleTime,
			Close:      ev.Close.String(),
			Period:     r.Period,
			K:          r.K.String(),
		})
	}
	return rows
}

// Recorder persists indicator readings for later charting. It never stores
// decisions or notifications and is never read back by the scanner.
type Recorder interface {
	RecordReadings(runID string, ev *model.Evaluation) error
	RecordRun(run *ScanRun) error
	Close() error
}
