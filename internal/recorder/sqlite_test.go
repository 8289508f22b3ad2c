package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StochSentinel/internal/model"
)

func sampleEvaluation() *model.Evaluation {
	return &model.Evaluation{
		Symbol:     "EUR/JPY",
		Timeframe:  "1h",
		CandleTime: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		Close:      decimal.RequireFromString("161.905"),
		Readings: []model.Reading{
			{Period: 30, K: decimal.RequireFromString("12.5"), Defined: true},
			{Period: 65, K: decimal.RequireFromString("40"), Defined: true},
			{Period: 100},
		},
	}
}

func TestNewReadingRows_SkipsUndefined(t *testing.T) {
	rows := NewReadingRows("run-1", sampleEvaluation())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].K != "12.5" || rows[0].Close != "161.905" || rows[1].Period != 65 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestSQLiteRecorder_RecordAndCount(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	if err := rec.RecordReadings("run-1", sampleEvaluation()); err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordReadings("run-2", sampleEvaluation()); err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordReadings("run-2", &model.Evaluation{Symbol: "EUR/JPY", Timeframe: "1h"}); err != nil {
		t.Errorf("empty evaluation should be a no-op: %v", err)
	}

	n, err := rec.CountReadings("EUR/JPY", "1h")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4 readings, got %d", n)
	}

	start := time.Now()
	run := &ScanRun{RunID: "run-2", StartedAt: start, Finished: start.Add(time.Minute), Pairs: 16, Evaluated: 12, Skipped: 4}
	if err := rec.RecordRun(run); err != nil {
		t.Fatal(err)
	}
	run.Evaluated = 13
	if err := rec.RecordRun(run); err != nil {
		t.Errorf("re-recording a run should replace it: %v", err)
	}
}

func TestSQLiteRecorder_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	rec, err := NewSQLiteRecorder(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordReadings("run-1", sampleEvaluation()); err != nil {
		t.Fatal(err)
	}
	rec.Close()

	rec, err = NewSQLiteRecorder(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rec.Close()
	if n, _ := rec.CountReadings("EUR/JPY", "1h"); n != 2 {
		t.Errorf("expected 2 readings after reopen, got %d", n)
	}
}
