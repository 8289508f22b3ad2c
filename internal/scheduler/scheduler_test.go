package scheduler

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StochSentinel/internal/model"
)

type fakeRunner struct {
	runs    int32
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (f *fakeRunner) RunOnce(_ context.Context) *model.ScanSummary {
	atomic.AddInt32(&f.runs, 1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	return &model.ScanSummary{
		RunID:     "run",
		Started:   time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		Pairs:     16,
		Evaluated: 16,
		Skipped:   map[model.SkipReason]int{},
	}
}

func TestRegister_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, nil)
	if err := s.Register("not a schedule"); err == nil {
		t.Error("expected an error for an invalid cron spec")
	}
	if err := s.Register("0 1 * * * *"); err != nil {
		t.Errorf("expected a six-field spec to register: %v", err)
	}
}

func TestHandleCommand_StatusBeforeAndAfterScan(t *testing.T) {
	r := &fakeRunner{}
	s := NewScheduler(context.Background(), r, nil)

	if got := s.HandleCommand(context.Background(), "/status"); !strings.Contains(got, "No scan") {
		t.Errorf("unexpected status before any scan: %s", got)
	}
	got := s.HandleCommand(context.Background(), "/scan")
	if !strings.Contains(got, "Pairs: 16") {
		t.Errorf("unexpected scan reply: %s", got)
	}
	if atomic.LoadInt32(&r.runs) != 1 {
		t.Errorf("expected 1 run, got %d", r.runs)
	}
	if got := s.HandleCommand(context.Background(), "/status"); !strings.Contains(got, "Evaluated: 16") {
		t.Errorf("unexpected status after scan: %s", got)
	}
	if got := s.HandleCommand(context.Background(), "hello"); !strings.Contains(got, "/scan") {
		t.Errorf("expected help text, got %s", got)
	}
}

func TestRunNow_NoOverlap(t *testing.T) {
	r := &fakeRunner{release: make(chan struct{}), started: make(chan struct{})}
	s := NewScheduler(context.Background(), r, nil)

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	<-r.started

	if _, ok := s.RunNow(); ok {
		t.Error("second pass must not start while the first is running")
	}
	if got := s.HandleCommand(context.Background(), "/scan"); !strings.Contains(got, "already running") {
		t.Errorf("unexpected reply while busy: %s", got)
	}

	close(r.release)
	<-done
	if atomic.LoadInt32(&r.runs) != 1 {
		t.Errorf("expected exactly 1 run, got %d", r.runs)
	}
	if _, ok := s.RunNow(); !ok {
		t.Error("a pass should run once the previous one finished")
	}
}
