package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StochSentinel/internal/logging"
	"StochSentinel/internal/model"
	"StochSentinel/internal/notifier"
)

// Runner performs one scan pass.
type Runner interface {
	RunOnce(ctx context.Context) *model.ScanSummary
}

// Scheduler runs scan passes on a cron schedule and on demand, never more
// than one at a time.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Log    *zap.Logger
	Ctx    context.Context

	runMu sync.Mutex // held for the duration of a pass

	mu   sync.Mutex
	last *model.ScanSummary
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, log *zap.Logger) *Scheduler {
	log = logging.OrNop(log)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger), cron.Recover(cron.DiscardLogger)),
		),
		Runner: runner,
		Log:    log,
		Ctx:    ctx,
	}
}

// Register adds the scan task on the given schedule.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executes a pass immediately. It returns false without running when
// another pass is already in progress.
func (s *Scheduler) RunNow() (*model.ScanSummary, bool) {
	if !s.runMu.TryLock() {
		return nil, false
	}
	defer s.runMu.Unlock()

	sum := s.Runner.RunOnce(s.Ctx)
	s.mu.Lock()
	s.last = sum
	s.mu.Unlock()
	return sum, true
}

// Last returns the summary of the most recent pass, if any.
func (s *Scheduler) Last() *model.ScanSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) scanTask() {
	if _, ok := s.RunNow(); !ok {
		s.Log.Warn("previous scan still running, skipping scheduled pass")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch command {
	case "/scan":
		sum, ok := s.RunNow()
		if !ok {
			return "⏳ A scan is already running"
		}
		return notifier.FormatSummary(sum)
	case "/status":
		last := s.Last()
		if last == nil {
			return "No scan has completed yet"
		}
		return notifier.FormatSummary(last)
	default:
		return "Available commands:\n• /scan: run a scan now\n• /status: last scan summary"
	}
}
