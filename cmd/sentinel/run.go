package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"StochSentinel/internal/collector"
	"StochSentinel/internal/metrics"
	"StochSentinel/internal/notifier"
	"StochSentinel/internal/recorder"
	"StochSentinel/internal/scanner"
	"StochSentinel/internal/scheduler"
)

// logNotifier stands in for Telegram on dry runs.
type logNotifier struct {
	log *zap.Logger
}

func (n logNotifier) Notify(_ context.Context, text string) error {
	n.log.Info("dry run alert", zap.String("text", text))
	return nil
}

type wiring struct {
	scanner  *scanner.Scanner
	telegram *notifier.TelegramNotifier // nil on dry runs
	recorder recorder.Recorder
}

func (w *wiring) Close() {
	if err := w.recorder.Close(); err != nil {
		l.Warn("close recorder", zap.Error(err))
	}
}

func build(c *cli.Context) (*wiring, error) {
	w := &wiring{}

	var fetcher collector.Fetcher
	var n scanner.Notifier
	if c.Bool(dryRunFlag.Name) {
		fetcher = &collector.MockFetcher{}
		n = logNotifier{log: l}
	} else {
		fetcher = collector.NewTwelveDataFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKeys, cfg.Proxy, l)
		w.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, cfg.Proxy, l)
		n = w.telegram
	}
	l.Info("data source", zap.String("fetcher", fetcher.Name()))

	w.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, l)
		if err != nil {
			l.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			w.recorder = sr
		}
	}

	s, err := scanner.New(cfg, fetcher, n, w.recorder, l)
	if err != nil {
		w.Close()
		return nil, err
	}
	w.scanner = s
	return w, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runOnce(c *cli.Context) error {
	w, err := build(c)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signalContext()
	defer stop()

	w.scanner.RunOnce(ctx)
	return nil
}

func watch(c *cli.Context) error {
	w, err := build(c)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signalContext()
	defer stop()

	if cfg.Metrics.Addr != "" {
		monitoring := &metrics.PrometheusService{Log: l}
		if err := monitoring.Start(cfg.Metrics.Addr); err != nil {
			return err
		}
		defer func() {
			if err := monitoring.Stop(); err != nil {
				l.Warn("stop metrics service", zap.Error(err))
			}
		}()
	}

	sched := scheduler.NewScheduler(ctx, w.scanner, l)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if w.telegram != nil {
		go w.telegram.StartPolling(ctx, sched.HandleCommand)
		l.Info("telegram polling started")
		if err := w.telegram.SendWithRetry(ctx, "🤖 Stoch sentinel is watching. Send /help for commands.", 3); err != nil {
			l.Warn("startup message not delivered", zap.Error(err))
		}
	}

	if c.Bool(runOnStartFlag.Name) {
		l.Info("run-on-start enabled, scanning now")
		go sched.RunNow()
	}

	l.Info("watching", zap.String("cron", cfg.Schedule.Cron))
	<-ctx.Done()
	l.Info("shutdown signal received, stopping")
	return nil
}
