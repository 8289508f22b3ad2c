package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"StochSentinel/internal/config"
	"StochSentinel/internal/logging"
)

var (
	l   = zap.NewNop()
	cfg *config.Config
)

func main() {
	app := &cli.App{
		Name:     "sentinel",
		Usage:    "Stoch GILA signal bot: multi-period stochastic alerts over Twelve Data",
		Version:  "v0.1.0",
		Before:   before,
		After:    after,
		Flags:    globalFlags,
		Commands: commands,
		Action:   runOnce,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func before(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.Path(configFlag.Name), c.Path(envFileFlag.Name))
	if err != nil {
		return err
	}
	if c.Bool(dryRunFlag.Name) {
		err = cfg.ValidateScan()
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, c.Bool(debugFlag.Name), cfg.Log.File)
	if err != nil {
		return err
	}
	l = logger
	return nil
}

func after(_ *cli.Context) error {
	_ = l.Sync()
	return nil
}
