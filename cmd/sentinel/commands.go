package main

import (
	"github.com/urfave/cli/v2"
)

var commands = []*cli.Command{
	{
		Name:   "run",
		Usage:  "Run one scan pass over every timeframe and symbol, then exit",
		Action: runOnce,
	}, {
		Name:   "watch",
		Usage:  "Scan on the configured cron schedule and answer Telegram commands",
		Action: watch,
		Flags:  []cli.Flag{runOnStartFlag},
	},
}
