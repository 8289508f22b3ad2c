package main

import (
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.PathFlag{
		Name:    "config",
		Value:   "configs/config.yaml",
		Usage:   "YAML configuration file, optional",
		Aliases: []string{"c"},
		EnvVars: []string{"CONFIG_PATH"},
	}
	envFileFlag = &cli.PathFlag{
		Name:    "env-file",
		Value:   ".env",
		Usage:   ".env file loaded before the environment is read, optional",
		EnvVars: []string{"ENV_FILE"},
	}
	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Human-readable debug logging",
		Aliases: []string{"d"},
		EnvVars: []string{"SENTINEL_DEBUG"},
	}
	dryRunFlag = &cli.BoolFlag{
		Name:    "dry-run",
		Usage:   "Scan generated data and log alerts instead of sending them",
		EnvVars: []string{"SENTINEL_DRY_RUN"},
	}
	runOnStartFlag = &cli.BoolFlag{
		Name:    "run-on-start",
		Usage:   "Run one pass immediately when watch mode starts",
		EnvVars: []string{"RUN_ON_START"},
	}

	globalFlags = []cli.Flag{configFlag, envFileFlag, debugFlag, dryRunFlag}
)
