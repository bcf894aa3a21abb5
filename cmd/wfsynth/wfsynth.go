package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func wfMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	cfg.log = newLogger(os.Stderr, cfg.Verbose)
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cfg.log.Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}
