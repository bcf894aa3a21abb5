package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/libdiff"
)

func diffMain(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	ls := libdiff.Lines(string(a), string(b))
	if !libdiff.Changed(ls) {
		return nil
	}
	var color func(libdiff.Op, string) string
	if colors := cfg.colors(cc.Out); colors != nil {
		color = func(op libdiff.Op, s string) string {
			if op == libdiff.Insert {
				return colors.Color(encode.PositiveColor, s)
			}
			return colors.Color(encode.NegativeColor, s)
		}
	}
	if _, err := io.WriteString(cc.Out, libdiff.Format(ls, cfg.Context, color)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
