package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/parse"
)

func parseMain(cfg *ParseConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse.Parse(cc, args)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(cc.Out)
	defer w.Flush()
	if len(args) == 0 {
		return parseReader(cfg, w, cc.In, "-")
	}
	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return err
		}
		err = parseReader(cfg, w, f, arg)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func parseReader(cfg *ParseConfig, w io.Writer, r io.Reader, name string) error {
	d, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	ns, err := parse.ParseAll(d, parse.AllowFree(cfg.Free))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, n := range ns {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}
