package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/format"
	"github.com/signadot/wfsynth/solution"
	"github.com/signadot/wfsynth/synth"
)

func synthMain(cfg *SynthConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Synth.Parse(cc, args)
	if err != nil {
		return err
	}
	c, err := cfg.flags.load(args)
	if err != nil {
		return err
	}
	if cfg.Solutions > 0 {
		c.Solutions = cfg.Solutions
	}
	log := cfg.log
	if c.DebugMode && !cfg.Verbose {
		log = newLogger(os.Stderr, true)
	}
	p, err := synth.Load(c, log)
	if err != nil {
		return err
	}
	opts := synth.OptionsFrom(c)
	opts.Logger = log
	if cfg.Metrics != "" {
		opts.Metrics = synth.NewMetrics()
	}
	res, runErr := synth.Run(cfg.ctx, p, opts)
	if res == nil {
		return runErr
	}
	if !cfg.Quiet {
		w := bufio.NewWriter(cc.Out)
		ropts := []solution.RenderOption{}
		if colors := cfg.colors(cc.Out); colors != nil {
			ropts = append(ropts, solution.RenderColors(colors))
		}
		for _, wf := range res.Workflows {
			if err := solution.Render(w, wf, format.TextFormat, ropts...); err != nil {
				return err
			}
		}
		if len(res.Workflows) == 0 {
			fmt.Fprintf(w, "no workflow of length %d to %d\n", c.SolutionLength.Min, c.SolutionLength.Max)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if res.TimedOut {
		log.Warn("search timed out", "timeout_sec", c.TimeoutSec, "workflows", len(res.Workflows))
	}
	dir := cfg.Out
	if dir == "" {
		dir = c.SolutionsDir
	}
	var errs []error
	if dir != "" && len(res.Workflows) > 0 {
		paths, err := synth.Write(dir, res, synth.WriteOptions{
			Scripts: c.ExecutionScripts,
			Graphs:  c.GeneratedGraphs,
		})
		if err != nil {
			errs = append(errs, err)
		}
		log.Info("wrote solutions", "dir", dir, "files", len(paths))
	}
	if opts.Metrics != nil {
		if err := opts.Metrics.WriteFile(cfg.Metrics); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(append(errs, runErr)...)
}
