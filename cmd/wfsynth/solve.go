package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/solver"
)

func solveMain(cfg *SolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Solve.Parse(cc, args)
	if err != nil {
		return err
	}
	var r io.Reader = cc.In
	switch len(args) {
	case 0:
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	default:
		return fmt.Errorf("%w: solve takes at most one file, got %v", cli.ErrUsage, args)
	}
	c, err := cnf.ReadDIMACS(r)
	if err != nil {
		return err
	}
	s, err := solver.New(c, solver.Options{
		Kind:   solver.Kind(cfg.Solver),
		Path:   cfg.Path,
		Logger: cfg.log,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	w := bufio.NewWriter(cc.Out)
	n := 0
	block := func(m solver.Model) cnf.Clause {
		cl := make(cnf.Clause, 0, c.NumVars)
		for v := 1; v <= c.NumVars; v++ {
			if m[v] {
				cl = append(cl, -v)
			} else {
				cl = append(cl, v)
			}
		}
		return cl
	}
	for m, err := range solver.Enumerate(cfg.ctx, s, block) {
		if err != nil {
			w.Flush()
			return err
		}
		n++
		fmt.Fprintln(w, "s SATISFIABLE")
		writeModel(w, m, c.NumVars)
		if n >= cfg.Models {
			break
		}
	}
	if n == 0 {
		fmt.Fprintln(w, "s UNSATISFIABLE")
	}
	return w.Flush()
}

// writeModel writes m as competition format value lines.
func writeModel(w *bufio.Writer, m solver.Model, nvars int) {
	const perLine = 16
	for v := 1; v <= nvars; v++ {
		if (v-1)%perLine == 0 {
			if v > 1 {
				w.WriteByte('\n')
			}
			w.WriteString("v")
		}
		l := v
		if !m[v] {
			l = -v
		}
		fmt.Fprintf(w, " %d", l)
	}
	if nvars > 0 {
		w.WriteByte('\n')
	}
	w.WriteString("v 0\n")
}
