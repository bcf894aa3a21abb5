package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/signadot/wfsynth/cnf"
)

const pollInterval = 5 * time.Millisecond

// Gini is an incremental in-process solver.
type Gini struct {
	g     *gini.Gini
	nvars int
}

func NewGini(c *cnf.CNF) *Gini {
	s := &Gini{g: gini.New(), nvars: c.NumVars}
	for _, cl := range c.Clauses {
		s.Add(cl)
	}
	return s
}

func (s *Gini) Name() string { return string(KindGini) }

func (s *Gini) Add(cl cnf.Clause) {
	for _, l := range cl {
		s.nvars = max(s.nvars, l, -l)
		s.g.Add(z.Dimacs2Lit(l))
	}
	s.g.Add(z.LitNull)
}

func (s *Gini) Solve(ctx context.Context) (Model, error) {
	gs := s.g.GoSolve()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			gs.Stop()
			return nil, ctxErr(ctx)
		case <-tick.C:
			r, done := gs.Test()
			if !done {
				continue
			}
			switch r {
			case 1:
				m := make(Model, s.nvars+1)
				for v := 1; v <= s.nvars; v++ {
					m[v] = s.g.Value(z.Dimacs2Lit(v))
				}
				return m, nil
			case -1:
				return nil, nil
			}
			return nil, fmt.Errorf("%w: gini returned %d", ErrSolver, r)
		}
	}
}
