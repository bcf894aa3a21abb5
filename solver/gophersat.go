package solver

import (
	"bytes"
	"context"
	"fmt"

	gsolver "github.com/crillab/gophersat/solver"
	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/encode"
)

// Gophersat solves with crillab/gophersat, loading the clauses afresh for
// each call.
type Gophersat struct {
	c *cnf.CNF
}

func NewGophersat(c *cnf.CNF) *Gophersat {
	own := &cnf.CNF{}
	own.Append(c)
	return &Gophersat{c: own}
}

func (s *Gophersat) Name() string { return string(KindGophersat) }

func (s *Gophersat) Add(cl cnf.Clause) { s.c.Add(cl...) }

type gophersatResult struct {
	m   Model
	err error
}

// Solve runs the solver in its own goroutine. When ctx is done first the
// goroutine is left to finish on its own.
func (s *Gophersat) Solve(ctx context.Context) (Model, error) {
	var buf bytes.Buffer
	if err := encode.Encode(s.c, &buf, encode.EncodeComments(false)); err != nil {
		return nil, err
	}
	pb, err := gsolver.ParseCNF(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSolver, err)
	}
	nvars := s.c.NumVars
	res := make(chan gophersatResult, 1)
	go func() {
		gs := gsolver.New(pb)
		if gs.Solve() != gsolver.Sat {
			res <- gophersatResult{}
			return
		}
		vals := gs.Model()
		m := make(Model, nvars+1)
		for v := 1; v <= nvars && v <= len(vals); v++ {
			m[v] = vals[v-1]
		}
		res <- gophersatResult{m: m}
	}()
	select {
	case <-ctx.Done():
		return nil, ctxErr(ctx)
	case r := <-res:
		return r.m, r.err
	}
}
