// Package solver runs SAT solvers over clause sets and enumerates models.
package solver

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/debug"
)

var (
	ErrTimeout     = errors.New("solver timeout")
	ErrUnknownKind = errors.New("unknown solver")
	ErrSolver      = errors.New("solver failure")
)

// Kind names a backend.
type Kind string

const (
	KindGini      Kind = "gini"
	KindGophersat Kind = "gophersat"
	KindExternal  Kind = "external"
)

func Kinds() []Kind { return []Kind{KindGini, KindGophersat, KindExternal} }

// Model is a satisfying assignment; Model[v] is the value of variable v and
// Model[0] is unused.
type Model []bool

// True returns the variables set in m.
func (m Model) True() []int {
	var res []int
	for v := 1; v < len(m); v++ {
		if m[v] {
			res = append(res, v)
		}
	}
	return res
}

// Solver decides a growing clause set.
type Solver interface {
	Name() string
	// Add adds a clause; it may be called between calls to Solve.
	Add(cnf.Clause)
	// Solve returns a model, or nil when the clauses are unsatisfiable.
	Solve(ctx context.Context) (Model, error)
}

type Options struct {
	Kind Kind
	// Path and Args run an external DIMACS solver as
	// path args... file.
	Path   string
	Args   []string
	Logger *slog.Logger
}

// New loads c into a solver of the given kind.
func New(c *cnf.CNF, opts Options) (Solver, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	switch opts.Kind {
	case KindGini, "":
		return NewGini(c), nil
	case KindGophersat:
		return NewGophersat(c), nil
	case KindExternal:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: external solver without a path", ErrUnknownKind)
		}
		return NewExternal(c, opts.Path, opts.Args, log), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
}

// Enumerate yields successive models of s. After each model the clause
// returned by block is added. The sequence ends when s becomes
// unsatisfiable, block returns an empty clause, or the consumer stops. A
// solver error is yielded once and ends the sequence.
func Enumerate(ctx context.Context, s Solver, block func(Model) cnf.Clause) iter.Seq2[Model, error] {
	return func(yield func(Model, error) bool) {
		for i := 0; ; i++ {
			m, err := s.Solve(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if m == nil {
				if debug.Solve() {
					debug.Logf("%s: unsatisfiable after %d models\n", s.Name(), i)
				}
				return
			}
			if !yield(m, nil) {
				return
			}
			cl := block(m)
			if len(cl) == 0 {
				return
			}
			if debug.Solve() {
				debug.Logf("%s: blocking %v\n", s.Name(), cl)
			}
			s.Add(cl)
		}
	}
}

func ctxErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	return ctx.Err()
}
