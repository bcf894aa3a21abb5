// Package synth searches for workflows of increasing length: each length
// gets a fresh automaton and encoding, and models are enumerated with
// blocking clauses until enough workflows are found.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/encoder"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/solution"
	"github.com/signadot/wfsynth/solver"
	"golang.org/x/sync/errgroup"
)

var ErrNoSolution = errors.New("no workflow found")

type Options struct {
	// Lengths below 1 are searched as 1.
	MinLength int
	MaxLength int
	// Solutions is the number of workflows to find.
	Solutions int
	// Timeout bounds the whole run; 0 means no timeout.
	Timeout   time.Duration

	MaxInputs     int
	MaxOutputs    int
	UseInputs     encoder.Usage
	UseGenerated  encoder.Usage
	ToolSeqRepeat bool
	AuxReserve    int

	Solver   solver.Options
	// Parallel > 1 searches that many lengths at once.
	Parallel int
	Metrics  *Metrics
	Logger   *slog.Logger
}

// Length reports the search at one length.
type Length struct {
	Length    int
	Vars      int
	Clauses   int
	Solutions int
	Elapsed   time.Duration
	// Err is the solver error that ended enumeration at this length.
	Err       error
}

type Result struct {
	// Run identifies the run in logs.
	Run       string
	Workflows []*solution.Workflow
	Lengths   []Length
	TimedOut  bool
}

// Run searches for workflows solving p. Solver failures end the search at
// their length; they are returned, wrapped with ErrNoSolution, only when
// no workflow was found and the failing length is the last searched.
// Encoding errors abort the run.
func Run(ctx context.Context, p *Problem, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	res := &Result{Run: uuid.NewString()}
	log = log.With("run", res.Run)
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	lo := max(opts.MinLength, 1)
	hi := max(opts.MaxLength, lo)
	want := max(opts.Solutions, 1)
	s := &search{p: p, opts: opts, log: log, formulas: p.Formulas()}
	log.Info("synthesis started", "min", lo, "max", hi, "solutions", want, "constraints", len(s.formulas))

	var runs []lengthRun
	var err error
	if opts.Parallel > 1 {
		runs, err = s.parallel(ctx, lo, hi, want)
	} else {
		runs, err = s.sequential(ctx, lo, hi, want)
	}
	for _, r := range runs {
		for _, wf := range r.workflows {
			if len(res.Workflows) == want {
				break
			}
			wf.Index = len(res.Workflows) + 1
			res.Workflows = append(res.Workflows, wf)
		}
		res.Lengths = append(res.Lengths, r.report)
	}
	res.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
	if err != nil {
		return res, err
	}
	log.Info("synthesis done", "workflows", len(res.Workflows), "lengths", len(res.Lengths), "timeout", res.TimedOut)
	if n := len(res.Lengths); len(res.Workflows) == 0 && n > 0 {
		if last := res.Lengths[n-1]; last.Err != nil {
			return res, fmt.Errorf("%w: length %d: %w", ErrNoSolution, last.Length, last.Err)
		}
	}
	return res, nil
}

type search struct {
	p        *Problem
	opts     Options
	log      *slog.Logger
	formulas []*ir.Node
}

type lengthRun struct {
	report    Length
	workflows []*solution.Workflow
}

func (s *search) sequential(ctx context.Context, lo, hi, want int) ([]lengthRun, error) {
	var res []lengthRun
	found := 0
	for l := lo; l <= hi && found < want; l++ {
		if ctx.Err() != nil {
			s.log.Warn("search stopped", "length", l, "error", ctx.Err())
			break
		}
		r, err := s.length(ctx, l, want-found)
		if err != nil {
			return res, err
		}
		found += len(r.workflows)
		res = append(res, r)
	}
	return res, nil
}

// parallel searches every length on its own solver. Results are kept in
// length order; lengths past the one completing the count are dropped.
func (s *search) parallel(ctx context.Context, lo, hi, want int) ([]lengthRun, error) {
	runs := make([]lengthRun, hi-lo+1)
	done := make([]bool, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallel)
	for i := range runs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			r, err := s.length(gctx, lo+i, want)
			if err != nil {
				return err
			}
			runs[i], done[i] = r, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var res []lengthRun
	found := 0
	for i, r := range runs {
		if !done[i] || found >= want {
			break
		}
		found += len(r.workflows)
		res = append(res, r)
	}
	return res, nil
}

// length encodes and enumerates workflows of length l, at most limit.
func (s *search) length(ctx context.Context, l, limit int) (lengthRun, error) {
	start := time.Now()
	log := s.log.With("length", l)
	e := s.p.Encoder(l, s.opts, log)
	a := e.Automaton()
	c, err := e.Encode(s.formulas)
	if err != nil {
		return lengthRun{}, fmt.Errorf("length %d: %w", l, err)
	}
	r := lengthRun{report: Length{Length: l, Vars: c.NumVars, Clauses: c.Len()}}
	sopts := s.opts.Solver
	sopts.Logger = log
	sv, err := solver.New(c, sopts)
	if err != nil {
		return lengthRun{}, err
	}
	for m, err := range solver.Enumerate(ctx, sv, e.Blocking) {
		if err != nil {
			r.report.Err = err
			log.Warn("no further workflows", "solver", sv.Name(), "error", err)
			break
		}
		r.workflows = append(r.workflows, solution.Decode(a, e.TrueAtoms(m)))
		if len(r.workflows) >= limit {
			break
		}
	}
	r.report.Solutions = len(r.workflows)
	r.report.Elapsed = time.Since(start)
	s.opts.Metrics.observe(r.report)
	log.Info("length searched",
		"vars", r.report.Vars,
		"clauses", r.report.Clauses,
		"solutions", r.report.Solutions,
		"elapsed", r.report.Elapsed.Round(time.Millisecond))
	return r, nil
}

// Encoder returns a fresh encoder of p for workflows of length l.
func (p *Problem) Encoder(l int, opts Options, log *slog.Logger) *encoder.Encoder {
	in, out := p.Bounds(opts.MaxInputs, opts.MaxOutputs)
	return encoder.New(p.Domain, automaton.New(l, in, out), encoder.Options{
		Inputs:        p.Inputs,
		Outputs:       p.Outputs,
		UseInputs:     opts.UseInputs,
		UseGenerated:  opts.UseGenerated,
		ToolSeqRepeat: opts.ToolSeqRepeat,
		AuxReserve:    opts.AuxReserve,
		Logger:        log,
	})
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
