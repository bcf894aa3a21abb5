package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/wfsynth/constraint"
	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/format"
	"github.com/signadot/wfsynth/solution"
	"github.com/signadot/wfsynth/solver"
)

const ontology = `
roots:
- id: Tool
  children:
  - id: Transform
- id: Type
  children:
  - id: A
  - id: B
  - id: C
`

const tools = `
functions:
- id: Convert
  taxonomyOperations: [Transform]
  inputs: [{Type: [A]}]
  outputs: [{Type: [B]}]
  implementation:
    code: "convert $[inputs[0]] > $[outputs[0]]"
`

func newProblem(t *testing.T, out string, cf *constraint.File) *Problem {
	t.Helper()
	ont, err := domain.ParseOntology([]byte(ontology))
	if err != nil {
		t.Fatal(err)
	}
	d, err := domain.New(ont, domain.Options{ToolRoot: "Tool", TypeRoots: []string{"Type"}})
	if err != nil {
		t.Fatal(err)
	}
	ann, err := domain.ParseAnnotations([]byte(tools))
	if err != nil {
		t.Fatal(err)
	}
	d.AddAnnotations(ann)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	p, err := NewProblem(d,
		[]domain.DataInstance{{"Type": {"A"}}},
		[]domain.DataInstance{{"Type": {out}}},
		cf, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func options(lo, hi int) Options {
	return Options{
		MinLength:     lo,
		MaxLength:     hi,
		Solutions:     10,
		ToolSeqRepeat: true,
		AuxReserve:    5000,
	}
}

func TestScenario(t *testing.T) {
	for _, kind := range []solver.Kind{solver.KindGini, solver.KindGophersat} {
		t.Run(string(kind), func(t *testing.T) {
			p := newProblem(t, "B", nil)
			opts := options(0, 1)
			opts.Solver.Kind = kind
			opts.Metrics = NewMetrics()
			res, err := Run(context.Background(), p, opts)
			if err != nil {
				t.Fatal(err)
			}
			if n := len(res.Workflows); n != 1 {
				t.Fatalf("got %d workflows", n)
			}
			wf := res.Workflows[0]
			if wf.Index != 1 || wf.Length != 1 || len(wf.Modules) != 1 || wf.Modules[0].ToolID() != "Convert" {
				t.Errorf("got %+v", wf)
			}
			if len(wf.Inputs) != 1 || len(wf.Outputs) != 1 || wf.Outputs[0].Producer != wf.Modules[0] {
				t.Errorf("bad data nodes")
			}
			want := []Length{{Length: 1, Solutions: 1}}
			got := res.Lengths
			for i := range got {
				got[i].Vars, got[i].Clauses, got[i].Elapsed = 0, 0, 0
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Error(diff)
			}
			if res.Run == "" {
				t.Error("no run id")
			}
			path := filepath.Join(t.TempDir(), "wfsynth.prom")
			if err := opts.Metrics.WriteFile(path); err != nil {
				t.Fatal(err)
			}
			d, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range []string{"wfsynth_solutions_total 1", `wfsynth_lengths_total{outcome="sat"} 1`} {
				if !strings.Contains(string(d), s) {
					t.Errorf("metrics lack %q:\n%s", s, d)
				}
			}
		})
	}
}

func TestSolutionLimit(t *testing.T) {
	p := newProblem(t, "B", nil)
	opts := options(1, 4)
	opts.Solutions = 1
	res, err := Run(context.Background(), p, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Workflows) != 1 || len(res.Lengths) != 1 {
		t.Errorf("got %d workflows over %d lengths", len(res.Workflows), len(res.Lengths))
	}
}

func TestUnreachable(t *testing.T) {
	p := newProblem(t, "C", nil)
	res, err := Run(context.Background(), p, options(1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Workflows) != 0 || len(res.Lengths) != 3 {
		t.Errorf("got %d workflows over %d lengths", len(res.Workflows), len(res.Lengths))
	}
}

func TestSolverFailure(t *testing.T) {
	p := newProblem(t, "B", nil)
	opts := options(1, 2)
	opts.Solver = solver.Options{Kind: solver.KindExternal, Path: filepath.Join(t.TempDir(), "no-such-solver")}
	res, err := Run(context.Background(), p, opts)
	if !errors.Is(err, ErrNoSolution) || !errors.Is(err, solver.ErrSolver) {
		t.Fatalf("got %v", err)
	}
	if len(res.Lengths) != 2 || res.Lengths[0].Err == nil {
		t.Errorf("got lengths %+v", res.Lengths)
	}
}

func TestConstraints(t *testing.T) {
	cf := &constraint.File{Constraints: []constraint.Entry{
		{ID: "nuse_m", Parameters: [][]string{{"Transform"}}},
		{ID: "no_such_template"},
	}}
	p := newProblem(t, "B", cf)
	if len(p.Constraints) != 1 || len(p.Skipped) != 1 {
		t.Fatalf("got %d constraints, %d skipped", len(p.Constraints), len(p.Skipped))
	}
	if !errors.Is(p.Skipped[0], constraint.ErrUnknownTemplate) {
		t.Errorf("got %v", p.Skipped[0])
	}
	res, err := Run(context.Background(), p, options(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Workflows) != 0 {
		t.Errorf("workflow uses a forbidden operation")
	}
}

func render(t *testing.T, wfs []*solution.Workflow) string {
	t.Helper()
	var buf bytes.Buffer
	for _, wf := range wfs {
		if err := solution.Render(&buf, wf, format.TextFormat); err != nil {
			t.Fatal(err)
		}
	}
	return buf.String()
}

func TestParallel(t *testing.T) {
	seq, err := Run(context.Background(), newProblem(t, "B", nil), options(1, 3))
	if err != nil {
		t.Fatal(err)
	}
	opts := options(1, 3)
	opts.Parallel = 3
	par, err := Run(context.Background(), newProblem(t, "B", nil), opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(render(t, seq.Workflows), render(t, par.Workflows)); diff != "" {
		t.Error(diff)
	}
	if len(seq.Lengths) != len(par.Lengths) {
		t.Errorf("searched %d and %d lengths", len(seq.Lengths), len(par.Lengths))
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, newProblem(t, "B", nil), options(1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Lengths) != 0 {
		t.Errorf("searched %d lengths", len(res.Lengths))
	}
}

func TestWrite(t *testing.T) {
	res, err := Run(context.Background(), newProblem(t, "B", nil), options(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	paths, err := Write(dir, res, WriteOptions{Scripts: 1, Graphs: 0})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"solutions.txt", "solutions.json", "solution1.sh", "solution1.cwl"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Error(diff)
	}
	sh, err := os.ReadFile(filepath.Join(dir, "solution1.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sh), "convert") {
		t.Errorf("script:\n%s", sh)
	}
	js, err := os.ReadFile(filepath.Join(dir, "solutions.json"))
	if err != nil {
		t.Fatal(err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(js, &docs); err != nil {
		t.Fatalf("solutions.json: %v", err)
	}
	if len(docs) != 1 || docs[0]["name"] != "solution1" {
		t.Errorf("solutions.json:\n%s", js)
	}
}
