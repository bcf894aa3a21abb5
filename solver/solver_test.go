package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/wfsynth/cnf"
)

func backends(c *cnf.CNF) []Solver {
	return []Solver{NewGini(c), NewGophersat(c)}
}

func block(m Model) cnf.Clause {
	var cl cnf.Clause
	for v := 1; v < len(m); v++ {
		if m[v] {
			cl = append(cl, -v)
		} else {
			cl = append(cl, v)
		}
	}
	return cl
}

func TestSolve(t *testing.T) {
	sat := &cnf.CNF{}
	sat.Add(1, 2)
	sat.Add(-1)
	unsat := &cnf.CNF{}
	unsat.Add(1)
	unsat.Add(-1)
	for _, s := range backends(sat) {
		t.Run(s.Name(), func(t *testing.T) {
			m, err := s.Solve(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if m == nil {
				t.Fatal("unsat")
			}
			if !sat.Eval(m) {
				t.Errorf("model %v does not satisfy", m)
			}
			if diff := cmp.Diff([]int{2}, m.True()); diff != "" {
				t.Error(diff)
			}
		})
	}
	for _, s := range backends(unsat) {
		t.Run(s.Name()+"/unsat", func(t *testing.T) {
			m, err := s.Solve(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if m != nil {
				t.Errorf("got model %v", m)
			}
		})
	}
}

func TestEnumerate(t *testing.T) {
	c := &cnf.CNF{}
	c.Add(1, 2)
	c.Add(-3)
	for _, s := range backends(c) {
		t.Run(s.Name(), func(t *testing.T) {
			seen := map[string]bool{}
			for m, err := range Enumerate(context.Background(), s, block) {
				if err != nil {
					t.Fatal(err)
				}
				if !c.Eval(m) {
					t.Fatalf("model %v does not satisfy", m)
				}
				k := fmt.Sprint(m.True())
				if seen[k] {
					t.Fatalf("model %v repeated", m)
				}
				seen[k] = true
			}
			if len(seen) != 3 {
				t.Errorf("got %d models want 3", len(seen))
			}
		})
	}
}

func TestEnumerateStop(t *testing.T) {
	c := &cnf.CNF{}
	c.Add(1, 2, 3)
	n := 0
	for _, err := range Enumerate(context.Background(), NewGini(c), block) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("got %d", n)
	}
}

func TestCanceled(t *testing.T) {
	c := &cnf.CNF{}
	c.Add(1)
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	_, err := NewGophersat(c).Solve(ctx)
	if err != nil && !errors.Is(err, ErrTimeout) {
		t.Errorf("got %v want timeout", err)
	}
}

func TestParseOutput(t *testing.T) {
	out := "c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 0\n"
	m, err := ParseOutput(strings.NewReader(out), 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 3}, m.True()); diff != "" {
		t.Error(diff)
	}
	m, err = ParseOutput(strings.NewReader("s UNSATISFIABLE\n"), 4)
	if err != nil || m != nil {
		t.Errorf("unsat: got %v, %v", m, err)
	}
	if _, err := ParseOutput(strings.NewReader("garbage\n"), 4); !errors.Is(err, ErrSolver) {
		t.Errorf("got %v want solver error", err)
	}
}

func TestNew(t *testing.T) {
	c := &cnf.CNF{}
	for _, k := range []Kind{KindGini, KindGophersat} {
		s, err := New(c, Options{Kind: k})
		if err != nil {
			t.Fatal(err)
		}
		if s.Name() != string(k) {
			t.Errorf("got %s want %s", s.Name(), k)
		}
	}
	if _, err := New(c, Options{Kind: KindExternal}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got %v", err)
	}
	if _, err := New(c, Options{Kind: "minisat"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got %v", err)
	}
}
