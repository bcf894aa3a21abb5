package cnf

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
)

type lbl string

func (l lbl) LabelID() string { return string(l) }

type pos int

func (p pos) PositionID() string { return strconv.Itoa(int(p)) }
func (p pos) AbsoluteIndex() int { return int(p) }

func atom(name string) *ir.Node {
	return ir.FromAtom(mapping.Atom{Label: lbl(name), Pos: pos(0), Role: mapping.RoleModule})
}

// eval evaluates a propositional formula under vals keyed by label.
func eval(n *ir.Node, vals map[string]bool) bool {
	switch n.Type {
	case ir.TrueType:
		return true
	case ir.FalseType:
		return false
	case ir.AtomType:
		return vals[n.Atom.Label.LabelID()]
	case ir.NotType:
		return !eval(n.Values[0], vals)
	case ir.AndType:
		for _, c := range n.Values {
			if !eval(c, vals) {
				return false
			}
		}
		return true
	case ir.OrType:
		for _, c := range n.Values {
			if eval(c, vals) {
				return true
			}
		}
		return false
	case ir.ImpliesType:
		return !eval(n.Values[0], vals) || eval(n.Values[1], vals)
	case ir.IffType:
		return eval(n.Values[0], vals) == eval(n.Values[1], vals)
	}
	panic(n.Type.String())
}

// satisfiable reports whether some assignment of the auxiliary variables
// extends fixed to a model of c.
func satisfiable(c *CNF, m *mapping.SAT, fixed map[int]bool) bool {
	aux := m.AuxUsed()
	model := make([]bool, m.MaxVar()+1)
	for v, b := range fixed {
		model[v] = b
	}
	for bits := 0; bits < 1<<aux; bits++ {
		for i := 0; i < aux; i++ {
			model[i+1] = bits&(1<<i) != 0
		}
		if c.Eval(model) {
			return true
		}
	}
	return false
}

func TestBuilderEquisatisfiable(t *testing.T) {
	a, b, c := atom("a"), atom("b"), atom("c")
	formulas := []*ir.Node{
		ir.And(a, b),
		ir.Or(a, ir.Not(b)),
		ir.Implies(ir.And(a, b), c),
		ir.Iff(a, ir.Or(b, c)),
		ir.Not(ir.And(a, b, c)),
		ir.Or(ir.And(a, b), ir.And(ir.Not(a), c)),
		ir.Not(ir.Iff(a, b)),
		ir.And(ir.Or(a, b), ir.Implies(a, ir.Not(b)), ir.Iff(c, a)),
		ir.False(),
		ir.Or(a, &ir.Node{Type: ir.FalseType}),
	}
	names := []string{"a", "b", "c"}
	for _, f := range formulas {
		t.Run(f.String(), func(t *testing.T) {
			m := mapping.NewSAT(8)
			vars := map[string]int{}
			for _, n := range names {
				v, err := m.Add(atom(n).Atom)
				if err != nil {
					t.Fatal(err)
				}
				vars[n] = v
			}
			res := &CNF{}
			if err := NewBuilder(res, m).Assert(f); err != nil {
				t.Fatal(err)
			}
			for bits := 0; bits < 1<<len(names); bits++ {
				vals := map[string]bool{}
				fixed := map[int]bool{}
				for i, n := range names {
					vals[n] = bits&(1<<i) != 0
					fixed[vars[n]] = vals[n]
				}
				want := eval(f, vals)
				if got := satisfiable(res, m, fixed); got != want {
					t.Errorf("%v: got %t want %t", vals, got, want)
				}
			}
		})
	}
}

func TestShift(t *testing.T) {
	c := &CNF{}
	c.Add(1, -11)
	c.Add(-2, 12, 13)
	c.Shift(10, 8)
	want := []Clause{{1, -3}, {-2, 4, 5}}
	if diff := cmp.Diff(want, c.Clauses); diff != "" {
		t.Error(diff)
	}
	if c.NumVars != 5 {
		t.Errorf("got %d vars", c.NumVars)
	}
}

func TestBuilderSharesSubformulas(t *testing.T) {
	a, b := atom("a"), atom("b")
	shared := ir.And(a, b)
	m := mapping.NewSAT(8)
	bld := NewBuilder(&CNF{}, m)
	if err := bld.Assert(ir.Or(shared, atom("c"))); err != nil {
		t.Fatal(err)
	}
	if err := bld.Assert(ir.Implies(atom("d"), shared)); err != nil {
		t.Fatal(err)
	}
	if got := m.AuxUsed(); got != 1 {
		t.Errorf("got %d aux variables, want 1", got)
	}
}

func TestBuilderNotGrounded(t *testing.T) {
	err := NewBuilder(&CNF{}, mapping.NewSAT(8)).Assert(ir.Or(atom("a"), ir.Finally(atom("b"))))
	if !errors.Is(err, ErrNotGrounded) {
		t.Errorf("got %v", err)
	}
}

func TestReadDIMACS(t *testing.T) {
	in := `c a comment
p cnf 4 3
1 -2 0
3
4 0 -1 0
`
	c, err := ReadDIMACS(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Clause{{1, -2}, {3, 4}, {-1}}
	if diff := cmp.Diff(want, c.Clauses); diff != "" {
		t.Error(diff)
	}
	if c.NumVars != 4 {
		t.Errorf("got %d vars", c.NumVars)
	}
	if _, err := ReadDIMACS(strings.NewReader("p dnf 1 1\n")); !errors.Is(err, ErrDIMACS) {
		t.Errorf("got %v", err)
	}
	if _, err := ReadDIMACS(strings.NewReader("1 x 0\n")); !errors.Is(err, ErrDIMACS) {
		t.Errorf("got %v", err)
	}
}
