package encoder

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/libdiff"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/parse"
	"github.com/signadot/wfsynth/solver"
	"github.com/signadot/wfsynth/taxonomy"
)

const ontology = `
roots:
- id: Tool
- id: Type
  children:
  - id: A
  - id: B
    children:
    - id: B1
    - id: B2
  - id: C
`

const convert = `{"functions": [
  {"id": "Convert", "inputs": [{"Type": ["A"]}], "outputs": [{"Type": ["B1"]}]}
]}`

const chain = `{"functions": [
  {"id": "Convert", "inputs": [{"Type": ["A"]}], "outputs": [{"Type": ["B1"]}]},
  {"id": "Render", "inputs": [{"Type": ["B"]}], "outputs": [{"Type": ["C"]}]}
]}`

const choice = `{"functions": [
  {"id": "ConvertA", "inputs": [{"Type": ["A"]}], "outputs": [{"Type": ["B"]}]},
  {"id": "ConvertB", "inputs": [{"Type": ["A"]}], "outputs": [{"Type": ["B"]}]}
]}`

type problem struct {
	d       *domain.Domain
	in, out []domain.Data
}

func newProblem(t *testing.T, ann string, in, out []string) *problem {
	t.Helper()
	ont, err := domain.ParseOntology([]byte(ontology))
	if err != nil {
		t.Fatal(err)
	}
	d, err := domain.New(ont, domain.Options{ToolRoot: "Tool", TypeRoots: []string{"Type"}})
	if err != nil {
		t.Fatal(err)
	}
	a, err := domain.ParseAnnotations([]byte(ann))
	if err != nil {
		t.Fatal(err)
	}
	d.AddAnnotations(a)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	p := &problem{d: d}
	resolve := func(ids []string) []domain.Data {
		var res []domain.Data
		for _, id := range ids {
			data, err := d.ResolveData(domain.DataInstance{"Type": {id}})
			if err != nil {
				t.Fatal(err)
			}
			d.MarkData(data)
			res = append(res, data)
		}
		return res
	}
	p.in, p.out = resolve(in), resolve(out)
	return p
}

func (p *problem) encoder(length int, repeat bool) *Encoder {
	a := automaton.New(length,
		max(p.d.MaxInputs, len(p.out)),
		max(p.d.MaxOutputs, len(p.in)))
	return New(p.d, a, Options{
		Inputs:        p.in,
		Outputs:       p.out,
		ToolSeqRepeat: repeat,
		AuxReserve:    5000,
	})
}

func (p *problem) encode(t *testing.T, length int, formulas ...string) (*Encoder, *cnf.CNF) {
	t.Helper()
	var cs []*ir.Node
	for _, f := range formulas {
		n, err := parse.Parse([]byte(f))
		if err != nil {
			t.Fatal(err)
		}
		cs = append(cs, n)
	}
	e := p.encoder(length, true)
	c, err := e.Encode(cs)
	if err != nil {
		t.Fatal(err)
	}
	return e, c
}

func solve(t *testing.T, c *cnf.CNF) solver.Model {
	t.Helper()
	m, err := solver.NewGini(c).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func tools(e *Encoder, m solver.Model) []string {
	var res []string
	for _, a := range e.TrueAtoms(m) {
		p, ok := a.Label.(*taxonomy.Predicate)
		if a.Role == mapping.RoleModule && ok && p.IsLeaf() {
			res = append(res, p.ID)
		}
	}
	return res
}

func TestScenario(t *testing.T) {
	p := newProblem(t, convert, []string{"A"}, []string{"B1"})
	e, c := p.encode(t, 1)
	for _, s := range []solver.Solver{solver.NewGini(c), solver.NewGophersat(c)} {
		t.Run(s.Name(), func(t *testing.T) {
			m, err := s.Solve(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if m == nil {
				t.Fatal("no workflow of length 1")
			}
			if got := tools(e, m); len(got) != 1 || got[0] != "Convert" {
				t.Errorf("got tools %v", got)
			}
			s.Add(e.Blocking(m))
			m, err = s.Solve(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if m != nil {
				t.Errorf("second workflow %v", tools(e, m))
			}
		})
	}
}

func TestUnreachableOutput(t *testing.T) {
	p := newProblem(t, convert, []string{"A"}, []string{"C"})
	for _, l := range []int{1, 2, 3} {
		_, c := p.encode(t, l)
		if m := solve(t, c); m != nil {
			t.Errorf("length %d: unexpected workflow", l)
		}
	}
}

func TestChain(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		formulas []string
		want     []string
	}{
		{"too short", 1, nil, nil},
		{"two steps", 2, nil, []string{"Convert", "Render"}},
		{"render first", 2, []string{"'Render'"}, nil},
		{"never render", 2, []string{"G !'Render'"}, nil},
		{"convert then render", 2, []string{"G ('Convert' -> X F 'Render')"}, []string{"Convert", "Render"}},
		{"connected", 2, []string{"F ('Convert' & X 'Render')"}, []string{"Convert", "Render"}},
		{"last", 2, []string{"F ('Render' & !X true)"}, []string{"Convert", "Render"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newProblem(t, chain, []string{"A"}, []string{"C"})
			e, c := p.encode(t, tc.length, tc.formulas...)
			m := solve(t, c)
			if tc.want == nil {
				if m != nil {
					t.Errorf("got %v", tools(e, m))
				}
				return
			}
			if m == nil {
				t.Fatal("unsatisfiable")
			}
			got := tools(e, m)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got %v want %v", got, tc.want)
				}
			}
		})
	}
}

func TestQuantifiers(t *testing.T) {
	tests := []struct {
		formula string
		sat     bool
	}{
		{"Exists ?x 'A'(?x)", true},
		{"Exists ?x 'B1'(?x)", true},
		{"Exists ?x 'C'(?x)", false},
		{"Forall ?x 'A'(?x)", false},
		{"Forall ?x true", true},
		{"Forall ?x 'Type'(?x)", true},
		{"Exists ?x Exists ?y ('A'(?x) & 'B1'(?y) & R(?x,?y))", true},
		{"Exists ?x Exists ?y ('B1'(?x) & 'A'(?y) & R(?x,?y))", false},
		{"Exists ?x Exists ?y ('A'(?x) & 'B1'(?y) & =(?x,?y))", false},
		{"Exists ?x Exists ?y ('A'(?x) & 'A'(?y) & =(?x,?y))", true},
		{"Exists ?x Exists ?y <'Convert'(?x;?y)> true", true},
		{"Exists ?x Exists ?y (<'Convert'(?x;?y)> true & 'B1'(?x))", false},
		{"Exists ?x Exists ?y (<'Convert'(?x;?y)> true & 'B1'(?y))", true},
		{"Exists ?x Exists ?y ('A'(?x) & 'B1'(?y) & near(?x,?y))", true},
		{"!Exists ?x 'A'(?x)", false},
		{"!Exists ?x 'B1'(?x)", false},
		{"!Exists ?x 'C'(?x)", true},
		{"!Forall ?x 'A'(?x)", true},
		{"!Forall ?x 'Type'(?x)", false},
		{"Exists ?x 'A'(?x) -> false", false},
		{"Exists ?x 'C'(?x) -> false", true},
		{"Forall ?x 'A'(?x) -> false", true},
		{"Forall ?x 'A'(?x) | true", true},
		{"!(Exists ?x 'A'(?x) & Exists ?y 'B1'(?y))", false},
		{"Exists ?x 'A'(?x) <-> Exists ?y 'C'(?y)", false},
		{"!(Exists ?x 'A'(?x) <-> Exists ?y 'C'(?y))", true},
		{"F Forall ?x 'Type'(?x)", true},
		{"G Forall ?x 'Type'(?x)", true},
		{"F Forall ?x 'A'(?x)", false},
		{"G !Exists ?x 'C'(?x)", true},
		{"X Exists ?x 'A'(?x)", false},
		{"!X Exists ?x 'A'(?x)", true},
		{"!(Exists ?x 'A'(?x) U 'Convert')", false},
		{"!<'Convert'> Exists ?x 'C'(?x)", true},
		{"!<'Convert'> Exists ?x 'B1'(?x)", false},
		{"!Exists ?x Exists ?y <'Convert'(?x;?y)> true", false},
	}
	for _, tc := range tests {
		t.Run(tc.formula, func(t *testing.T) {
			p := newProblem(t, convert, []string{"A"}, []string{"B1"})
			_, c := p.encode(t, 1, tc.formula)
			if got := solve(t, c) != nil; got != tc.sat {
				t.Errorf("got sat=%t", got)
			}
		})
	}
}

// TestDuality checks the binding clauses of one quantifier: an existential
// needs some binding, a universal binds every non-empty state.
func TestDuality(t *testing.T) {
	p := newProblem(t, convert, []string{"A"}, []string{"B1"})
	for _, q := range []string{"Exists", "Forall"} {
		t.Run(q, func(t *testing.T) {
			e, c := p.encode(t, 1, q+" ?x true")
			m := solve(t, c)
			if m == nil {
				t.Fatal("unsatisfiable")
			}
			bound := map[*automaton.State]bool{}
			for _, a := range e.TrueAtoms(m) {
				if a.Role == mapping.RoleVarValue {
					bound[a.Label.(*automaton.State)] = true
				}
			}
			dom := e.Automaton().Types().MemoryUntil(1)
			switch q {
			case "Exists":
				if len(bound) == 0 {
					t.Error("no binding")
				}
			case "Forall":
				for _, s := range dom {
					v, _ := e.Mapping().Lookup(mapping.Atom{Label: e.empty, Pos: s, Role: mapping.RoleMemoryType})
					if !bound[s] && !m[v] {
						t.Errorf("%s neither bound nor empty", s)
					}
				}
			}
			for s := range bound {
				if s.Block() > 1 {
					t.Errorf("%s outside the domain", s)
				}
			}
		})
	}
}

func TestCompactNumbering(t *testing.T) {
	p := newProblem(t, convert, []string{"A"}, []string{"B1"})
	e := New(p.d, automaton.New(1, 1, 1), Options{
		Inputs:        p.in,
		Outputs:       p.out,
		ToolSeqRepeat: true,
	})
	f, err := parse.Parse([]byte("Exists ?x ('A'(?x) & F 'Convert')"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := e.Encode([]*ir.Node{f})
	if err != nil {
		t.Fatal(err)
	}
	m := e.Mapping()
	if m.AuxUsed() == 0 {
		t.Fatal("no auxiliary variables used")
	}
	if limit := m.AuxUsed() + m.Size(); c.NumVars > limit || c.NumVars >= mapping.DefaultReserved {
		t.Errorf("got %d vars for %d aux and %d atoms", c.NumVars, m.AuxUsed(), m.Size())
	}
	model := solve(t, c)
	if model == nil {
		t.Fatal("unsatisfiable")
	}
	if got := tools(e, model); len(got) != 1 || got[0] != "Convert" {
		t.Errorf("got tools %v", got)
	}
}

func TestBlocking(t *testing.T) {
	tests := []struct {
		repeat bool
		want   int
	}{
		{false, 2},
		{true, 4},
	}
	for _, tc := range tests {
		p := newProblem(t, choice, []string{"A"}, []string{"B"})
		e := p.encoder(1, tc.repeat)
		c, err := e.Encode(nil)
		if err != nil {
			t.Fatal(err)
		}
		n := 0
		for _, err := range solver.Enumerate(context.Background(), solver.NewGini(c), e.Blocking) {
			if err != nil {
				t.Fatal(err)
			}
			n++
			if n > 10 {
				t.Fatal("enumeration does not end")
			}
		}
		if n != tc.want {
			t.Errorf("repeat=%t: got %d solutions want %d", tc.repeat, n, tc.want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	formulas := []string{
		"G ('Convert' -> X F 'Render')",
		"Exists ?x Exists ?y ('A'(?x) & 'C'(?y) & R(?x,?y))",
		"Forall ?x ('B'(?x) -> Exists ?y =(?x,?y))",
	}
	dump := func() string {
		p := newProblem(t, chain, []string{"A"}, []string{"C"})
		e, c := p.encode(t, 3, formulas...)
		var buf bytes.Buffer
		if err := encode.Encode(c, &buf, encode.EncodeNames(e.Mapping().Name)); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}
	a, b := dump(), dump()
	if d := libdiff.Diff(a, b); d != "" {
		t.Errorf("encodings differ:\n%s", d)
	}
}

func TestErrors(t *testing.T) {
	p := newProblem(t, convert, []string{"A"}, []string{"B1"})
	e := p.encoder(1, true)
	if _, err := e.Encode([]*ir.Node{ir.Module("Nope")}); !errors.Is(err, ErrUnknownPredicate) {
		t.Errorf("got %v want unknown predicate", err)
	}
	if _, err := e.Encode(nil); !errors.Is(err, ErrEncoded) {
		t.Errorf("got %v want encoded", err)
	}
	e = p.encoder(1, true)
	if _, err := e.Encode([]*ir.Node{ir.Module("A")}); !errors.Is(err, ErrUnknownPredicate) {
		t.Errorf("type as module: got %v", err)
	}
	e = p.encoder(1, true)
	if _, err := e.Encode([]*ir.Node{ir.Pred("A", "x")}); !errors.Is(err, ErrUnboundVariable) {
		t.Errorf("got %v want unbound", err)
	}
	e = New(p.d, automaton.New(1, 1, 1), Options{Inputs: append(p.in, p.in...), AuxReserve: 10})
	if _, err := e.Encode(nil); err == nil {
		t.Error("inputs larger than the first block were accepted")
	}
}
