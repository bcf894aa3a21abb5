package encoder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/debug"
	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/taxonomy"
)

var (
	ErrUnboundVariable  = errors.New("unbound variable")
	ErrUnknownPredicate = errors.New("unknown predicate")
	ErrEncoded          = errors.New("already encoded")
)

// Encoder builds the clauses of one problem length. An Encoder is used for a
// single Encode call.
type Encoder struct {
	dom  *domain.Domain
	auto *automaton.Automaton
	opts Options
	log  *slog.Logger

	m   *mapping.SAT
	c   *cnf.CNF
	b   *cnf.Builder
	err error

	ops       []*taxonomy.Predicate
	types     []*taxonomy.Predicate
	leafTypes []*taxonomy.Predicate
	empty     *taxonomy.Predicate

	grounded map[groundKey]*ir.Node
	nvars    int
	binary   []*binaryUse
	deps     pairSet
	eqs      pairSet
	done     bool
}

// New makes an encoder for the automaton a over the (pruned) domain d.
func New(d *domain.Domain, a *automaton.Automaton, opts Options) *Encoder {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	reserve := opts.AuxReserve
	if reserve <= 0 {
		reserve = mapping.DefaultReserved
	}
	if opts.UseInputs == "" {
		opts.UseInputs = UseAll
	}
	if opts.UseGenerated == "" {
		opts.UseGenerated = UseAll
	}
	e := &Encoder{
		dom:      d,
		auto:     a,
		opts:     opts,
		log:      log,
		m:        mapping.NewSAT(reserve),
		c:        &cnf.CNF{},
		grounded: map[groundKey]*ir.Node{},
		deps:     newPairSet(),
		eqs:      newPairSet(),
	}
	e.b = cnf.NewBuilder(e.c, e.m)
	for _, h := range d.Table.Of(taxonomy.Operation) {
		e.ops = append(e.ops, d.Table.Get(h))
	}
	e.empty = d.Table.Get(d.Table.Empty())
	for _, h := range d.Table.Of(taxonomy.DataType) {
		p := d.Table.Get(h)
		if p.IsEmpty() {
			continue
		}
		e.types = append(e.types, p)
		if p.IsLeaf() {
			e.leafTypes = append(e.leafTypes, p)
		}
	}
	return e
}

func (e *Encoder) Mapping() *mapping.SAT { return e.m }

func (e *Encoder) Automaton() *automaton.Automaton { return e.auto }

func (e *Encoder) Domain() *domain.Domain { return e.dom }

func (e *Encoder) Options() Options { return e.opts }

// Encode returns the clauses of the structural encoding and of every
// constraint formula.
func (e *Encoder) Encode(constraints []*ir.Node) (*cnf.CNF, error) {
	if e.done {
		return nil, ErrEncoded
	}
	e.done = true
	e.encodeTools()
	e.encodeTypes()
	e.encodeToolIO()
	e.encodeWorkflowIO()
	e.encodeReferences()
	e.encodeUsage()
	if e.err != nil {
		return nil, e.err
	}
	structural := e.c.Len()
	for _, c := range constraints {
		g, err := e.ground(pushNegations(c, false), 0, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		if debug.Encode() {
			debug.Logf("grounded %s\n  as %s\n", c, g)
		}
		e.assert(g)
		if e.err != nil {
			return nil, e.err
		}
	}
	e.defineRelations()
	if e.err != nil {
		return nil, e.err
	}
	from := e.m.Offset()
	e.c.Shift(from, e.m.Seal())
	e.log.Debug("encoded",
		"length", e.auto.Length(),
		"atoms", e.m.Size(),
		"aux", e.m.AuxUsed(),
		"structural", structural,
		"clauses", e.c.Len())
	return e.c, nil
}

// v returns the variable of an atom. Mapping errors stick to the encoder.
func (e *Encoder) v(l mapping.Label, p mapping.Position, r mapping.Role) int {
	if e.err != nil {
		return 0
	}
	v, err := e.m.Add(mapping.Atom{Label: l, Pos: p, Role: r})
	if err != nil {
		e.err = err
	}
	return v
}

func atom(l mapping.Label, p mapping.Position, r mapping.Role) *ir.Node {
	return ir.FromAtom(mapping.Atom{Label: l, Pos: p, Role: r})
}

func (e *Encoder) clause(lits ...int) {
	if e.err != nil {
		return
	}
	if debug.Encode() {
		debug.Logf("clause %v\n", lits)
	}
	e.c.Add(lits...)
}

func (e *Encoder) assert(n *ir.Node) {
	if e.err != nil {
		return
	}
	if err := e.b.Assert(n); err != nil {
		e.err = err
	}
}

func (e *Encoder) lookup(id string, v taxonomy.Variant) (*taxonomy.Predicate, error) {
	p, ok := e.dom.Table.Lookup(id)
	if !ok || p.Base() != v {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownPredicate, v, id)
	}
	return p, nil
}
