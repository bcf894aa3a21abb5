package encoder

import (
	"slices"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/taxonomy"
)

// variable is a flattened quantified variable.
type variable struct {
	v *mapping.Variable
	// domain holds the states the variable may be bound to, in absolute
	// order. It is cleared once substitution clauses are emitted.
	domain []*automaton.State
	unary  []*taxonomy.Predicate
}

// extend adds s to the domain of a variable still in scope.
func (v *variable) extend(s *automaton.State) {
	i, found := slices.BinarySearchFunc(v.domain, s, automaton.Compare)
	if !found {
		v.domain = slices.Insert(v.domain, i, s)
	}
}

func (v *variable) useUnary(p *taxonomy.Predicate) {
	if !slices.Contains(v.unary, p) {
		v.unary = append(v.unary, p)
	}
}

// binaryUse is a substitutable relation between two variables.
type binaryUse struct {
	x, y *variable
	rel  string
	done bool
}

func isAtom(v *variable, s *automaton.State) *ir.Node {
	return atom(s, v.v, mapping.RoleVarValue)
}

// groundQuantifier grounds a quantifier in positive position. An existential
// binds some non-empty domain state, a universal binds every one. The
// binding is part of the returned formula so that it only constrains
// models in which the quantifier has to hold.
func (e *Encoder) groundQuantifier(n *ir.Node, t int, en env) (*ir.Node, error) {
	e.nvars++
	v := &variable{v: mapping.NewVariable(n.Name, e.nvars)}
	dom := e.auto.Types().MemoryUntil(min(t+1, e.auto.Length()))
	v.domain = slices.Clone(dom)
	bind := make([]*ir.Node, len(dom))
	for i, a := range dom {
		if n.Type == ir.ExistsType {
			bind[i] = ir.And(isAtom(v, a), ir.Not(e.emptyAt(a)))
		} else {
			bind[i] = ir.Or(isAtom(v, a), e.emptyAt(a))
		}
	}
	body, err := e.ground(n.Values[0], t, en.with(n.Name, v))
	if err != nil {
		return nil, err
	}
	e.substitute(v)
	if n.Type == ir.ExistsType {
		return ir.And(ir.Or(bind...), body), e.err
	}
	return ir.And(append(bind, body)...), e.err
}

// substitute transfers the predicates used on v to the states v is bound
// to, then closes v. Relations whose other variable is already closed were
// handled when that variable closed.
func (e *Encoder) substitute(v *variable) {
	for _, p := range v.unary {
		px := atom(p, v.v, mapping.RoleMemoryType)
		for _, a := range v.domain {
			is, pa := isAtom(v, a), atom(p, a, mapping.RoleMemoryType)
			e.assert(ir.Implies(ir.And(is, px), pa))
			e.assert(ir.Implies(ir.And(is, ir.Not(px)), ir.Not(pa)))
		}
	}
	for _, u := range e.binary {
		if u.done || (u.x != v && u.y != v) {
			continue
		}
		u.done = true
		if len(u.x.domain) == 0 || len(u.y.domain) == 0 {
			continue
		}
		rel := e.varRelation(u)
		for _, a := range u.x.domain {
			for _, b := range u.y.domain {
				ant := []*ir.Node{isAtom(u.x, a), isAtom(u.y, b)}
				sr := e.stateRelation(u.rel, a, b)
				e.assert(ir.Implies(ir.And(append(ant, rel)...), sr))
				e.assert(ir.Implies(ir.And(append(ant, ir.Not(rel))...), ir.Not(sr)))
			}
		}
	}
	v.domain = nil
}

func relRole(rel string) mapping.Role {
	if rel == ir.RelEqual {
		return mapping.RoleTypeEquality
	}
	return mapping.RoleTypeDependency
}

func (e *Encoder) varRelation(u *binaryUse) *ir.Node {
	return atom(u.x.v, u.y.v, relRole(u.rel))
}

// stateRelation is the relation atom between two memory states; its
// definition is emitted by defineRelations.
func (e *Encoder) stateRelation(rel string, a, b *automaton.State) *ir.Node {
	if rel == ir.RelEqual {
		e.eqs.add(a, b)
	} else {
		e.deps.add(a, b)
	}
	return atom(a, b, relRole(rel))
}

func (e *Encoder) groundRelation(n *ir.Node, en env) (*ir.Node, error) {
	x, err := en.get(n.Args[0])
	if err != nil {
		return nil, err
	}
	y, err := en.get(n.Args[1])
	if err != nil {
		return nil, err
	}
	switch n.Name {
	case ir.RelEqual, ir.RelDepend:
		if !slices.ContainsFunc(e.binary, func(u *binaryUse) bool {
			return u.x == x && u.y == y && u.rel == n.Name
		}) {
			e.binary = append(e.binary, &binaryUse{x: x, y: y, rel: n.Name})
		}
		return atom(x.v, y.v, relRole(n.Name)), nil
	}
	return atom(mapping.Relation{Name: n.Name, Left: x.v}, y.v, mapping.RoleVarRelation), nil
}
