package encoder

import (
	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
)

type statePair struct {
	a, b *automaton.State
}

// pairSet is an insertion ordered set of state pairs.
type pairSet struct {
	list []statePair
	seen map[statePair]bool
}

func newPairSet() pairSet {
	return pairSet{seen: map[statePair]bool{}}
}

func (s *pairSet) add(a, b *automaton.State) {
	p := statePair{a, b}
	if s.seen[p] {
		return
	}
	s.seen[p] = true
	s.list = append(s.list, p)
}

func (e *Encoder) emptyAt(s *automaton.State) *ir.Node {
	return atom(e.empty, s, typeRole(s))
}

// defineRelations defines the dependency and equality atoms between memory
// states used by substitution clauses.
//
// b depends on x when b is a non-empty output of the operation at block(b)
// whose inputs read x or a state that depends on x. Dependencies defined
// here may require further ones over earlier blocks.
func (e *Encoder) defineRelations() {
	types := e.auto.Types()
	for i := 0; i < len(e.deps.list); i++ {
		x, b := e.deps.list[i].a, e.deps.list[i].b
		d := atom(x, b, mapping.RoleTypeDependency)
		sb := b.Block()
		if sb == 0 || x.Block() >= sb {
			e.assert(ir.Not(d))
			continue
		}
		var alts []*ir.Node
		for _, u := range types.UsedBlock(sb - 1).States() {
			for _, a := range types.MemoryUntil(sb - 1) {
				var via *ir.Node
				switch {
				case a == x:
					via = ir.True()
				case a.Block() > x.Block():
					e.deps.add(x, a)
					via = atom(x, a, mapping.RoleTypeDependency)
				default:
					continue
				}
				alts = append(alts, ir.And(e.refAtom(a, u), via))
			}
		}
		e.assert(ir.Iff(d, ir.And(ir.Not(e.emptyAt(b)), ir.Or(alts...))))
	}
	for _, p := range e.eqs.list {
		a, b := p.a, p.b
		conj := []*ir.Node{ir.Iff(e.emptyAt(a), e.emptyAt(b))}
		for _, t := range e.leafTypes {
			conj = append(conj, ir.Iff(atom(t, a, typeRole(a)), atom(t, b, typeRole(b))))
		}
		e.assert(ir.Iff(atom(a, b, mapping.RoleTypeEquality), ir.And(conj...)))
	}
}
