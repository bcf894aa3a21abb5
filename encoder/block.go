package encoder

import (
	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/solver"
	"github.com/signadot/wfsynth/taxonomy"
)

// TrueAtoms returns the atoms set in model, in variable order.
func (e *Encoder) TrueAtoms(model solver.Model) []mapping.Atom {
	var res []mapping.Atom
	for i, a := range e.m.Atoms() {
		v := e.m.Offset() + i + 1
		if v < len(model) && model[v] {
			res = append(res, a)
		}
	}
	return res
}

// defining reports whether a is part of the workflow a model describes.
func (e *Encoder) defining(a mapping.Atom) bool {
	if _, ok := a.Pos.(*automaton.State); !ok {
		return false
	}
	switch a.Role {
	case mapping.RoleModule:
		p, ok := a.Label.(*taxonomy.Predicate)
		return ok && p.IsLeaf()
	case mapping.RoleMemoryType, mapping.RoleUsedType:
		if !e.opts.ToolSeqRepeat {
			return false
		}
		p, ok := a.Label.(*taxonomy.Predicate)
		return ok && (p.IsLeaf() || p.IsEmpty())
	case mapping.RoleMemReference:
		return e.opts.ToolSeqRepeat
	}
	return false
}

// Blocking returns the clause excluding the workflow of model from further
// models.
func (e *Encoder) Blocking(model solver.Model) cnf.Clause {
	var res cnf.Clause
	for i, a := range e.m.Atoms() {
		v := e.m.Offset() + i + 1
		if v < len(model) && model[v] && e.defining(a) {
			res = append(res, -v)
		}
	}
	return res
}
