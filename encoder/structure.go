package encoder

import (
	"fmt"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/taxonomy"
)

func (e *Encoder) atMostOne(lits []int) {
	for i := range lits {
		for j := i + 1; j < len(lits); j++ {
			e.clause(-lits[i], -lits[j])
		}
	}
}

// hierarchy encodes the taxonomy structure of preds at s: an abstract
// predicate holds iff one of its children does, a predicate implies each
// of its parents, and auxiliary predicates are their connective over their
// members.
func (e *Encoder) hierarchy(preds []*taxonomy.Predicate, s *automaton.State, r mapping.Role) {
	for _, p := range preds {
		v := e.v(p, s, r)
		if p.Aux != nil {
			ms := make([]int, len(p.Aux.Members))
			for i, h := range p.Aux.Members {
				ms[i] = e.v(e.dom.Table.Get(h), s, r)
			}
			switch p.Aux.Connective {
			case taxonomy.Or:
				e.clause(append([]int{-v}, ms...)...)
				for _, m := range ms {
					e.clause(v, -m)
				}
			case taxonomy.And:
				all := []int{v}
				for _, m := range ms {
					e.clause(-v, m)
					all = append(all, -m)
				}
				e.clause(all...)
			}
			continue
		}
		if !p.IsLeaf() {
			lits := []int{-v}
			for _, h := range p.Children() {
				lits = append(lits, e.v(e.dom.Table.Get(h), s, r))
			}
			e.clause(lits...)
		}
		for _, h := range p.Parents() {
			e.clause(-v, e.v(e.dom.Table.Get(h), s, r))
		}
	}
}

// fits reports whether a tool's arity fits the automaton.
func (e *Encoder) fits(p *taxonomy.Predicate) bool {
	return p.Module != nil &&
		len(p.Module.Inputs) <= e.auto.Inputs() &&
		len(p.Module.Outputs) <= e.auto.Outputs()
}

// encodeTools makes every operation state run exactly one tool.
func (e *Encoder) encodeTools() {
	root := e.dom.Table.Get(e.dom.ToolRoot)
	for _, s := range e.auto.Modules().States() {
		e.clause(e.v(root, s, mapping.RoleModule))
		e.hierarchy(e.ops, s, mapping.RoleModule)
		var leaves []int
		for _, p := range e.ops {
			if !p.IsLeaf() {
				continue
			}
			v := e.v(p, s, mapping.RoleModule)
			if !e.fits(p) {
				e.clause(-v)
			}
			leaves = append(leaves, v)
		}
		e.atMostOne(leaves)
	}
}

func typeRole(s *automaton.State) mapping.Role {
	if s.Kind() == automaton.UsedState {
		return mapping.RoleUsedType
	}
	return mapping.RoleMemoryType
}

// encodeTypes makes every type state either empty or carry exactly one leaf
// type per dimension.
func (e *Encoder) encodeTypes() {
	for _, s := range e.auto.States() {
		if s.Kind() == automaton.OperationState {
			continue
		}
		r := typeRole(s)
		empty := e.v(e.empty, s, r)
		for _, root := range e.dom.TypeRoots {
			e.clause(e.v(e.dom.Table.Get(root), s, r), empty)
		}
		e.hierarchy(e.types, s, r)
		for _, root := range e.dom.TypeRoots {
			lits := []int{empty}
			for _, p := range e.leafTypes {
				if p.Root == root {
					lits = append(lits, e.v(p, s, r))
				}
			}
			e.atMostOne(lits)
		}
	}
}

// require adds clauses making pre imply data at s, and s non-empty. A nil
// data makes s empty.
func (e *Encoder) require(pre []int, s *automaton.State, data domain.Data, present bool) {
	r := typeRole(s)
	empty := e.v(e.empty, s, r)
	if !present {
		e.clause(append(neg(pre), empty)...)
		return
	}
	e.clause(append(neg(pre), -empty)...)
	for _, h := range data {
		if h == taxonomy.NoHandle {
			continue
		}
		e.clause(append(neg(pre), e.v(e.dom.Table.Get(h), s, r))...)
	}
}

func neg(lits []int) []int {
	res := make([]int, len(lits))
	for i, l := range lits {
		res[i] = -l
	}
	return res
}

// encodeToolIO types the inputs and outputs of each tool where it runs.
func (e *Encoder) encodeToolIO() {
	types := e.auto.Types()
	for t, s := range e.auto.Modules().States() {
		in, out := types.UsedBlock(t), types.MemoryBlock(t+1)
		for _, p := range e.ops {
			if !p.IsLeaf() || !e.fits(p) {
				continue
			}
			pre := []int{e.v(p, s, mapping.RoleModule)}
			for k, st := range in.States() {
				if k < len(p.Module.Inputs) {
					e.require(pre, st, p.Module.Inputs[k], true)
				} else {
					e.require(pre, st, nil, false)
				}
			}
			for k, st := range out.States() {
				if k < len(p.Module.Outputs) {
					e.require(pre, st, p.Module.Outputs[k], true)
				} else {
					e.require(pre, st, nil, false)
				}
			}
		}
	}
}

// encodeWorkflowIO fixes memory block 0 to the workflow inputs and the last
// used block to the workflow outputs.
func (e *Encoder) encodeWorkflowIO() {
	types := e.auto.Types()
	first, last := types.MemoryBlock(0), types.UsedBlock(e.auto.Length())
	if len(e.opts.Inputs) > first.Len() || len(e.opts.Outputs) > last.Len() {
		e.err = fmt.Errorf("%d inputs and %d outputs do not fit blocks of %d and %d",
			len(e.opts.Inputs), len(e.opts.Outputs), first.Len(), last.Len())
		return
	}
	for k, st := range first.States() {
		if k < len(e.opts.Inputs) {
			e.require(nil, st, e.opts.Inputs[k], true)
		} else {
			e.require(nil, st, nil, false)
		}
	}
	for k, st := range last.States() {
		if k < len(e.opts.Outputs) {
			e.require(nil, st, e.opts.Outputs[k], true)
		} else {
			e.require(nil, st, nil, false)
		}
	}
}

func (e *Encoder) ref(m, u *automaton.State) int {
	return e.v(m, u, mapping.RoleMemReference)
}

// encodeReferences makes every used state read exactly one memory state of
// an earlier or the same block, or the null state when it is empty. A read
// memory state is non-empty and has the types of the used state.
func (e *Encoder) encodeReferences() {
	types := e.auto.Types()
	for b, blk := range types.UsedBlocks() {
		cands := types.MemoryUntil(b)
		for _, u := range blk.States() {
			null := e.ref(types.Null(), u)
			lits := []int{null}
			for _, m := range cands {
				lits = append(lits, e.ref(m, u))
			}
			e.clause(lits...)
			e.atMostOne(lits)
			emptyU := e.v(e.empty, u, mapping.RoleUsedType)
			e.clause(-null, emptyU)
			e.clause(null, -emptyU)
			for _, m := range cands {
				r := e.ref(m, u)
				e.clause(-r, -e.v(e.empty, m, mapping.RoleMemoryType))
				for _, p := range e.leafTypes {
					x, y := e.v(p, m, mapping.RoleMemoryType), e.v(p, u, mapping.RoleUsedType)
					e.clause(-r, -x, y)
					e.clause(-r, x, -y)
				}
			}
		}
	}
}

// readers returns the reference variables of the used states in blocks
// from..to reading m.
func (e *Encoder) readers(m *automaton.State, from, to int) []int {
	var res []int
	for b := from; b <= to; b++ {
		for _, u := range e.auto.Types().UsedBlock(b).States() {
			res = append(res, e.ref(m, u))
		}
	}
	return res
}

// encodeUsage requires workflow inputs and generated data to be consumed.
func (e *Encoder) encodeUsage() {
	types := e.auto.Types()
	L := e.auto.Length()
	ins := types.MemoryBlock(0).States()
	ins = ins[:min(len(ins), len(e.opts.Inputs))]
	switch e.opts.UseInputs {
	case UseAll:
		for _, m := range ins {
			e.clause(e.readers(m, 0, L-1)...)
		}
	case UseOne:
		var all []int
		for _, m := range ins {
			all = append(all, e.readers(m, 0, L-1)...)
		}
		if len(all) > 0 {
			e.clause(all...)
		}
	}
	for b := 1; b <= L; b++ {
		blk := types.MemoryBlock(b)
		switch e.opts.UseGenerated {
		case UseAll:
			for _, m := range blk.States() {
				e.clause(append([]int{e.v(e.empty, m, mapping.RoleMemoryType)}, e.readers(m, b, L)...)...)
			}
		case UseOne:
			var all []int
			for _, m := range blk.States() {
				all = append(all, e.readers(m, b, L)...)
			}
			for _, m := range blk.States() {
				e.clause(append([]int{e.v(e.empty, m, mapping.RoleMemoryType)}, all...)...)
			}
		}
	}
}
