package encoder

import (
	"fmt"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/taxonomy"
)

// env binds source variable names to flattened variables.
type env map[string]*variable

func (en env) with(name string, v *variable) env {
	res := make(env, len(en)+1)
	for k, x := range en {
		res[k] = x
	}
	res[name] = v
	return res
}

func (en env) get(name string) (*variable, error) {
	v, ok := en[name]
	if !ok {
		return nil, fmt.Errorf("%w: ?%s", ErrUnboundVariable, name)
	}
	return v, nil
}

type groundKey struct {
	n *ir.Node
	t int
}

// ground returns the propositional formula equivalent to n at point t.
// Closed subformulas are grounded once per point.
func (e *Encoder) ground(n *ir.Node, t int, en env) (*ir.Node, error) {
	if len(en) > 0 {
		return e.groundNode(n, t, en)
	}
	k := groundKey{n, t}
	if g, ok := e.grounded[k]; ok {
		return g, nil
	}
	g, err := e.groundNode(n, t, en)
	if err != nil {
		return nil, err
	}
	e.grounded[k] = g
	return g, nil
}

func (e *Encoder) groundNode(n *ir.Node, t int, en env) (*ir.Node, error) {
	L := e.auto.Length()
	switch n.Type {
	case ir.TrueType, ir.FalseType, ir.AtomType:
		return n, nil
	case ir.NotType:
		x, err := e.ground(n.Values[0], t, en)
		if err != nil {
			return nil, err
		}
		return ir.Not(x), nil
	case ir.AndType, ir.OrType, ir.ImpliesType, ir.IffType:
		vs := make([]*ir.Node, len(n.Values))
		for i, c := range n.Values {
			x, err := e.ground(c, t, en)
			if err != nil {
				return nil, err
			}
			vs[i] = x
		}
		switch n.Type {
		case ir.AndType:
			return ir.And(vs...), nil
		case ir.OrType:
			return ir.Or(vs...), nil
		case ir.ImpliesType:
			return ir.Implies(vs[0], vs[1]), nil
		}
		return ir.Iff(vs[0], vs[1]), nil
	case ir.NextType:
		if t+1 >= L {
			return ir.False(), nil
		}
		return e.ground(n.Values[0], t+1, en)
	case ir.GloballyType, ir.FinallyType:
		var vs []*ir.Node
		for j := t; j < L; j++ {
			x, err := e.ground(n.Values[0], j, en)
			if err != nil {
				return nil, err
			}
			vs = append(vs, x)
		}
		if n.Type == ir.GloballyType {
			return ir.And(vs...), nil
		}
		return ir.Or(vs...), nil
	case ir.UntilType:
		var alts, before []*ir.Node
		for j := t; j < L; j++ {
			b, err := e.ground(n.Values[1], j, en)
			if err != nil {
				return nil, err
			}
			alts = append(alts, ir.And(append(before[:len(before):len(before)], b)...))
			a, err := e.ground(n.Values[0], j, en)
			if err != nil {
				return nil, err
			}
			before = append(before, a)
		}
		return ir.Or(alts...), nil
	case ir.ExistsType, ir.ForallType:
		return e.groundQuantifier(n, t, en)
	case ir.ToolType:
		return e.groundTool(n, t, en)
	case ir.PredType:
		v, err := en.get(n.Args[0])
		if err != nil {
			return nil, err
		}
		p, err := e.lookup(n.Name, taxonomy.DataType)
		if err != nil {
			return nil, err
		}
		v.useUnary(p)
		return atom(p, v.v, mapping.RoleMemoryType), nil
	case ir.RelType:
		return e.groundRelation(n, en)
	case ir.ModuleType:
		p, err := e.lookup(n.Name, taxonomy.Operation)
		if err != nil {
			return nil, err
		}
		return e.module(p, t), nil
	case ir.UseType, ir.GenType:
		p, err := e.lookup(n.Name, taxonomy.DataType)
		if err != nil {
			return nil, err
		}
		if t >= L {
			return ir.False(), nil
		}
		blk, r := e.auto.Types().UsedBlock(t), mapping.RoleUsedType
		if n.Type == ir.GenType {
			blk, r = e.auto.Types().MemoryBlock(t+1), mapping.RoleMemoryType
		}
		var vs []*ir.Node
		for _, s := range blk.States() {
			vs = append(vs, atom(p, s, r))
		}
		return ir.Or(vs...), nil
	case ir.ConnectedType:
		return e.groundConnected(n, t)
	}
	return nil, fmt.Errorf("cannot ground %s", n.Type)
}

func (e *Encoder) module(p *taxonomy.Predicate, t int) *ir.Node {
	s := e.auto.Modules().State(t)
	if s == nil {
		return ir.False()
	}
	return atom(p, s, mapping.RoleModule)
}

func (e *Encoder) refAtom(m, u *automaton.State) *ir.Node {
	return atom(m, u, mapping.RoleMemReference)
}

// groundConnected: Args[0] runs at t and Args[1] runs later reading one of
// its outputs.
func (e *Encoder) groundConnected(n *ir.Node, t int) (*ir.Node, error) {
	from, err := e.lookup(n.Args[0], taxonomy.Operation)
	if err != nil {
		return nil, err
	}
	to, err := e.lookup(n.Args[1], taxonomy.Operation)
	if err != nil {
		return nil, err
	}
	L := e.auto.Length()
	if t >= L {
		return ir.False(), nil
	}
	types := e.auto.Types()
	var alts []*ir.Node
	for j := t + 1; j < L; j++ {
		var reads []*ir.Node
		for _, m := range types.MemoryBlock(t + 1).States() {
			for _, u := range types.UsedBlock(j).States() {
				reads = append(reads, e.refAtom(m, u))
			}
		}
		alts = append(alts, ir.And(e.module(to, j), ir.Or(reads...)))
	}
	return ir.And(e.module(from, t), ir.Or(alts...)), nil
}

// groundTool grounds <'T'(ins;outs)> φ: T runs at t, input k reads a memory
// state bound to ins[k], output k is bound to outs[k] and φ holds at t+1.
func (e *Encoder) groundTool(n *ir.Node, t int, en env) (*ir.Node, error) {
	p, err := e.lookup(n.Name, taxonomy.Operation)
	if err != nil {
		return nil, err
	}
	if t >= e.auto.Length() {
		return ir.False(), nil
	}
	types := e.auto.Types()
	in, out := types.UsedBlock(t), types.MemoryBlock(t+1)
	if len(n.Args) > in.Len() || len(n.Outs) > out.Len() {
		return ir.False(), nil
	}
	conj := []*ir.Node{e.module(p, t)}
	for k, name := range n.Args {
		v, err := en.get(name)
		if err != nil {
			return nil, err
		}
		u := in.State(k)
		var alts []*ir.Node
		for _, m := range types.MemoryUntil(t) {
			v.extend(m)
			alts = append(alts, ir.And(e.refAtom(m, u), atom(m, v.v, mapping.RoleVarValue)))
		}
		conj = append(conj, ir.Or(alts...))
	}
	for k, name := range n.Outs {
		v, err := en.get(name)
		if err != nil {
			return nil, err
		}
		m := out.State(k)
		v.extend(m)
		conj = append(conj, atom(m, v.v, mapping.RoleVarValue))
	}
	sub, err := e.ground(n.Values[0], t+1, en)
	if err != nil {
		return nil, err
	}
	return ir.And(append(conj, sub)...), nil
}
