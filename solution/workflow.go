// Package solution decodes solver models into workflows and renders them.
package solution

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/signadot/wfsynth/automaton"
	"github.com/signadot/wfsynth/debug"
	"github.com/signadot/wfsynth/mapping"
	"github.com/signadot/wfsynth/taxonomy"
)

// Workflow is one decoded solution.
type Workflow struct {
	// Index numbers solutions found by a run from 1.
	Index   int
	Length  int
	Modules []*ModuleNode
	// Inputs are the workflow inputs carrying data, Outputs the data read
	// by each workflow output slot.
	Inputs  []*TypeNode
	Outputs []*TypeNode
}

// ModuleNode is an operation step.
type ModuleNode struct {
	State *automaton.State
	// Step counts from 1.
	Step         int
	Tool         *taxonomy.Predicate
	Descriptions []*taxonomy.Predicate
	// Inputs are ordered by input slot.
	Inputs  []*TypeNode
	Outputs []*TypeNode
	Prev    *ModuleNode
	Next    *ModuleNode

	inputs map[int]*TypeNode
}

// TypeNode is a data instance in memory.
type TypeNode struct {
	State *automaton.State
	// Types holds the leaf type of each constrained dimension.
	Types        []*taxonomy.Predicate
	Descriptions []*taxonomy.Predicate
	// Producer is nil for workflow inputs.
	Producer  *ModuleNode
	Consumers []*ModuleNode
	// OutputSlots are the workflow output slots reading the node.
	OutputSlots []int
}

// Name is the identifier of the node in rendered workflows.
func (n *TypeNode) Name() string {
	if n.State.Block() == 0 {
		return fmt.Sprintf("input%d", n.State.Local()+1)
	}
	return fmt.Sprintf("out%d_%d", n.State.Block(), n.State.Local()+1)
}

// TypeString joins the leaf type ids of n.
func (n *TypeNode) TypeString() string {
	ids := make([]string, len(n.Types))
	for i, p := range n.Types {
		ids[i] = p.ID
	}
	return strings.Join(ids, ", ")
}

func (m *ModuleNode) Name() string { return fmt.Sprintf("step%d", m.Step) }

// ToolID is the id of the tool, "?" when the model named none.
func (m *ModuleNode) ToolID() string {
	if m.Tool == nil {
		return "?"
	}
	return m.Tool.ID
}

type decoder struct {
	auto    *automaton.Automaton
	modules map[*automaton.State]*ModuleNode
	types   map[*automaton.State]*TypeNode
	outputs map[int]*TypeNode
}

// Decode builds the workflow described by the true atoms of a model of an
// encoding over a. It panics when an atom refers to a state outside a.
func Decode(a *automaton.Automaton, atoms []mapping.Atom) *Workflow {
	d := &decoder{
		auto:    a,
		modules: map[*automaton.State]*ModuleNode{},
		types:   map[*automaton.State]*TypeNode{},
		outputs: map[int]*TypeNode{},
	}
	wf := &Workflow{Length: a.Length()}
	for t, s := range a.Modules().States() {
		m := &ModuleNode{State: s, Step: t + 1, inputs: map[int]*TypeNode{}}
		if t > 0 {
			m.Prev = wf.Modules[t-1]
			m.Prev.Next = m
		}
		wf.Modules = append(wf.Modules, m)
		d.modules[s] = m
	}
	for _, s := range a.Types().MemoryStates() {
		n := &TypeNode{State: s}
		if b := s.Block(); b > 0 {
			n.Producer = wf.Modules[b-1]
		}
		d.types[s] = n
	}
	for _, at := range atoms {
		d.atom(at)
	}

	keep := func(n *TypeNode) bool { return n != nil && len(n.Types) > 0 }
	for _, blk := range a.Types().MemoryBlocks() {
		for _, s := range blk.States() {
			n := d.types[s]
			slices.SortFunc(n.Types, byRootID)
			slices.SortFunc(n.Descriptions, byID)
			if !keep(n) {
				continue
			}
			if n.Producer == nil {
				wf.Inputs = append(wf.Inputs, n)
			} else {
				n.Producer.Outputs = append(n.Producer.Outputs, n)
			}
		}
	}
	for _, m := range wf.Modules {
		slices.SortFunc(m.Descriptions, byID)
		for _, k := range slices.Sorted(maps.Keys(m.inputs)) {
			n := m.inputs[k]
			if !keep(n) {
				continue
			}
			m.Inputs = append(m.Inputs, n)
			if !slices.Contains(n.Consumers, m) {
				n.Consumers = append(n.Consumers, m)
			}
		}
		m.inputs = nil
	}
	for _, k := range slices.Sorted(maps.Keys(d.outputs)) {
		n := d.outputs[k]
		if keep(n) {
			wf.Outputs = append(wf.Outputs, n)
			n.OutputSlots = append(n.OutputSlots, k)
		}
	}
	return wf
}

func (d *decoder) state(p mapping.Position) *automaton.State {
	s, ok := p.(*automaton.State)
	if !ok {
		return nil
	}
	if !d.auto.Contains(s) {
		panic(fmt.Sprintf("solution: state %s is not in the automaton of length %d", s, d.auto.Length()))
	}
	return s
}

func (d *decoder) atom(a mapping.Atom) {
	s := d.state(a.Pos)
	if s == nil {
		if debug.Decode() {
			debug.Logf("decode: skip %s\n", a)
		}
		return
	}
	switch a.Role {
	case mapping.RoleModule:
		p := predicate(a)
		m := d.modules[s]
		if m == nil {
			panic(fmt.Sprintf("solution: module atom %s at non operation state", a))
		}
		switch {
		case p.IsLeaf():
			m.Tool = p
		case !p.IsRoot():
			m.Descriptions = append(m.Descriptions, p)
		}
	case mapping.RoleMemoryType:
		p := predicate(a)
		n := d.types[s]
		if n == nil {
			panic(fmt.Sprintf("solution: memory type atom %s at non memory state", a))
		}
		switch {
		case p.IsLeaf():
			n.Types = append(n.Types, p)
		case !p.IsRoot() && !p.IsEmpty():
			n.Descriptions = append(n.Descriptions, p)
		}
	case mapping.RoleMemReference:
		m := d.state(a.Label.(mapping.Position))
		if m == nil || m.IsNull() {
			return
		}
		n := d.types[m]
		if n == nil {
			panic(fmt.Sprintf("solution: reference %s to non memory state", a))
		}
		if b := s.Block(); b < d.auto.Length() {
			d.modules[d.auto.Modules().State(b)].inputs[s.Local()] = n
		} else {
			d.outputs[s.Local()] = n
		}
	}
	if debug.Decode() {
		debug.Logf("decode: %s\n", a)
	}
}

func predicate(a mapping.Atom) *taxonomy.Predicate {
	p, ok := a.Label.(*taxonomy.Predicate)
	if !ok {
		panic(fmt.Sprintf("solution: atom %s has no taxonomy predicate", a))
	}
	return p
}

func byID(a, b *taxonomy.Predicate) int { return cmp.Compare(a.ID, b.ID) }

func byRootID(a, b *taxonomy.Predicate) int {
	if c := cmp.Compare(a.Root, b.Root); c != 0 {
		return c
	}
	return byID(a, b)
}
