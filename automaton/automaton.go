package automaton

import (
	"slices"
)

// Block is an ordered group of type states sharing a block index.
type Block struct {
	index  int
	states []*State
}

func (b *Block) Index() int { return b.index }

func (b *Block) States() []*State { return b.states }

func (b *Block) Len() int { return len(b.states) }

// State returns the state at slot i, or nil if out of range.
func (b *Block) State(i int) *State {
	if i < 0 || i >= len(b.states) {
		return nil
	}
	return b.states[i]
}

// ModuleAutomaton is the sequence of operation states of a workflow.
type ModuleAutomaton struct {
	states []*State
}

func (m *ModuleAutomaton) States() []*State { return m.states }

func (m *ModuleAutomaton) Len() int { return len(m.states) }

// State returns the operation state at 0-based step t, or nil.
func (m *ModuleAutomaton) State(t int) *State {
	if t < 0 || t >= len(m.states) {
		return nil
	}
	return m.states[t]
}

// TypeAutomaton holds the memory blocks (data produced) and used blocks (data
// consumed) of a workflow, plus the single null state.
type TypeAutomaton struct {
	memory []*Block
	used   []*Block
	null   *State
}

func (t *TypeAutomaton) MemoryBlocks() []*Block { return t.memory }

func (t *TypeAutomaton) UsedBlocks() []*Block { return t.used }

func (t *TypeAutomaton) Null() *State { return t.null }

// MemoryBlock returns memory block b or nil.
func (t *TypeAutomaton) MemoryBlock(b int) *Block {
	if b < 0 || b >= len(t.memory) {
		return nil
	}
	return t.memory[b]
}

// UsedBlock returns used block b or nil.
func (t *TypeAutomaton) UsedBlock(b int) *Block {
	if b < 0 || b >= len(t.used) {
		return nil
	}
	return t.used[b]
}

// MemoryByRelative looks up a memory state by its type relative index.
// Index 0 and out of range indices resolve to the null state.
func (t *TypeAutomaton) MemoryByRelative(rel int) *State {
	if rel <= 0 {
		return t.null
	}
	for _, b := range t.memory {
		for _, s := range b.states {
			if s.typeRel == rel {
				return s
			}
		}
	}
	return t.null
}

// UsedByRelative looks up a used state by its type relative index.
// Out of range indices resolve to the null state.
func (t *TypeAutomaton) UsedByRelative(rel int) *State {
	if rel < 0 {
		return t.null
	}
	for _, b := range t.used {
		for _, s := range b.states {
			if s.typeRel == rel {
				return s
			}
		}
	}
	return t.null
}

// MemoryUntil returns all memory states of blocks 0..b inclusive in absolute
// index order.
func (t *TypeAutomaton) MemoryUntil(b int) []*State {
	var res []*State
	for i := 0; i <= b && i < len(t.memory); i++ {
		res = append(res, t.memory[i].states...)
	}
	slices.SortFunc(res, Compare)
	return res
}

// MemoryStates returns every memory state in absolute index order.
func (t *TypeAutomaton) MemoryStates() []*State {
	return t.MemoryUntil(len(t.memory) - 1)
}

// UsedStates returns every used state in absolute index order.
func (t *TypeAutomaton) UsedStates() []*State {
	var res []*State
	for _, b := range t.used {
		res = append(res, b.states...)
	}
	slices.SortFunc(res, Compare)
	return res
}

// Automaton is the workflow skeleton for a single length.
type Automaton struct {
	length  int
	inputs  int
	outputs int
	modules *ModuleAutomaton
	types   *TypeAutomaton
	all     map[*State]bool
}

// New builds the automaton for a workflow of the given length where each
// operation consumes at most inputs and produces at most outputs data
// instances. Lengths below 1 are clamped to 1, as are capacities.
func New(length, inputs, outputs int) *Automaton {
	length = max(length, 1)
	inputs = max(inputs, 1)
	outputs = max(outputs, 1)
	a := &Automaton{
		length:  length,
		inputs:  inputs,
		outputs: outputs,
		modules: &ModuleAutomaton{},
		types:   &TypeAutomaton{null: newNull()},
		all:     map[*State]bool{},
	}
	for s := 1; s <= length; s++ {
		a.modules.states = append(a.modules.states, newOperation(s, inputs, outputs))
	}
	for b := 0; b <= length; b++ {
		mem := &Block{index: b}
		for s := 0; s < outputs; s++ {
			mem.states = append(mem.states, newMemory(b, s, inputs, outputs))
		}
		a.types.memory = append(a.types.memory, mem)
		used := &Block{index: b}
		for s := 0; s < inputs; s++ {
			used.states = append(used.states, newUsed(b, s, inputs, outputs))
		}
		a.types.used = append(a.types.used, used)
	}
	for _, s := range a.States() {
		a.all[s] = true
	}
	a.all[a.types.null] = true
	return a
}

func (a *Automaton) Length() int { return a.length }

// Inputs is the capacity of a used block.
func (a *Automaton) Inputs() int { return a.inputs }

// Outputs is the capacity of a memory block.
func (a *Automaton) Outputs() int { return a.outputs }

func (a *Automaton) Modules() *ModuleAutomaton { return a.modules }

func (a *Automaton) Types() *TypeAutomaton { return a.types }

// Contains reports whether s is a state of this automaton.
func (a *Automaton) Contains(s *State) bool { return a.all[s] }

// States returns all non-null states in absolute index order.
func (a *Automaton) States() []*State {
	res := slices.Clone(a.modules.states)
	for b := range a.types.memory {
		res = append(res, a.types.memory[b].states...)
		res = append(res, a.types.used[b].states...)
	}
	slices.SortFunc(res, Compare)
	return res
}
