package automaton

import (
	"cmp"
	"fmt"
)

// Kind is the kind of a workflow state.
type Kind int

const (
	OperationState Kind = iota
	MemoryState
	UsedState
	NullState
)

func (k Kind) String() string {
	return map[Kind]string{
		OperationState: "operation",
		MemoryState:    "memory",
		UsedState:      "used",
		NullState:      "null",
	}[k]
}

// State is a slot in the bounded workflow automaton.
//
// States are created by New and never modified afterwards.
type State struct {
	kind    Kind
	name    string
	block   int
	local   int
	typeRel int
	abs     int
}

func (s *State) Kind() Kind { return s.kind }

// Name is the state's display name, e.g. M1, MemT0.1, UsedT2.0.
func (s *State) Name() string { return s.name }

// Block is the index of the block the state belongs to. Operation states use
// the 0-based step index.
func (s *State) Block() int { return s.block }

// Local is the slot index within the block.
func (s *State) Local() int { return s.local }

// TypeRelative is the index of the state among the states of its kind.
func (s *State) TypeRelative() int { return s.typeRel }

// Absolute is the index of the state among all states.
func (s *State) Absolute() int { return s.abs }

func (s *State) IsNull() bool { return s.kind == NullState }

// PositionID implements mapping.Position.
func (s *State) PositionID() string { return s.name }

// AbsoluteIndex implements mapping.Position.
func (s *State) AbsoluteIndex() int { return s.abs }

// LabelID implements mapping.Label, so a state may stand as the predicate of
// a reference or relation atom.
func (s *State) LabelID() string { return s.name }

func (s *State) String() string { return s.name }

// Compare orders states by absolute index, then by name.
func Compare(a, b *State) int {
	if c := cmp.Compare(a.abs, b.abs); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}

func newNull() *State {
	return &State{
		kind:    NullState,
		name:    "nullMem",
		block:   -1,
		local:   -1,
		typeRel: -1,
		abs:     -1,
	}
}

// newOperation makes the operation state at 1-based slot s.
func newOperation(s, numIn, numOut int) *State {
	return &State{
		kind:    OperationState,
		name:    fmt.Sprintf("M%d", s),
		block:   s - 1,
		local:   0,
		typeRel: s - 1,
		abs:     s*(numIn+numOut) + s - 1,
	}
}

func newMemory(b, s, numIn, numOut int) *State {
	return &State{
		kind:    MemoryState,
		name:    fmt.Sprintf("MemT%d.%d", b, s),
		block:   b,
		local:   s,
		typeRel: b*numOut + s + 1,
		abs:     b*(numIn+numOut) + b + s,
	}
}

func newUsed(b, s, numIn, numOut int) *State {
	return &State{
		kind:    UsedState,
		name:    fmt.Sprintf("UsedT%d.%d", b, s),
		block:   b,
		local:   s,
		typeRel: b*numIn + s,
		abs:     b*(numIn+numOut) + b + numOut + s,
	}
}
