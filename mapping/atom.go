package mapping

import (
	"fmt"
)

// Role is what an atom asserts about its position.
type Role int

const (
	// RoleModule: the operation predicate holds at an operation state.
	RoleModule Role = iota
	// RoleMemoryType: the type predicate holds at a memory state.
	RoleMemoryType
	// RoleUsedType: the type predicate holds at a used state.
	RoleUsedType
	// RoleMemReference: the used state (position) reads the memory state
	// (label).
	RoleMemReference
	// RoleTypeDependency: the position's data derives from the label's.
	RoleTypeDependency
	// RoleTypeEquality: label and position carry the same types.
	RoleTypeEquality
	// RoleVarValue: the variable (position) is bound to the state (label).
	RoleVarValue
	// RoleVarRelation: a named binary relation without state semantics.
	RoleVarRelation
)

func (r Role) String() string {
	return map[Role]string{
		RoleModule:         "module",
		RoleMemoryType:     "memory-type",
		RoleUsedType:       "used-type",
		RoleMemReference:   "mem-reference",
		RoleTypeDependency: "dependency",
		RoleTypeEquality:   "equality",
		RoleVarValue:       "var-value",
		RoleVarRelation:    "relation",
	}[r]
}

// Label is the predicate part of an atom.
type Label interface {
	LabelID() string
}

// Position is the state part of an atom.
type Position interface {
	PositionID() string
	AbsoluteIndex() int
}

// Atom is a (predicate, position, role) triple.
//
// Atoms are comparable; labels and positions are pointers or small values.
type Atom struct {
	Label Label
	Pos   Position
	Role  Role
}

// Signature is the textual identity of an atom. Two distinct atoms with the
// same signature indicate duplicate ids in the domain.
func (a Atom) Signature() string {
	switch a.Role {
	case RoleMemReference:
		return fmt.Sprintf("ref(%s,%s)", a.Label.LabelID(), a.Pos.PositionID())
	case RoleTypeDependency:
		return fmt.Sprintf("dep(%s,%s)", a.Label.LabelID(), a.Pos.PositionID())
	case RoleTypeEquality:
		return fmt.Sprintf("eq(%s,%s)", a.Label.LabelID(), a.Pos.PositionID())
	case RoleVarValue:
		return fmt.Sprintf("is(%s,%s)", a.Pos.PositionID(), a.Label.LabelID())
	case RoleVarRelation:
		if r, ok := a.Label.(Relation); ok {
			return fmt.Sprintf("%s(%s,%s)", r.Name, r.Left.LabelID(), a.Pos.PositionID())
		}
		return fmt.Sprintf("rel(%s,%s)", a.Label.LabelID(), a.Pos.PositionID())
	default:
		return fmt.Sprintf("%s(%s)", a.Label.LabelID(), a.Pos.PositionID())
	}
}

func (a Atom) String() string { return a.Signature() }

// Variable is a quantified variable after flattening. Each quantifier
// occurrence at each point gets its own Variable.
type Variable struct {
	name string
	id   int
}

func NewVariable(name string, id int) *Variable {
	return &Variable{name: name, id: id}
}

// Name is the source name of the variable, without the '?'.
func (v *Variable) Name() string { return v.name }

func (v *Variable) PositionID() string { return fmt.Sprintf("?%s.%d", v.name, v.id) }

func (v *Variable) AbsoluteIndex() int { return -1 }

func (v *Variable) LabelID() string { return v.PositionID() }

func (v *Variable) String() string { return v.PositionID() }

// Relation labels a named binary relation between Left and an atom's
// position.
type Relation struct {
	Name string
	Left Label
}

func (r Relation) LabelID() string { return r.Name + ":" + r.Left.LabelID() }
