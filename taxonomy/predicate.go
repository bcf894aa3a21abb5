package taxonomy

import (
	"slices"
)

// Handle addresses a predicate in a Table.
type Handle int32

// NoHandle is the zero reference.
const NoHandle Handle = -1

// Kind is the position of a predicate in its taxonomy.
type Kind int

const (
	RootKind Kind = iota
	AbstractKind
	LeafKind
	EmptyKind
)

func (k Kind) String() string {
	return map[Kind]string{
		RootKind:     "root",
		AbstractKind: "abstract",
		LeafKind:     "leaf",
		EmptyKind:    "empty",
	}[k]
}

// Variant is the kind of entity a predicate describes.
type Variant int

const (
	Operation Variant = iota
	DataType
	Auxiliary
)

func (v Variant) String() string {
	return map[Variant]string{
		Operation: "operation",
		DataType:  "type",
		Auxiliary: "auxiliary",
	}[v]
}

// Connective combines the members of an auxiliary predicate.
type Connective int

const (
	Or Connective = iota
	And
)

func (c Connective) String() string {
	if c == And {
		return "&"
	}
	return "|"
}

// Aux describes an auxiliary predicate.
type Aux struct {
	Connective Connective
	// Members sorted by id.
	Members []Handle
	// Base is Operation or DataType, the variant of the members.
	Base Variant
}

// Module carries tool annotations of a leaf operation.
type Module struct {
	// Inputs and Outputs hold, per slot, one predicate per annotated
	// dimension.
	Inputs  [][]Handle
	Outputs [][]Handle
	// Code is the execution code template.
	Code string
}

// Predicate is a taxonomy term.
type Predicate struct {
	handle   Handle
	ID       string
	Label    string
	Kind     Kind
	Variant  Variant
	Relevant bool
	// Root is the handle of the dimension root, NoHandle for auxiliary
	// predicates spanning dimensions and for the empty predicate.
	Root Handle

	// Aux is set for auxiliary predicates.
	Aux *Aux
	// Module is set for annotated leaf operations.
	Module *Module
	// Plain is the plain counterpart of a type, the predicate itself for
	// leaves.
	Plain Handle

	parents  []Handle
	children []Handle
	removed  bool
}

func (p *Predicate) Handle() Handle { return p.handle }

// LabelID implements mapping.Label.
func (p *Predicate) LabelID() string { return p.ID }

func (p *Predicate) String() string { return p.ID }

func (p *Predicate) Parents() []Handle { return p.parents }

func (p *Predicate) Children() []Handle { return p.children }

func (p *Predicate) IsLeaf() bool { return p.Kind == LeafKind }

func (p *Predicate) IsRoot() bool { return p.Kind == RootKind }

func (p *Predicate) IsEmpty() bool { return p.Kind == EmptyKind }

func (p *Predicate) IsAux() bool { return p.Variant == Auxiliary }

// Base is the variant of what the predicate describes, looking through
// auxiliary predicates.
func (p *Predicate) Base() Variant {
	if p.Aux != nil {
		return p.Aux.Base
	}
	return p.Variant
}

// Removed reports whether the predicate was trimmed.
func (p *Predicate) Removed() bool { return p.removed }

func insertHandle(hs []Handle, h Handle) []Handle {
	i, found := slices.BinarySearch(hs, h)
	if found {
		return hs
	}
	return slices.Insert(hs, i, h)
}

func deleteHandle(hs []Handle, h Handle) []Handle {
	i, found := slices.BinarySearch(hs, h)
	if !found {
		return hs
	}
	return slices.Delete(hs, i, i+1)
}
