package ir

import (
	"github.com/signadot/wfsynth/mapping"
)

// Type is the node variant.
type Type int

const (
	TrueType Type = iota
	FalseType
	// AtomType is a grounded atom.
	AtomType
	NotType
	AndType
	OrType
	ImpliesType
	IffType

	NextType
	GloballyType
	FinallyType
	UntilType

	ExistsType
	ForallType

	// ToolType is the modal <'Tool'(inputs;outputs)> φ.
	ToolType
	// PredType is a type predicate over a variable, 'Type'(?x).
	PredType
	// RelType is a binary relation over variables, name(?x,?y).
	RelType

	// ModuleType holds when the named operation runs at the current point.
	ModuleType
	// UseType holds when the named type is consumed at the current point.
	UseType
	// GenType holds when the named type is produced at the current point.
	GenType
	// ConnectedType holds when operation Args[0] runs at the current point
	// and one of its outputs is consumed by a later run of Args[1].
	ConnectedType
)

// Binary relation names with state semantics.
const (
	RelEqual  = "="
	RelDepend = "R"
)

func Types() []Type {
	return []Type{
		TrueType, FalseType, AtomType, NotType, AndType, OrType, ImpliesType,
		IffType, NextType, GloballyType, FinallyType, UntilType, ExistsType,
		ForallType, ToolType, PredType, RelType, ModuleType, UseType,
		GenType, ConnectedType,
	}
}

func (t Type) String() string {
	return map[Type]string{
		TrueType:      "True",
		FalseType:     "False",
		AtomType:      "Atom",
		NotType:       "Not",
		AndType:       "And",
		OrType:        "Or",
		ImpliesType:   "Implies",
		IffType:       "Iff",
		NextType:      "Next",
		GloballyType:  "Globally",
		FinallyType:   "Finally",
		UntilType:     "Until",
		ExistsType:    "Exists",
		ForallType:    "Forall",
		ToolType:      "Tool",
		PredType:      "Pred",
		RelType:       "Rel",
		ModuleType:    "Module",
		UseType:       "Use",
		GenType:       "Gen",
		ConnectedType: "Connected",
	}[t]
}

// IsPropositional reports whether nodes of type t may appear in a grounded
// formula.
func (t Type) IsPropositional() bool {
	switch t {
	case TrueType, FalseType, AtomType, NotType, AndType, OrType, ImpliesType, IffType:
		return true
	}
	return false
}

// Node is a formula tree node. Trees are built bottom-up and not modified
// once built; subtrees may be shared.
type Node struct {
	Type   Type
	Values []*Node

	// Atom is set for AtomType.
	Atom mapping.Atom
	// Name is the taxonomy id of tool, predicate and template nodes, the
	// variable of quantifiers and the relation name of RelType.
	Name string
	// Args holds variables of PredType, RelType and ToolType inputs, and
	// the two operation ids of ConnectedType.
	Args []string
	// Outs holds ToolType output variables.
	Outs []string
}

var (
	trueNode  = &Node{Type: TrueType}
	falseNode = &Node{Type: FalseType}
)

func True() *Node  { return trueNode }
func False() *Node { return falseNode }

func FromBool(v bool) *Node {
	if v {
		return trueNode
	}
	return falseNode
}

func FromAtom(a mapping.Atom) *Node {
	return &Node{Type: AtomType, Atom: a}
}

func Not(n *Node) *Node {
	switch n.Type {
	case TrueType:
		return falseNode
	case FalseType:
		return trueNode
	case NotType:
		return n.Values[0]
	}
	return &Node{Type: NotType, Values: []*Node{n}}
}

// And conjoins ns, dropping true operands. No operands give true, a false
// operand gives false.
func And(ns ...*Node) *Node {
	var vs []*Node
	for _, n := range ns {
		switch n.Type {
		case TrueType:
			continue
		case FalseType:
			return falseNode
		}
		vs = append(vs, n)
	}
	switch len(vs) {
	case 0:
		return trueNode
	case 1:
		return vs[0]
	}
	return &Node{Type: AndType, Values: vs}
}

// Or disjoins ns, dropping false operands. No operands give false, a true
// operand gives true.
func Or(ns ...*Node) *Node {
	var vs []*Node
	for _, n := range ns {
		switch n.Type {
		case FalseType:
			continue
		case TrueType:
			return trueNode
		}
		vs = append(vs, n)
	}
	switch len(vs) {
	case 0:
		return falseNode
	case 1:
		return vs[0]
	}
	return &Node{Type: OrType, Values: vs}
}

func Implies(a, b *Node) *Node {
	switch {
	case a.Type == FalseType, b.Type == TrueType:
		return trueNode
	case a.Type == TrueType:
		return b
	case b.Type == FalseType:
		return Not(a)
	}
	return &Node{Type: ImpliesType, Values: []*Node{a, b}}
}

func Iff(a, b *Node) *Node {
	switch {
	case a.Type == TrueType:
		return b
	case b.Type == TrueType:
		return a
	case a.Type == FalseType:
		return Not(b)
	case b.Type == FalseType:
		return Not(a)
	}
	return &Node{Type: IffType, Values: []*Node{a, b}}
}

func Next(n *Node) *Node     { return &Node{Type: NextType, Values: []*Node{n}} }
func Globally(n *Node) *Node { return &Node{Type: GloballyType, Values: []*Node{n}} }
func Finally(n *Node) *Node  { return &Node{Type: FinallyType, Values: []*Node{n}} }

func Until(a, b *Node) *Node {
	return &Node{Type: UntilType, Values: []*Node{a, b}}
}

func Exists(v string, n *Node) *Node {
	return &Node{Type: ExistsType, Name: v, Values: []*Node{n}}
}

func Forall(v string, n *Node) *Node {
	return &Node{Type: ForallType, Name: v, Values: []*Node{n}}
}

// Tool is <'name'(ins;outs)> n.
func Tool(name string, ins, outs []string, n *Node) *Node {
	return &Node{Type: ToolType, Name: name, Args: ins, Outs: outs, Values: []*Node{n}}
}

func Pred(name, v string) *Node {
	return &Node{Type: PredType, Name: name, Args: []string{v}}
}

func Rel(name, x, y string) *Node {
	return &Node{Type: RelType, Name: name, Args: []string{x, y}}
}

func Module(id string) *Node { return &Node{Type: ModuleType, Name: id} }
func Use(id string) *Node    { return &Node{Type: UseType, Name: id} }
func Gen(id string) *Node    { return &Node{Type: GenType, Name: id} }

func Connected(from, to string) *Node {
	return &Node{Type: ConnectedType, Args: []string{from, to}}
}

// Walk calls fn on n and its descendants in pre-order until fn returns
// false.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Values {
		Walk(c, fn)
	}
}

// FreeVars returns the variables used but not bound in n, in order of first
// use.
func FreeVars(n *Node) []string {
	var res []string
	seen := map[string]bool{}
	var walk func(*Node, map[string]int)
	walk = func(n *Node, bound map[string]int) {
		use := func(vs []string) {
			for _, v := range vs {
				if bound[v] == 0 && !seen[v] {
					seen[v] = true
					res = append(res, v)
				}
			}
		}
		switch n.Type {
		case ExistsType, ForallType:
			bound[n.Name]++
			walk(n.Values[0], bound)
			bound[n.Name]--
			return
		case PredType, RelType:
			use(n.Args)
		case ToolType:
			use(n.Args)
			use(n.Outs)
		}
		for _, c := range n.Values {
			walk(c, bound)
		}
	}
	walk(n, map[string]int{})
	return res
}
