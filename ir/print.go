package ir

import (
	"strings"
)

// String renders n in the textual formula syntax. Grounded atoms render as
// their signature and template nodes as pseudo calls.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

// QuoteID quotes a taxonomy id.
func QuoteID(id string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(id, `\`, `\\`), "'", `\'`) + "'"
}

func vars(vs []string) string {
	res := make([]string, len(vs))
	for i, v := range vs {
		res[i] = "?" + v
	}
	return strings.Join(res, ",")
}

func (n *Node) write(b *strings.Builder) {
	switch n.Type {
	case TrueType:
		b.WriteString("true")
	case FalseType:
		b.WriteString("false")
	case AtomType:
		b.WriteString(n.Atom.Signature())
	case NotType:
		b.WriteString("!")
		n.Values[0].write(b)
	case AndType, OrType, ImpliesType, IffType, UntilType:
		sep := map[Type]string{
			AndType:     " & ",
			OrType:      " | ",
			ImpliesType: " -> ",
			IffType:     " <-> ",
			UntilType:   " U ",
		}[n.Type]
		b.WriteString("(")
		for i, c := range n.Values {
			if i > 0 {
				b.WriteString(sep)
			}
			c.write(b)
		}
		b.WriteString(")")
	case NextType, GloballyType, FinallyType:
		b.WriteString(map[Type]string{NextType: "X ", GloballyType: "G ", FinallyType: "F "}[n.Type])
		n.Values[0].write(b)
	case ExistsType, ForallType:
		if n.Type == ExistsType {
			b.WriteString("Exists ?")
		} else {
			b.WriteString("Forall ?")
		}
		b.WriteString(n.Name)
		b.WriteString(" ")
		n.Values[0].write(b)
	case ToolType:
		b.WriteString("<")
		b.WriteString(QuoteID(n.Name))
		if len(n.Args) > 0 || len(n.Outs) > 0 {
			b.WriteString("(")
			b.WriteString(vars(n.Args))
			b.WriteString(";")
			b.WriteString(vars(n.Outs))
			b.WriteString(")")
		}
		b.WriteString("> ")
		n.Values[0].write(b)
	case PredType:
		b.WriteString(QuoteID(n.Name))
		b.WriteString("(" + vars(n.Args) + ")")
	case RelType:
		b.WriteString(n.Name)
		b.WriteString("(" + vars(n.Args) + ")")
	case ModuleType, UseType, GenType:
		b.WriteString(map[Type]string{ModuleType: "module", UseType: "use", GenType: "gen"}[n.Type])
		b.WriteString("(" + QuoteID(n.Name) + ")")
	case ConnectedType:
		b.WriteString("connected(" + QuoteID(n.Args[0]) + "," + QuoteID(n.Args[1]) + ")")
	}
}
