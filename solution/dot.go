package solution

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// dotID quotes s as a Graphviz id. Newlines become \n line breaks.
func dotID(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"`
}

func writeDot(w io.Writer, wf *Workflow, rs *renderState) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s {\n", dotID(rs.name))
	fmt.Fprintf(bw, "  rankdir=TB;\n")
	outputs := map[*TypeNode]bool{}
	for _, n := range wf.Outputs {
		outputs[n] = true
	}
	typeNode := func(n *TypeNode) {
		attrs := ""
		if outputs[n] {
			attrs = ", peripheries=2"
		}
		fmt.Fprintf(bw, "  %s [shape=box, label=%s%s];\n",
			dotID(n.Name()), dotID(n.Name()+"\n"+n.TypeString()), attrs)
	}
	for _, n := range wf.Inputs {
		typeNode(n)
	}
	for _, m := range wf.Modules {
		fmt.Fprintf(bw, "  %s [shape=ellipse, style=filled, label=%s];\n", dotID(m.Name()), dotID(m.ToolID()))
		for _, n := range m.Outputs {
			typeNode(n)
		}
	}
	for _, m := range wf.Modules {
		for i, n := range m.Inputs {
			fmt.Fprintf(bw, "  %s -> %s [label=\"%d\"];\n", dotID(n.Name()), dotID(m.Name()), i+1)
		}
		for _, n := range m.Outputs {
			fmt.Fprintf(bw, "  %s -> %s;\n", dotID(m.Name()), dotID(n.Name()))
		}
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}
