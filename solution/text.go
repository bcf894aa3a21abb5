package solution

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/wfsynth/encode"
)

func (rs *renderState) data(n *TypeNode) string {
	return n.Name() + " " + rs.color(encode.PositiveColor, n.TypeString())
}

func writeText(w io.Writer, wf *Workflow, rs *renderState) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s\n", rs.name, rs.color(encode.CommentColor, fmt.Sprintf("(length %d)", wf.Length)))
	names := func(ns []*TypeNode) string {
		parts := make([]string, len(ns))
		for i, n := range ns {
			parts[i] = n.Name()
		}
		return strings.Join(parts, ", ")
	}
	for _, n := range wf.Inputs {
		fmt.Fprintf(bw, "  input  %s\n", rs.data(n))
	}
	for _, m := range wf.Modules {
		fmt.Fprintf(bw, "  %s %s(%s)", m.Name(), rs.color(encode.KeywordColor, m.ToolID()), names(m.Inputs))
		for i, n := range m.Outputs {
			sep := ","
			if i == 0 {
				sep = " ->"
			}
			fmt.Fprintf(bw, "%s %s", sep, rs.data(n))
		}
		bw.WriteByte('\n')
	}
	for _, n := range wf.Outputs {
		fmt.Fprintf(bw, "  output %s\n", rs.data(n))
	}
	return bw.Flush()
}
