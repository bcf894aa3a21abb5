package solution

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/signadot/wfsynth/eval"
)

func shellRef(n *TypeNode) string { return `"$` + n.Name() + `"` }

func writeShell(w io.Writer, wf *Workflow, rs *renderState) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#!/bin/sh\n# %s, length %d\nset -e\n\n", rs.name, wf.Length)
	fmt.Fprintf(bw, "if [ $# -ne %d ]; then\n  echo \"usage: $0", len(wf.Inputs))
	for _, n := range wf.Inputs {
		fmt.Fprintf(bw, " %s", n.Name())
	}
	fmt.Fprintf(bw, "\" >&2\n  exit 2\nfi\n")
	for i, n := range wf.Inputs {
		fmt.Fprintf(bw, "%s=\"$%d\" # %s\n", n.Name(), i+1, n.TypeString())
	}
	for _, m := range wf.Modules {
		fmt.Fprintf(bw, "\n# %s: %s\n", m.Name(), m.ToolID())
		in := make([]string, len(m.Inputs))
		for i, n := range m.Inputs {
			in[i] = shellRef(n)
		}
		out := make([]string, len(m.Outputs))
		for i, n := range m.Outputs {
			fmt.Fprintf(bw, "%s=%s # %s\n", n.Name(), strconv.Quote(n.Name()), n.TypeString())
			out[i] = shellRef(n)
		}
		code := ""
		if m.Tool != nil && m.Tool.Module != nil {
			code = m.Tool.Module.Code
		}
		if code == "" {
			fmt.Fprintf(bw, "echo %s >&2\nexit 1\n", strconv.Quote("no implementation for "+m.ToolID()))
			continue
		}
		line, err := eval.ExpandString(code, eval.Env{
			"inputs":  in,
			"outputs": out,
			"tool":    m.ToolID(),
			"step":    m.Step,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name(), err)
		}
		fmt.Fprintf(bw, "%s\n", line)
	}
	if len(wf.Outputs) > 0 {
		bw.WriteString("\necho")
		for _, n := range wf.Outputs {
			fmt.Fprintf(bw, " %s", shellRef(n))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
