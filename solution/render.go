package solution

import (
	"fmt"
	"io"

	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/format"
)

type renderState struct {
	colors *encode.Colors
	name   string
}

type RenderOption func(*renderState)

// RenderColors colours text output.
func RenderColors(c *encode.Colors) RenderOption {
	return func(rs *renderState) { rs.colors = c }
}

// RenderName overrides the name of the workflow, "solution<index>" by
// default.
func RenderName(name string) RenderOption {
	return func(rs *renderState) { rs.name = name }
}

func (rs *renderState) color(a encode.ColorAttr, s string) string {
	if rs.colors == nil {
		return s
	}
	return rs.colors.Color(a, s)
}

// Render writes wf to w in format f.
func Render(w io.Writer, wf *Workflow, f format.Format, opts ...RenderOption) error {
	rs := &renderState{name: fmt.Sprintf("solution%d", wf.Index)}
	for _, opt := range opts {
		opt(rs)
	}
	switch f {
	case format.TextFormat:
		return writeText(w, wf, rs)
	case format.DotFormat:
		return writeDot(w, wf, rs)
	case format.CWLFormat:
		return writeCWL(w, wf, rs)
	case format.ShellFormat:
		return writeShell(w, wf, rs)
	case format.JSONFormat:
		return writeJSON(w, wf, rs)
	}
	return fmt.Errorf("%w: cannot render a workflow as %s", format.ErrBadFormat, f)
}
