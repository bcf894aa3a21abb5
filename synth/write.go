package synth

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signadot/wfsynth/format"
	"github.com/signadot/wfsynth/solution"
)

// WriteOptions limits the files written per workflow.
type WriteOptions struct {
	// Scripts is the number of workflows written as shell scripts and
	// CWL documents, Graphs the number written as dot graphs.
	Scripts int
	Graphs  int
}

// Write writes the workflows of res to dir: a text summary of all of them
// in solutions.txt, a JSON array of them in solutions.json, and per
// workflow the files allowed by opts. It returns the paths written.
func Write(dir string, res *Result, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	write := func(name string, mode os.FileMode, render func(*bytes.Buffer) error) error {
		buf := &bytes.Buffer{}
		if err := render(buf); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, buf.Bytes(), mode); err != nil {
			return err
		}
		paths = append(paths, p)
		return nil
	}
	all := func(f format.Format) func(*bytes.Buffer) error {
		return func(buf *bytes.Buffer) error {
			for _, wf := range res.Workflows {
				if err := solution.Render(buf, wf, f); err != nil {
					return err
				}
			}
			return nil
		}
	}
	if err := write("solutions.txt", 0o644, all(format.TextFormat)); err != nil {
		return paths, err
	}
	err := write("solutions.json", 0o644, func(buf *bytes.Buffer) error {
		return solution.RenderJSONList(buf, res.Workflows)
	})
	if err != nil {
		return paths, err
	}
	for i, wf := range res.Workflows {
		var fs []format.Format
		if i < opts.Graphs {
			fs = append(fs, format.DotFormat)
		}
		if i < opts.Scripts {
			fs = append(fs, format.ShellFormat, format.CWLFormat)
		}
		for _, f := range fs {
			mode := os.FileMode(0o644)
			if f == format.ShellFormat {
				mode = 0o755
			}
			name := fmt.Sprintf("solution%d%s", wf.Index, f.Suffix())
			err := write(name, mode, func(buf *bytes.Buffer) error {
				return solution.Render(buf, wf, f)
			})
			if err != nil {
				return paths, err
			}
		}
	}
	return paths, nil
}
