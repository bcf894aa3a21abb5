package solver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/encode"
)

// External runs a solver binary reading a DIMACS file and writing the
// competition output format ("s SATISFIABLE", "v" lines).
type External struct {
	path string
	args []string
	c    *cnf.CNF
	log  *slog.Logger
}

func NewExternal(c *cnf.CNF, path string, args []string, log *slog.Logger) *External {
	own := &cnf.CNF{}
	own.Append(c)
	return &External{path: path, args: args, c: own, log: log}
}

func (s *External) Name() string { return s.path }

func (s *External) Add(cl cnf.Clause) { s.c.Add(cl...) }

func (s *External) Solve(ctx context.Context) (Model, error) {
	f, err := os.CreateTemp("", "wfsynth-*.cnf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	if err := encode.Encode(s.c, f, encode.EncodeComments(false)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, s.path, append(append([]string{}, s.args...), f.Name())...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, ctxErr(ctx)
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		// exit codes 10 and 20 report sat and unsat
		if c := ee.ExitCode(); c != 10 && c != 20 {
			return nil, fmt.Errorf("%w: %s: %w", ErrSolver, s.path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSolver, s.path, err)
	}
	s.log.Debug("external solver done", "solver", s.path, "bytes", len(out))
	return ParseOutput(strings.NewReader(string(out)), s.c.NumVars)
}

// ParseOutput reads solver output in the competition format. It returns
// nil for unsatisfiable instances.
func ParseOutput(r io.Reader, nvars int) (Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	var m Model
	status := ""
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "s "):
			status = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "v "):
			if m == nil {
				m = make(Model, nvars+1)
			}
			for _, f := range strings.Fields(line[2:]) {
				l, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("%w: bad value %q", ErrSolver, f)
				}
				if l > 0 && l <= nvars {
					m[l] = true
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	switch status {
	case "SATISFIABLE":
		if m == nil {
			m = make(Model, nvars+1)
		}
		return m, nil
	case "UNSATISFIABLE":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: no result status (%q)", ErrSolver, status)
}
