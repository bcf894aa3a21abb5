package cnf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrDIMACS = errors.New("bad dimacs")

// ReadDIMACS parses a DIMACS CNF document. Comment lines are skipped and the
// header is optional.
func ReadDIMACS(r io.Reader) (*CNF, error) {
	res := &CNF{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var cur []int
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == 'c' || line[0] == '%' {
			continue
		}
		if line[0] == 'p' {
			fs := strings.Fields(line)
			if len(fs) != 4 || fs[1] != "cnf" {
				return nil, fmt.Errorf("%w: line %d: bad header %q", ErrDIMACS, ln, line)
			}
			n, err := strconv.Atoi(fs[2])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrDIMACS, ln, err)
			}
			res.NumVars = max(res.NumVars, n)
			continue
		}
		for _, f := range strings.Fields(line) {
			l, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrDIMACS, ln, err)
			}
			if l == 0 {
				res.Add(cur...)
				cur = cur[:0]
				continue
			}
			cur = append(cur, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(cur) > 0 {
		res.Add(cur...)
	}
	return res, nil
}
