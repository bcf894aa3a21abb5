package encode

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/signadot/wfsynth/cnf"
)

func writeDIMACS(c *cnf.CNF, w *bufio.Writer, es *EncState) error {
	if es.comments {
		for _, h := range es.header {
			if _, err := fmt.Fprintln(w, es.color(CommentColor, "c "+h)); err != nil {
				return err
			}
		}
		if es.names != nil {
			for v := 1; v <= c.NumVars; v++ {
				name, ok := es.names(v)
				if !ok {
					continue
				}
				line := fmt.Sprintf("c %d %s", v, name)
				if _, err := fmt.Fprintln(w, es.color(CommentColor, line)); err != nil {
					return err
				}
			}
		}
	}
	p := fmt.Sprintf("p cnf %d %d", c.NumVars, len(c.Clauses))
	if _, err := fmt.Fprintln(w, es.color(ProblemColor, p)); err != nil {
		return err
	}
	var buf []byte
	for _, cl := range c.Clauses {
		buf = buf[:0]
		for _, l := range cl {
			s := strconv.Itoa(l)
			if es.Color != nil {
				if l > 0 {
					s = es.Color(PositiveColor, s)
				} else {
					s = es.Color(NegativeColor, s)
				}
			}
			buf = append(buf, s...)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
