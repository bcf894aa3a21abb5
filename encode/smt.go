package encode

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/mapping"
)

// SMTSymbols names atoms of m by their sanitized signature and auxiliary
// variables aux<N>. Symbols are assigned in variable order on first request.
func SMTSymbols(m *mapping.SAT) func(int) string {
	smt := mapping.NewSMT()
	syms := map[int]string{}
	return func(v int) string {
		if s, ok := syms[v]; ok {
			return s
		}
		var s string
		if a, ok := m.Atom(v); ok {
			sym, err := smt.Add(a)
			if err != nil {
				sym = smt.Reserve(fmt.Sprintf("v%d", v))
			}
			s = sym
		} else {
			s = smt.Reserve(fmt.Sprintf("aux%d", v))
		}
		syms[v] = s
		return s
	}
}

func defaultSymbol(v int) string { return fmt.Sprintf("v%d", v) }

func writeSMT(c *cnf.CNF, w *bufio.Writer, es *EncState) error {
	sym := es.symbols
	if sym == nil {
		sym = defaultSymbol
	}
	kw := func(s string) string { return es.color(KeywordColor, s) }
	if es.comments {
		for _, h := range es.header {
			if _, err := fmt.Fprintln(w, es.color(CommentColor, "; "+h)); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(w, "(%s QF_UF)\n", kw("set-logic")); err != nil {
		return err
	}
	used := make([]bool, c.NumVars+1)
	for _, cl := range c.Clauses {
		for _, l := range cl {
			used[max(l, -l)] = true
		}
	}
	for v := 1; v <= c.NumVars; v++ {
		if !used[v] {
			continue
		}
		if _, err := fmt.Fprintf(w, "(%s %s Bool)\n", kw("declare-const"), sym(v)); err != nil {
			return err
		}
	}
	var b strings.Builder
	for _, cl := range c.Clauses {
		b.Reset()
		b.WriteString("(" + kw("assert") + " ")
		switch len(cl) {
		case 0:
			b.WriteString("false")
		case 1:
			b.WriteString(smtLit(cl[0], sym, es))
		default:
			b.WriteString("(or")
			for _, l := range cl {
				b.WriteByte(' ')
				b.WriteString(smtLit(l, sym, es))
			}
			b.WriteString(")")
		}
		b.WriteString(")\n")
		if _, err := w.WriteString(b.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "(%s)\n(%s)\n", kw("check-sat"), kw("get-model"))
	return err
}

func smtLit(l int, sym func(int) string, es *EncState) string {
	if l > 0 {
		return es.color(PositiveColor, sym(l))
	}
	return "(not " + es.color(NegativeColor, sym(-l)) + ")"
}
