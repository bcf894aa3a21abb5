// Package libdiff computes line diffs of encodings and rendered solutions.
package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return " "
}

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)
	var res []Line
	for i := range diffs {
		d := &diffs[i]
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, l := range splitLines(d.Text) {
			res = append(res, Line{Op: op, Text: l})
		}
	}
	return res
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Changed reports whether ls holds an insertion or deletion.
func Changed(ls []Line) bool {
	for _, l := range ls {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Format renders the changed lines of ls with context lines of unchanged
// text around them. A negative context keeps every line.
func Format(ls []Line, context int, color func(Op, string) string) string {
	keep := make([]bool, len(ls))
	for i, l := range ls {
		if l.Op == Equal {
			continue
		}
		for j := max(0, i-context); j < len(ls) && j <= i+context; j++ {
			keep[j] = true
		}
	}
	b := &strings.Builder{}
	gap := false
	for i, l := range ls {
		if context >= 0 && !keep[i] {
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteString("...\n")
		}
		gap = false
		s := l.Op.String() + " " + l.Text
		if color != nil && l.Op != Equal {
			s = color(l.Op, s)
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String()
}

// Diff is Format(Lines(from, to), 2, nil), empty when the texts agree.
func Diff(from, to string) string {
	ls := Lines(from, to)
	if !Changed(ls) {
		return ""
	}
	return Format(ls, 2, nil)
}
