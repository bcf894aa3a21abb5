// Package cnf holds clause sets in DIMACS numbering and flattens grounded
// ir formulas into clauses.
package cnf

import (
	"slices"
)

// Clause is a disjunction of DIMACS literals.
type Clause []int

// CNF is a conjunction of clauses.
type CNF struct {
	Clauses []Clause
	// NumVars is at least the largest variable mentioned.
	NumVars int
}

// Add appends the clause lits; lits is copied.
func (c *CNF) Add(lits ...int) {
	for _, l := range lits {
		c.NumVars = max(c.NumVars, abs(l))
	}
	c.Clauses = append(c.Clauses, slices.Clone(Clause(lits)))
}

// Append adds all clauses of o.
func (c *CNF) Append(o *CNF) {
	for _, cl := range o.Clauses {
		c.Add(cl...)
	}
	c.NumVars = max(c.NumVars, o.NumVars)
}

// Shift moves every variable above from down by n.
func (c *CNF) Shift(from, n int) {
	if n == 0 {
		return
	}
	for _, cl := range c.Clauses {
		for i, l := range cl {
			switch {
			case l > from:
				cl[i] = l - n
			case -l > from:
				cl[i] = l + n
			}
		}
	}
	if c.NumVars > from {
		c.NumVars -= n
	}
}

func (c *CNF) Len() int { return len(c.Clauses) }

// Eval reports whether every clause holds under model, where model[v] is
// the value of variable v.
func (c *CNF) Eval(model []bool) bool {
	for _, cl := range c.Clauses {
		sat := false
		for _, l := range cl {
			v := abs(l)
			val := v < len(model) && model[v]
			if val == (l > 0) {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func abs(l int) int {
	if l < 0 {
		return -l
	}
	return l
}
