package cnf

import (
	"errors"
	"fmt"

	"github.com/signadot/wfsynth/debug"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/mapping"
)

var ErrNotGrounded = errors.New("formula is not grounded")

// Mapping allocates variables for atoms and auxiliary variables. It is
// implemented by *mapping.SAT.
type Mapping interface {
	Add(mapping.Atom) (int, error)
	NextAux() (int, error)
}

// Builder adds grounded formulas to a CNF, introducing auxiliary variables
// for nested connectives.
type Builder struct {
	cnf     *CNF
	m       Mapping
	memo    map[*ir.Node]int
	trueLit int
}

func NewBuilder(c *CNF, m Mapping) *Builder {
	return &Builder{cnf: c, m: m, memo: map[*ir.Node]int{}}
}

func (b *Builder) CNF() *CNF { return b.cnf }

// Assert adds clauses requiring n to hold.
func (b *Builder) Assert(n *ir.Node) error {
	switch n.Type {
	case ir.TrueType:
		return nil
	case ir.FalseType:
		t, err := b.constTrue()
		if err != nil {
			return err
		}
		b.add(-t)
		return nil
	case ir.AndType:
		for _, c := range n.Values {
			if err := b.Assert(c); err != nil {
				return err
			}
		}
		return nil
	case ir.IffType:
		x, y := n.Values[0], n.Values[1]
		if err := b.Assert(ir.Implies(x, y)); err != nil {
			return err
		}
		return b.Assert(ir.Implies(y, x))
	}
	lits, err := b.clause(nil, n)
	if err != nil {
		return err
	}
	b.add(lits...)
	return nil
}

// Lit returns a literal equivalent to n.
func (b *Builder) Lit(n *ir.Node) (int, error) {
	switch n.Type {
	case ir.AtomType:
		return b.m.Add(n.Atom)
	case ir.NotType:
		l, err := b.Lit(n.Values[0])
		return -l, err
	case ir.TrueType:
		return b.constTrue()
	case ir.FalseType:
		t, err := b.constTrue()
		return -t, err
	case ir.AndType, ir.OrType, ir.ImpliesType, ir.IffType:
	default:
		return 0, fmt.Errorf("%w: %s node", ErrNotGrounded, n.Type)
	}
	if a, ok := b.memo[n]; ok {
		return a, nil
	}
	lits := make([]int, len(n.Values))
	for i, c := range n.Values {
		l, err := b.Lit(c)
		if err != nil {
			return 0, err
		}
		lits[i] = l
	}
	a, err := b.m.NextAux()
	if err != nil {
		return 0, err
	}
	b.memo[n] = a
	switch n.Type {
	case ir.AndType:
		all := []int{a}
		for _, l := range lits {
			b.add(-a, l)
			all = append(all, -l)
		}
		b.add(all...)
	case ir.OrType:
		b.add(append([]int{-a}, lits...)...)
		for _, l := range lits {
			b.add(a, -l)
		}
	case ir.ImpliesType:
		x, y := lits[0], lits[1]
		b.add(-a, -x, y)
		b.add(a, x)
		b.add(a, -y)
	case ir.IffType:
		x, y := lits[0], lits[1]
		b.add(-a, -x, y)
		b.add(-a, x, -y)
		b.add(a, x, y)
		b.add(a, -x, -y)
	}
	return a, nil
}

// clause appends to dst literals whose disjunction is equivalent to n.
func (b *Builder) clause(dst []int, n *ir.Node) ([]int, error) {
	switch n.Type {
	case ir.OrType:
		var err error
		for _, c := range n.Values {
			if dst, err = b.clause(dst, c); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case ir.ImpliesType:
		dst, err := b.clause(dst, ir.Not(n.Values[0]))
		if err != nil {
			return nil, err
		}
		return b.clause(dst, n.Values[1])
	case ir.NotType:
		if c := n.Values[0]; c.Type == ir.AndType {
			for _, x := range c.Values {
				l, err := b.Lit(x)
				if err != nil {
					return nil, err
				}
				dst = append(dst, -l)
			}
			return dst, nil
		}
	}
	l, err := b.Lit(n)
	if err != nil {
		return nil, err
	}
	return append(dst, l), nil
}

func (b *Builder) constTrue() (int, error) {
	if b.trueLit != 0 {
		return b.trueLit, nil
	}
	t, err := b.m.NextAux()
	if err != nil {
		return 0, err
	}
	b.trueLit = t
	b.add(t)
	return t, nil
}

func (b *Builder) add(lits ...int) {
	if debug.Encode() {
		debug.Logf("clause %v\n", lits)
	}
	b.cnf.Add(lits...)
}
