package mapping

import (
	"errors"
	"fmt"
)

var (
	ErrSignatureCollision = errors.New("atom signature collision")
	ErrAuxExhausted       = errors.New("auxiliary variables exhausted")
	ErrSealed             = errors.New("mapping is sealed")
)

// DefaultReserved is the default number of variables set aside for
// auxiliary (Tseitin) variables.
const DefaultReserved = 100000

// SAT maps atoms to positive DIMACS variables.
//
// Variables 1..Reserved are auxiliary; atoms are numbered from Reserved+1 in
// insertion order. Seal releases the unused part of the reserve.
type SAT struct {
	reserved int
	offset   int // variable before the first atom
	nextAux  int
	sealed   bool
	vars     map[Atom]int
	atoms    []Atom
	sigs     map[string]Atom
}

func NewSAT(reserved int) *SAT {
	return &SAT{
		reserved: max(reserved, 0),
		offset:   max(reserved, 0),
		nextAux:  1,
		vars:     map[Atom]int{},
		sigs:     map[string]Atom{},
	}
}

// Add returns the variable of a, allocating one on first use.
func (m *SAT) Add(a Atom) (int, error) {
	if v, ok := m.vars[a]; ok {
		return v, nil
	}
	if m.sealed {
		return 0, fmt.Errorf("%w: adding %s", ErrSealed, a)
	}
	sig := a.Signature()
	if other, ok := m.sigs[sig]; ok && other != a {
		return 0, fmt.Errorf("%w: %s", ErrSignatureCollision, sig)
	}
	m.atoms = append(m.atoms, a)
	v := m.offset + len(m.atoms)
	m.vars[a] = v
	m.sigs[sig] = a
	return v, nil
}

// Lookup returns the variable of a if it was added.
func (m *SAT) Lookup(a Atom) (int, bool) {
	v, ok := m.vars[a]
	return v, ok
}

// Atom returns the atom of variable v.
func (m *SAT) Atom(v int) (Atom, bool) {
	i := v - m.offset - 1
	if i < 0 || i >= len(m.atoms) {
		return Atom{}, false
	}
	return m.atoms[i], true
}

// NextAux returns a fresh auxiliary variable.
func (m *SAT) NextAux() (int, error) {
	if m.sealed {
		return 0, ErrSealed
	}
	if m.nextAux > m.reserved {
		return 0, fmt.Errorf("%w: %d reserved", ErrAuxExhausted, m.reserved)
	}
	v := m.nextAux
	m.nextAux++
	return v, nil
}

func (m *SAT) Reserved() int { return m.reserved }

// Offset is the variable before the first atom: Reserved until the mapping
// is sealed, AuxUsed after.
func (m *SAT) Offset() int { return m.offset }

// Seal renumbers the atoms to directly follow the auxiliary variables
// handed out, and returns by how much each atom variable moved down. No
// atoms or auxiliary variables can be added afterwards.
func (m *SAT) Seal() int {
	if m.sealed {
		return 0
	}
	m.sealed = true
	gap := m.offset - m.AuxUsed()
	m.offset = m.AuxUsed()
	for i, a := range m.atoms {
		m.vars[a] = m.offset + i + 1
	}
	return gap
}

// AuxUsed is the number of auxiliary variables handed out.
func (m *SAT) AuxUsed() int { return m.nextAux - 1 }

func (m *SAT) IsAux(v int) bool { return v >= 1 && v <= m.offset }

// Size is the number of mapped atoms.
func (m *SAT) Size() int { return len(m.atoms) }

// MaxVar is the largest variable number issued or reserved.
func (m *SAT) MaxVar() int { return m.offset + len(m.atoms) }

// Atoms returns the mapped atoms in variable order.
func (m *SAT) Atoms() []Atom { return m.atoms }

// Name describes variable v for comments and traces.
func (m *SAT) Name(v int) (string, bool) {
	if m.IsAux(v) {
		if v >= m.nextAux {
			return "", false
		}
		return fmt.Sprintf("aux%d", v), true
	}
	a, ok := m.Atom(v)
	if !ok {
		return "", false
	}
	return a.Signature(), true
}
