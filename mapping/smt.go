package mapping

import (
	"fmt"
	"strings"
)

// SMT maps atoms to SMT-LIB simple symbols.
type SMT struct {
	syms  map[Atom]string
	taken map[string]bool
	sigs  map[string]Atom
}

func NewSMT() *SMT {
	return &SMT{
		syms:  map[Atom]string{},
		taken: map[string]bool{},
		sigs:  map[string]Atom{},
	}
}

// Add returns the symbol of a, allocating one on first use. Symbols derive
// from the atom's signature; a sanitized symbol already used by another
// atom gets a numeric suffix.
func (m *SMT) Add(a Atom) (string, error) {
	if s, ok := m.syms[a]; ok {
		return s, nil
	}
	sig := a.Signature()
	if other, ok := m.sigs[sig]; ok && other != a {
		return "", fmt.Errorf("%w: %s", ErrSignatureCollision, sig)
	}
	sym := m.Reserve(Sanitize(sig))
	m.syms[a] = sym
	m.sigs[sig] = a
	return sym, nil
}

// Symbol returns the symbol of a if it was added.
func (m *SMT) Symbol(a Atom) (string, bool) {
	s, ok := m.syms[a]
	return s, ok
}

// Reserve claims sym, or the first free sym_N, and returns the claimed
// symbol.
func (m *SMT) Reserve(sym string) string {
	res := sym
	for i := 2; m.taken[res]; i++ {
		res = fmt.Sprintf("%s_%d", sym, i)
	}
	m.taken[res] = true
	return res
}

func symbolChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("~!@$%^&*_-+=<>.?/", r)
}

// Sanitize maps s into the SMT-LIB simple symbol alphabet. Separators become
// '_', closing brackets are dropped, and a leading digit is prefixed.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case symbolChar(r):
			b.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
		default:
			b.WriteByte('_')
		}
	}
	res := strings.TrimRight(b.String(), "_")
	if res == "" {
		return "_"
	}
	if res[0] >= '0' && res[0] <= '9' {
		res = "_" + res
	}
	return res
}
