package taxonomy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyAux = errors.New("auxiliary predicate over no members")
	ErrMixedAux = errors.New("auxiliary predicate mixes operations and types")
)

// AuxID is the canonical id of the auxiliary predicate combining ids, which
// must be sorted.
func AuxID(ids []string, c Connective) string {
	return "(" + strings.Join(ids, c.String()) + ")"
}

// GenerateAux returns the predicate combining members with c.
//
// A single member is returned as is. Otherwise the result is memoized by the
// sorted member set and connective, so repeated calls yield the same
// predicate. New auxiliary predicates are abstract and relevant.
func (t *Table) GenerateAux(members []Handle, c Connective) (Handle, error) {
	var ms []Handle
	for _, h := range members {
		if t.Get(h) == nil {
			return NoHandle, fmt.Errorf("%w: handle %d", ErrUnknown, h)
		}
		if !slices.Contains(ms, h) {
			ms = append(ms, h)
		}
	}
	switch len(ms) {
	case 0:
		return NoHandle, ErrEmptyAux
	case 1:
		return ms[0], nil
	}
	slices.SortFunc(ms, func(a, b Handle) int {
		return strings.Compare(t.preds[a].ID, t.preds[b].ID)
	})
	ids := make([]string, len(ms))
	for i, h := range ms {
		ids[i] = t.preds[h].ID
	}
	id := AuxID(ids, c)
	if h, ok := t.aux[id]; ok {
		return h, nil
	}
	if _, ok := t.byID[id]; ok {
		return NoHandle, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	base := t.preds[ms[0]].Base()
	root := t.preds[ms[0]].Root
	for _, h := range ms[1:] {
		p := t.preds[h]
		if p.Base() != base {
			return NoHandle, fmt.Errorf("%w: %s", ErrMixedAux, id)
		}
		if p.Root != root {
			root = NoHandle
		}
	}
	h := t.add(&Predicate{
		ID:       id,
		Label:    id,
		Kind:     AbstractKind,
		Variant:  Auxiliary,
		Relevant: true,
		Root:     root,
		Plain:    NoHandle,
		Aux: &Aux{
			Connective: c,
			Members:    ms,
			Base:       base,
		},
	})
	t.aux[id] = h
	return h, nil
}
