package taxonomy

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateID  = errors.New("duplicate predicate id")
	ErrUnknown      = errors.New("unknown predicate")
	ErrInconsistent = errors.New("inconsistent taxonomy")
)

// EmptyID is the id of the predicate of empty type states.
const EmptyID = "empty"

// Table is an arena of predicates addressed by Handle.
//
// Parent and child links are handles, kept sorted, so taxonomies may be
// DAGs without shared ownership.
type Table struct {
	preds []*Predicate
	byID  map[string]Handle
	roots []Handle
	aux   map[string]Handle
	empty Handle
}

func New() *Table {
	return &Table{
		byID:  map[string]Handle{},
		aux:   map[string]Handle{},
		empty: NoHandle,
	}
}

func (t *Table) add(p *Predicate) Handle {
	p.handle = Handle(len(t.preds))
	t.preds = append(t.preds, p)
	t.byID[p.ID] = p.handle
	return p.handle
}

// AddRoot adds the root of a taxonomy dimension.
func (t *Table) AddRoot(id, label string, v Variant) (Handle, error) {
	if _, ok := t.byID[id]; ok {
		return NoHandle, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if label == "" {
		label = id
	}
	h := t.add(&Predicate{
		ID:      id,
		Label:   label,
		Kind:    RootKind,
		Variant: v,
		Plain:   NoHandle,
	})
	t.preds[h].Root = h
	t.roots = append(t.roots, h)
	return h, nil
}

// Add adds a leaf under the given parents, which must all belong to the same
// dimension. Parents that were leaves become abstract.
func (t *Table) Add(id, label string, parents ...Handle) (Handle, error) {
	if _, ok := t.byID[id]; ok {
		return NoHandle, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if len(parents) == 0 {
		return NoHandle, fmt.Errorf("%w: %q has no parent", ErrInconsistent, id)
	}
	first := t.Get(parents[0])
	if first == nil || first.IsAux() || first.IsEmpty() {
		return NoHandle, fmt.Errorf("%w: bad parent for %q", ErrInconsistent, id)
	}
	for _, ph := range parents[1:] {
		if p := t.Get(ph); p == nil || p.Root != first.Root {
			return NoHandle, fmt.Errorf("%w: parents of %q span dimensions", ErrInconsistent, id)
		}
	}
	if label == "" {
		label = id
	}
	h := t.add(&Predicate{
		ID:      id,
		Label:   label,
		Kind:    LeafKind,
		Variant: first.Variant,
		Root:    first.Root,
	})
	t.preds[h].Plain = h
	for _, ph := range parents {
		if err := t.Link(ph, h); err != nil {
			return h, err
		}
	}
	return h, nil
}

// Link adds a parent/child edge.
func (t *Table) Link(parent, child Handle) error {
	p, c := t.Get(parent), t.Get(child)
	if p == nil || c == nil {
		return fmt.Errorf("%w: link %d -> %d", ErrUnknown, parent, child)
	}
	if p.Root != c.Root || p.IsAux() || c.IsAux() {
		return fmt.Errorf("%w: %q and %q are not in the same dimension", ErrInconsistent, p.ID, c.ID)
	}
	if c.IsRoot() {
		return fmt.Errorf("%w: root %q cannot have a parent", ErrInconsistent, c.ID)
	}
	if parent == child || slices.Contains(t.Ancestors(parent), child) {
		return fmt.Errorf("%w: %q -> %q forms a cycle", ErrInconsistent, p.ID, c.ID)
	}
	p.children = insertHandle(p.children, child)
	c.parents = insertHandle(c.parents, parent)
	if p.Kind == LeafKind {
		p.Kind = AbstractKind
		p.Plain = NoHandle
	}
	return nil
}

// Empty returns the predicate of empty states, creating it on first use.
func (t *Table) Empty() Handle {
	if t.empty != NoHandle {
		return t.empty
	}
	t.empty = t.add(&Predicate{
		ID:       EmptyID,
		Label:    EmptyID,
		Kind:     EmptyKind,
		Variant:  DataType,
		Relevant: true,
		Root:     NoHandle,
	})
	t.preds[t.empty].Plain = t.empty
	return t.empty
}

// Get returns the predicate for h or nil.
func (t *Table) Get(h Handle) *Predicate {
	if h < 0 || int(h) >= len(t.preds) {
		return nil
	}
	return t.preds[h]
}

// Lookup finds a live predicate by id.
func (t *Table) Lookup(id string) (*Predicate, bool) {
	h, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.preds[h], true
}

// MustLookup is Lookup returning ErrUnknown.
func (t *Table) MustLookup(id string) (*Predicate, error) {
	p, ok := t.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	return p, nil
}

// Roots returns the dimension roots in insertion order.
func (t *Table) Roots() []Handle { return t.roots }

// Len is the number of live predicates.
func (t *Table) Len() int { return len(t.byID) }

// All returns all live predicates in handle order.
func (t *Table) All() []*Predicate {
	res := make([]*Predicate, 0, len(t.byID))
	for _, p := range t.preds {
		if !p.removed {
			res = append(res, p)
		}
	}
	return res
}

// Ancestors returns the transitive parents of h in handle order.
func (t *Table) Ancestors(h Handle) []Handle {
	seen := map[Handle]bool{}
	var walk func(Handle)
	walk = func(x Handle) {
		for _, ph := range t.preds[x].parents {
			if !seen[ph] {
				seen[ph] = true
				walk(ph)
			}
		}
	}
	if t.Get(h) != nil {
		walk(h)
	}
	return sortedKeys(seen)
}

// Subtree returns h and its transitive children in handle order.
func (t *Table) Subtree(h Handle) []Handle {
	seen := map[Handle]bool{}
	var walk func(Handle)
	walk = func(x Handle) {
		if seen[x] {
			return
		}
		seen[x] = true
		for _, ch := range t.preds[x].children {
			walk(ch)
		}
	}
	if t.Get(h) != nil {
		walk(h)
	}
	return sortedKeys(seen)
}

// Leaves returns the live leaves below root in handle order.
func (t *Table) Leaves(root Handle) []Handle {
	var res []Handle
	for _, h := range t.Subtree(root) {
		p := t.preds[h]
		if p.Kind == LeafKind && !p.removed {
			res = append(res, h)
		}
	}
	return res
}

// Dimension returns every live predicate whose dimension is root, including
// auxiliary predicates over that dimension, in handle order.
func (t *Table) Dimension(root Handle) []Handle {
	var res []Handle
	for _, p := range t.preds {
		if p.removed || p.Root != root {
			continue
		}
		res = append(res, p.handle)
	}
	return res
}

// Of returns every live predicate of the given base variant in handle order.
func (t *Table) Of(v Variant) []Handle {
	var res []Handle
	for _, p := range t.preds {
		if !p.removed && p.Base() == v {
			res = append(res, p.handle)
		}
	}
	return res
}

// PlainOf returns the plain counterpart of a type. Abstract types get a
// synthetic leaf child on first use.
func (t *Table) PlainOf(h Handle) (Handle, error) {
	p := t.Get(h)
	if p == nil {
		return NoHandle, fmt.Errorf("%w: handle %d", ErrUnknown, h)
	}
	if p.Plain != NoHandle {
		return p.Plain, nil
	}
	if p.Base() != DataType || p.IsAux() {
		return h, nil
	}
	ph, err := t.Add(p.ID+"_plain", p.Label+" (plain)", h)
	if err != nil {
		return NoHandle, err
	}
	t.preds[ph].Relevant = p.Relevant
	p.Plain = ph
	return ph, nil
}

func sortedKeys(m map[Handle]bool) []Handle {
	res := make([]Handle, 0, len(m))
	for h := range m {
		res = append(res, h)
	}
	slices.Sort(res)
	return res
}
