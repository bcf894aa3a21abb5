package taxonomy

import (
	"slices"
)

// MarkRelevant marks h and its ancestors relevant. Auxiliary predicates also
// mark their members.
func (t *Table) MarkRelevant(h Handle) {
	p := t.Get(h)
	if p == nil {
		return
	}
	p.Relevant = true
	for _, a := range t.Ancestors(h) {
		t.preds[a].Relevant = true
	}
	if p.Aux != nil {
		for _, m := range p.Aux.Members {
			if !t.preds[m].Relevant {
				t.MarkRelevant(m)
			}
		}
	}
}

// MarkSubtreeRelevant marks h, its descendants and their ancestors relevant.
// Members of auxiliary predicates are marked the same way.
func (t *Table) MarkSubtreeRelevant(h Handle) {
	p := t.Get(h)
	if p == nil {
		return
	}
	if p.Aux != nil {
		p.Relevant = true
		for _, m := range p.Aux.Members {
			t.MarkSubtreeRelevant(m)
		}
		return
	}
	for _, d := range t.Subtree(h) {
		t.MarkRelevant(d)
	}
}

// Trim removes predicates that are not relevant. Each root's subtree is
// walked depth first and children are pruned before their parent, so a
// removed predicate never leaves dangling children behind. Roots are never
// removed. Abstract predicates left without children become leaves. Trim
// returns the number of removed predicates.
func (t *Table) Trim() int {
	n := 0
	for _, r := range t.roots {
		n += t.trim(r)
	}
	for _, p := range t.preds {
		if !p.removed && p.Kind == AbstractKind && !p.IsAux() && len(p.children) == 0 {
			p.Kind = LeafKind
			p.Plain = p.handle
		}
	}
	return n
}

func (t *Table) trim(h Handle) int {
	p := t.preds[h]
	if p.removed {
		return 0
	}
	n := 0
	for _, c := range slices.Clone(p.children) {
		n += t.trim(c)
	}
	if p.Relevant || p.IsRoot() {
		return n
	}
	p.removed = true
	delete(t.byID, p.ID)
	for _, ph := range p.parents {
		parent := t.preds[ph]
		parent.children = deleteHandle(parent.children, h)
	}
	for _, ch := range p.children {
		child := t.preds[ch]
		child.parents = deleteHandle(child.parents, h)
	}
	return n + 1
}
