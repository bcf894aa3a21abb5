package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/wfsynth/taxonomy"
)

// Data is a resolved data instance: one predicate per data dimension, in
// the order of Domain.TypeRoots, NoHandle where the dimension is
// unconstrained.
type Data []taxonomy.Handle

// Constrained reports whether any dimension is constrained.
func (d Data) Constrained() bool {
	return slices.ContainsFunc(d, func(h taxonomy.Handle) bool { return h != taxonomy.NoHandle })
}

// ResolveData resolves a data instance. Ids of one dimension are combined
// into their disjunction.
func (d *Domain) ResolveData(inst DataInstance) (Data, error) {
	for dim := range inst {
		if !slices.ContainsFunc(d.TypeRoots, func(h taxonomy.Handle) bool { return d.Table.Get(h).ID == dim }) {
			return nil, fmt.Errorf("%w: %q is not a data dimension", taxonomy.ErrInconsistent, dim)
		}
	}
	res := make(Data, len(d.TypeRoots))
	for i, root := range d.TypeRoots {
		res[i] = taxonomy.NoHandle
		ids := inst[d.Table.Get(root).ID]
		if len(ids) == 0 {
			continue
		}
		hs := make([]taxonomy.Handle, 0, len(ids))
		for _, id := range ids {
			p, err := d.Table.MustLookup(id)
			if err != nil {
				return nil, err
			}
			if p.Root != root || p.IsAux() {
				return nil, fmt.Errorf("%w: %q is not in dimension %q", taxonomy.ErrInconsistent, id, d.Table.Get(root).ID)
			}
			hs = append(hs, p.Handle())
		}
		h, err := d.Table.GenerateAux(hs, taxonomy.Or)
		if err != nil {
			return nil, err
		}
		res[i] = h
	}
	return res, nil
}

// MarkData marks the types of data, their descendants and ancestors as
// relevant.
func (d *Domain) MarkData(data Data) {
	for _, h := range data {
		if h != taxonomy.NoHandle {
			d.Table.MarkSubtreeRelevant(h)
		}
	}
}

// Plain replaces each type of data by its plain counterpart. Disjunctions
// are replaced member-wise.
func (d *Domain) Plain(data Data) (Data, error) {
	res := make(Data, len(data))
	for i, h := range data {
		if h == taxonomy.NoHandle {
			res[i] = h
			continue
		}
		p := d.Table.Get(h)
		if p.Aux == nil {
			ph, err := d.Table.PlainOf(h)
			if err != nil {
				return nil, err
			}
			res[i] = ph
			continue
		}
		ms := make([]taxonomy.Handle, len(p.Aux.Members))
		for j, m := range p.Aux.Members {
			ph, err := d.Table.PlainOf(m)
			if err != nil {
				return nil, err
			}
			ms[j] = ph
		}
		ph, err := d.Table.GenerateAux(ms, p.Aux.Connective)
		if err != nil {
			return nil, err
		}
		res[i] = ph
	}
	return res, nil
}

// DataString renders data as dimension: type pairs.
func (d *Domain) DataString(data Data) string {
	var parts []string
	for i, h := range data {
		if h == taxonomy.NoHandle {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", d.Table.Get(d.TypeRoots[i]).ID, d.Table.Get(h).ID))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
