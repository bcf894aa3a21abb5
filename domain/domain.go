// Package domain builds the taxonomy of a synthesis problem from an ontology
// and tool annotations.
package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/signadot/wfsynth/taxonomy"
)

// Options selects the dimensions of the ontology.
type Options struct {
	// ToolRoot is the id of the operation taxonomy root.
	ToolRoot string
	// TypeRoots are the ids of the data dimension roots.
	TypeRoots []string
	// Strict resolves abstract tool outputs to their plain counterpart.
	Strict bool
	Logger *slog.Logger
}

// Domain is the taxonomy with its annotated tools.
type Domain struct {
	Table     *taxonomy.Table
	ToolRoot  taxonomy.Handle
	TypeRoots []taxonomy.Handle
	// Tools are the annotated operations in annotation order.
	Tools []taxonomy.Handle
	// MaxInputs and MaxOutputs are the largest annotated arities.
	MaxInputs  int
	MaxOutputs int
	Strict     bool
	// Skipped collects the errors of entries left out of the domain.
	Skipped []error

	log *slog.Logger
}

// New builds the dimensions named by opts from ont. Terms outside those
// dimensions are ignored.
func New(ont *Ontology, opts Options) (*Domain, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	d := &Domain{
		Table:    taxonomy.New(),
		ToolRoot: taxonomy.NoHandle,
		Strict:   opts.Strict,
		log:      log,
	}
	roots := map[string]taxonomy.Variant{opts.ToolRoot: taxonomy.Operation}
	for _, r := range opts.TypeRoots {
		if r == opts.ToolRoot {
			return nil, fmt.Errorf("%w: %q is both the tool root and a data dimension", taxonomy.ErrInconsistent, r)
		}
		roots[r] = taxonomy.DataType
	}
	var extra [][2]string
	var walk func(t *Term, parent taxonomy.Handle) error
	walk = func(t *Term, parent taxonomy.Handle) error {
		h := taxonomy.NoHandle
		if v, ok := roots[t.ID]; ok {
			var err error
			if h, err = d.Table.AddRoot(t.ID, t.Label, v); err != nil {
				return err
			}
		} else if parent != taxonomy.NoHandle {
			if p, ok := d.Table.Lookup(t.ID); ok {
				h = p.Handle()
				if err := d.Table.Link(parent, h); err != nil {
					d.skip(err)
					return nil
				}
			} else {
				var err error
				if h, err = d.Table.Add(t.ID, t.Label, parent); err != nil {
					return err
				}
			}
			for _, p := range t.Parents {
				extra = append(extra, [2]string{p, t.ID})
			}
		}
		for i := range t.Children {
			if err := walk(&t.Children[i], h); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range ont.Roots {
		if err := walk(&ont.Roots[i], taxonomy.NoHandle); err != nil {
			return nil, err
		}
	}
	for _, e := range extra {
		p, ok := d.Table.Lookup(e[0])
		if !ok {
			d.skip(fmt.Errorf("%w: parent %q of %q", taxonomy.ErrUnknown, e[0], e[1]))
			continue
		}
		c, _ := d.Table.Lookup(e[1])
		if err := d.Table.Link(p.Handle(), c.Handle()); err != nil {
			d.skip(err)
		}
	}
	tr, ok := d.Table.Lookup(opts.ToolRoot)
	if !ok {
		return nil, fmt.Errorf("%w: tool taxonomy root %q not in ontology", taxonomy.ErrUnknown, opts.ToolRoot)
	}
	d.ToolRoot = tr.Handle()
	d.Table.MarkRelevant(d.ToolRoot)
	for _, r := range opts.TypeRoots {
		p, ok := d.Table.Lookup(r)
		if !ok {
			return nil, fmt.Errorf("%w: data dimension root %q not in ontology", taxonomy.ErrUnknown, r)
		}
		d.TypeRoots = append(d.TypeRoots, p.Handle())
		d.Table.MarkRelevant(p.Handle())
	}
	d.Table.Empty()
	return d, nil
}

func (d *Domain) skip(err error) {
	d.log.Warn("skipping domain entry", "error", err)
	d.Skipped = append(d.Skipped, err)
}

// AddAnnotations adds each annotated function as a leaf operation. Entries
// referring to unknown operations or types are skipped.
func (d *Domain) AddAnnotations(a *Annotations) {
	for i := range a.Functions {
		if err := d.AddFunction(&a.Functions[i]); err != nil {
			d.skip(fmt.Errorf("function %q: %w", a.Functions[i].ID, err))
		}
	}
}

// AddFunction adds one annotated operation.
func (d *Domain) AddFunction(f *Function) error {
	if f.ID == "" {
		return fmt.Errorf("%w: function without id", taxonomy.ErrInconsistent)
	}
	if _, ok := d.Table.Lookup(f.ID); ok {
		return fmt.Errorf("%w: %q", taxonomy.ErrDuplicateID, f.ID)
	}
	var parents []taxonomy.Handle
	for _, id := range f.TaxonomyOperations {
		p, err := d.Table.MustLookup(id)
		if err != nil {
			return err
		}
		if p.Root != d.ToolRoot || p.IsAux() {
			return fmt.Errorf("%w: %q is not an operation", taxonomy.ErrInconsistent, id)
		}
		parents = append(parents, p.Handle())
	}
	if len(parents) == 0 {
		parents = []taxonomy.Handle{d.ToolRoot}
	}
	mod := &taxonomy.Module{}
	for _, in := range f.Inputs {
		data, err := d.ResolveData(in)
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		mod.Inputs = append(mod.Inputs, data)
	}
	for _, out := range f.Outputs {
		data, err := d.ResolveData(out)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if d.Strict {
			if data, err = d.Plain(data); err != nil {
				return fmt.Errorf("output: %w", err)
			}
		}
		mod.Outputs = append(mod.Outputs, data)
	}
	if f.Implementation != nil {
		mod.Code = f.Implementation.Code
	}
	h, err := d.Table.Add(f.ID, f.Label, parents...)
	if err != nil {
		return err
	}
	d.Table.Get(h).Module = mod
	d.Table.MarkRelevant(h)
	for _, data := range slices.Concat(mod.Inputs, mod.Outputs) {
		d.MarkData(data)
	}
	d.Tools = append(d.Tools, h)
	d.MaxInputs = max(d.MaxInputs, len(mod.Inputs))
	d.MaxOutputs = max(d.MaxOutputs, len(mod.Outputs))
	return nil
}

// Tool returns the predicate of an operation.
func (d *Domain) Tool(h taxonomy.Handle) *taxonomy.Predicate {
	return d.Table.Get(h)
}

// ResolveOperation resolves operation ids to one predicate, the
// disjunction of the ids.
func (d *Domain) ResolveOperation(ids ...string) (taxonomy.Handle, error) {
	var hs []taxonomy.Handle
	for _, id := range ids {
		p, err := d.Table.MustLookup(id)
		if err != nil {
			return taxonomy.NoHandle, err
		}
		if p.Base() != taxonomy.Operation {
			return taxonomy.NoHandle, fmt.Errorf("%w: %q is not an operation", taxonomy.ErrInconsistent, id)
		}
		hs = append(hs, p.Handle())
	}
	h, err := d.Table.GenerateAux(hs, taxonomy.Or)
	if err != nil {
		return taxonomy.NoHandle, err
	}
	d.Table.MarkRelevant(h)
	return h, nil
}

// Prune trims predicates unrelated to annotated tools, data instances and
// constraints. It returns the number of removed predicates.
func (d *Domain) Prune() int {
	n := d.Table.Trim()
	d.Tools = slices.DeleteFunc(d.Tools, func(h taxonomy.Handle) bool {
		return d.Table.Get(h).Removed()
	})
	return n
}

// Err joins the skipped entry errors.
func (d *Domain) Err() error { return errors.Join(d.Skipped...) }
