package constraint

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/parse"
	"github.com/signadot/wfsynth/taxonomy"
)

var (
	ErrUnknownTemplate = errors.New("unknown constraint template")
	ErrArity           = errors.New("wrong number of parameters")
)

// Constraint is a resolved entry.
type Constraint struct {
	Entry   Entry
	Formula *ir.Node
	// Description is the template description with parameters filled in.
	Description string
}

// Resolve resolves each entry against d. Entries that fail are left out and
// their errors returned; they do not stop the others.
func (f *File) Resolve(d *domain.Domain) ([]*Constraint, []error) {
	var res []*Constraint
	var errs []error
	for i := range f.Constraints {
		c, err := ResolveEntry(d, &f.Constraints[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("constraint %d %s: %w", i, &f.Constraints[i], err))
			continue
		}
		res = append(res, c)
	}
	return res, errs
}

// ResolveEntry resolves one entry, generating auxiliary predicates for its
// parameters and marking them relevant.
func ResolveEntry(d *domain.Domain, e *Entry) (*Constraint, error) {
	t, ok := Lookup(e.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, e.ID)
	}
	if t.ID == SLTLxID {
		n, err := parse.Parse([]byte(e.Formula))
		if err != nil {
			return nil, err
		}
		if err := checkFormula(d, n); err != nil {
			return nil, err
		}
		return &Constraint{Entry: *e, Formula: n, Description: e.Formula}, nil
	}
	if len(e.Parameters) != len(t.Params) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, t.ID, len(t.Params), len(e.Parameters))
	}
	ids := make([]string, len(t.Params))
	for i, k := range t.Params {
		var h taxonomy.Handle
		var err error
		if k == ModuleParam {
			h, err = d.ResolveOperation(e.Parameters[i]...)
		} else {
			h, err = ResolveType(d, e.Parameters[i]...)
		}
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		ids[i] = d.Table.Get(h).ID
	}
	return &Constraint{Entry: *e, Formula: t.Build(d, ids), Description: describe(t, ids)}, nil
}

// ResolveType combines type ids into one predicate: alternatives within a
// dimension, conjoined across dimensions.
func ResolveType(d *domain.Domain, ids ...string) (taxonomy.Handle, error) {
	if len(ids) == 0 {
		return taxonomy.NoHandle, fmt.Errorf("%w: no type ids", taxonomy.ErrInconsistent)
	}
	byRoot := map[taxonomy.Handle][]taxonomy.Handle{}
	for _, id := range ids {
		p, err := d.Table.MustLookup(id)
		if err != nil {
			return taxonomy.NoHandle, err
		}
		if p.Base() != taxonomy.DataType || p.IsEmpty() {
			return taxonomy.NoHandle, fmt.Errorf("%w: %q is not a type", taxonomy.ErrInconsistent, id)
		}
		byRoot[p.Root] = append(byRoot[p.Root], p.Handle())
	}
	var dims []taxonomy.Handle
	for _, root := range slices.Sorted(maps.Keys(byRoot)) {
		h, err := d.Table.GenerateAux(byRoot[root], taxonomy.Or)
		if err != nil {
			return taxonomy.NoHandle, err
		}
		dims = append(dims, h)
	}
	h, err := d.Table.GenerateAux(dims, taxonomy.And)
	if err != nil {
		return taxonomy.NoHandle, err
	}
	d.Table.MarkSubtreeRelevant(h)
	return h, nil
}

// checkFormula verifies the taxonomy ids of a parsed formula and marks them
// relevant.
func checkFormula(d *domain.Domain, n *ir.Node) error {
	var err error
	ir.Walk(n, func(x *ir.Node) bool {
		if err != nil {
			return false
		}
		switch x.Type {
		case ir.ModuleType, ir.ToolType:
			_, err = d.ResolveOperation(x.Name)
		case ir.ConnectedType:
			_, err = d.ResolveOperation(x.Args[0])
			if err == nil {
				_, err = d.ResolveOperation(x.Args[1])
			}
		case ir.PredType, ir.UseType, ir.GenType:
			_, err = ResolveType(d, x.Name)
		}
		return err == nil
	})
	return err
}

func describe(t *Template, ids []string) string {
	var kv []string
	for i, id := range ids {
		kv = append(kv, "${"+strconv.Itoa(i)+"}", id)
	}
	return strings.NewReplacer(kv...).Replace(t.Description)
}
