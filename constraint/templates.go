// Package constraint holds the library of constraint templates and turns
// constraint entries into formulas over the taxonomy.
package constraint

import (
	"slices"

	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/taxonomy"
)

// ParamKind is the taxonomy a template parameter ranges over.
type ParamKind int

const (
	ModuleParam ParamKind = iota
	TypeParam
)

func (k ParamKind) String() string {
	if k == TypeParam {
		return "type"
	}
	return "module"
}

// SLTLxID is the template whose entries carry a formula text.
const SLTLxID = "SLTLx"

// Template builds a formula from resolved parameter ids.
type Template struct {
	ID          string
	Description string
	Params      []ParamKind
	build       func(d *domain.Domain, ps []string) *ir.Node
}

// Build instantiates the template with resolved predicate ids.
func (t *Template) Build(d *domain.Domain, ps []string) *ir.Node {
	return t.build(d, ps)
}

var (
	mm = []ParamKind{ModuleParam, ModuleParam}
	tt = []ParamKind{TypeParam, TypeParam}
)

func last() *ir.Node { return ir.Not(ir.Next(ir.True())) }

var templates = []*Template{
	{
		ID:          "ite_m",
		Description: "If operation ${0} is used, then operation ${1} must be used subsequently.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Module(p[0]), ir.Next(ir.Finally(ir.Module(p[1])))))
		},
	},
	{
		ID:          "itn_m",
		Description: "If operation ${0} is used, then operation ${1} cannot be used subsequently.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Module(p[0]), ir.Next(ir.Globally(ir.Not(ir.Module(p[1]))))))
		},
	},
	{
		ID:          "depend_m",
		Description: "If operation ${0} is used, then operation ${1} must be used prior to it.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			a, b := ir.Module(p[0]), ir.Module(p[1])
			return ir.Implies(ir.Finally(a), ir.Until(ir.Not(a), ir.And(b, ir.Not(a))))
		},
	},
	{
		ID:          "next_m",
		Description: "If operation ${0} is used, then operation ${1} must be used as the next step.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Module(p[0]), ir.Next(ir.Module(p[1]))))
		},
	},
	{
		ID:          "prev_m",
		Description: "If operation ${0} is used, then operation ${1} must be used as the previous step.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			a, b := ir.Module(p[0]), ir.Module(p[1])
			return ir.And(ir.Not(a), ir.Globally(ir.Implies(ir.Next(a), b)))
		},
	},
	{
		ID:          "use_m",
		Description: "Use operation ${0} in the workflow.",
		Params:      []ParamKind{ModuleParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.Module(p[0]))
		},
	},
	{
		ID:          "nuse_m",
		Description: "Do not use operation ${0} in the workflow.",
		Params:      []ParamKind{ModuleParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Not(ir.Module(p[0])))
		},
	},
	{
		ID:          "last_m",
		Description: "Use operation ${0} as the last step of the workflow.",
		Params:      []ParamKind{ModuleParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.And(ir.Module(p[0]), last()))
		},
	},
	{
		ID:          "use_t",
		Description: "Use type ${0} as an operation input in the workflow.",
		Params:      []ParamKind{TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.Use(p[0]))
		},
	},
	{
		ID:          "gen_t",
		Description: "Generate type ${0} in the workflow.",
		Params:      []ParamKind{TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.Gen(p[0]))
		},
	},
	{
		ID:          "nuse_t",
		Description: "Do not use type ${0} as an operation input.",
		Params:      []ParamKind{TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Not(ir.Use(p[0])))
		},
	},
	{
		ID:          "ngen_t",
		Description: "Do not generate type ${0} in the workflow.",
		Params:      []ParamKind{TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Not(ir.Gen(p[0])))
		},
	},
	{
		ID:          "use_ite_t",
		Description: "If type ${0} is used, then type ${1} must be used subsequently.",
		Params:      tt,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Use(p[0]), ir.Next(ir.Finally(ir.Use(p[1])))))
		},
	},
	{
		ID:          "gen_ite_t",
		Description: "If type ${0} is generated, then type ${1} must be generated subsequently.",
		Params:      tt,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Gen(p[0]), ir.Next(ir.Finally(ir.Gen(p[1])))))
		},
	},
	{
		ID:          "use_itn_t",
		Description: "If type ${0} is used, then type ${1} cannot be used subsequently.",
		Params:      tt,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Use(p[0]), ir.Next(ir.Globally(ir.Not(ir.Use(p[1]))))))
		},
	},
	{
		ID:          "gen_itn_t",
		Description: "If type ${0} is generated, then type ${1} cannot be generated subsequently.",
		Params:      tt,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Implies(ir.Gen(p[0]), ir.Next(ir.Globally(ir.Not(ir.Gen(p[1]))))))
		},
	},
	{
		ID:          "operation_input",
		Description: "Use operation ${0} with an input of type ${1}.",
		Params:      []ParamKind{ModuleParam, TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.And(ir.Module(p[0]), ir.Use(p[1])))
		},
	},
	{
		ID:          "operation_output",
		Description: "Use operation ${0} to generate an output of type ${1}.",
		Params:      []ParamKind{ModuleParam, TypeParam},
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.And(ir.Module(p[0]), ir.Gen(p[1])))
		},
	},
	{
		ID:          "connected_op",
		Description: "Operation ${0} generates an output consumed by a later run of operation ${1}.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Finally(ir.Connected(p[0], p[1]))
		},
	},
	{
		ID:          "not_connected_op",
		Description: "No output of operation ${0} is consumed by a later run of operation ${1}.",
		Params:      mm,
		build: func(_ *domain.Domain, p []string) *ir.Node {
			return ir.Globally(ir.Not(ir.Connected(p[0], p[1])))
		},
	},
	{
		ID:          "not_repeat_op",
		Description: "No tool below operation ${0} is used more than once.",
		Params:      []ParamKind{ModuleParam},
		build: func(d *domain.Domain, p []string) *ir.Node {
			var res []*ir.Node
			for _, tool := range toolsBelow(d, p[0]) {
				m := ir.Module(tool)
				res = append(res, ir.Globally(ir.Implies(m, ir.Next(ir.Globally(ir.Not(m))))))
			}
			return ir.And(res...)
		},
	},
	{
		ID:          SLTLxID,
		Description: "A formula in the temporal logic text syntax.",
	},
}

// toolsBelow lists the annotated tools under the operation id, expanding
// disjunctions.
func toolsBelow(d *domain.Domain, id string) []string {
	p, ok := d.Table.Lookup(id)
	if !ok {
		return nil
	}
	roots := []taxonomy.Handle{p.Handle()}
	if p.Aux != nil {
		roots = p.Aux.Members
	}
	var res []string
	for _, r := range roots {
		for _, h := range d.Table.Subtree(r) {
			if t := d.Table.Get(h); t.Module != nil && !slices.Contains(res, t.ID) {
				res = append(res, t.ID)
			}
		}
	}
	return res
}

// Templates returns the template library.
func Templates() []*Template { return templates }

// Lookup finds a template by id.
func Lookup(id string) (*Template, bool) {
	i := slices.IndexFunc(templates, func(t *Template) bool { return t.ID == id })
	if i < 0 {
		return nil, false
	}
	return templates[i], true
}
