package synth

import (
	"fmt"
	"log/slog"

	"github.com/signadot/wfsynth/config"
	"github.com/signadot/wfsynth/constraint"
	"github.com/signadot/wfsynth/domain"
	"github.com/signadot/wfsynth/encoder"
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/solver"
)

// Problem is a pruned domain with the data a workflow must consume and
// produce.
type Problem struct {
	Domain      *domain.Domain
	Inputs      []domain.Data
	Outputs     []domain.Data
	Constraints []*constraint.Constraint
	// Skipped holds the errors of constraint entries left out.
	Skipped []error
}

// NewProblem resolves the workflow data and the constraints of cf, which
// may be nil, against d and prunes d. Constraint entries that do not
// resolve are logged and skipped.
func NewProblem(d *domain.Domain, in, out []domain.DataInstance, cf *constraint.File, log *slog.Logger) (*Problem, error) {
	if log == nil {
		log = slog.Default()
	}
	p := &Problem{Domain: d}
	for i, inst := range in {
		data, err := d.ResolveData(inst)
		if err != nil {
			return nil, fmt.Errorf("workflow input %d: %w", i, err)
		}
		if d.Strict {
			if data, err = d.Plain(data); err != nil {
				return nil, fmt.Errorf("workflow input %d: %w", i, err)
			}
		}
		d.MarkData(data)
		p.Inputs = append(p.Inputs, data)
	}
	for i, inst := range out {
		data, err := d.ResolveData(inst)
		if err != nil {
			return nil, fmt.Errorf("workflow output %d: %w", i, err)
		}
		d.MarkData(data)
		p.Outputs = append(p.Outputs, data)
	}
	if cf != nil {
		p.Constraints, p.Skipped = cf.Resolve(d)
		for _, err := range p.Skipped {
			log.Warn("skipping constraint", "error", err)
		}
	}
	n := d.Prune()
	log.Debug("pruned taxonomy", "removed", n, "tools", len(d.Tools))
	return p, nil
}

// Load builds the problem described by c.
func Load(c *config.Config, log *slog.Logger) (*Problem, error) {
	opts := c.DomainOptions()
	opts.Logger = log
	d, err := domain.Load(c.OntologyPath, c.ToolAnnotationsPath, opts)
	if err != nil {
		return nil, err
	}
	var cf *constraint.File
	if c.ConstraintsPath != "" {
		if cf, err = constraint.Load(c.ConstraintsPath); err != nil {
			return nil, err
		}
	}
	return NewProblem(d, c.Inputs, c.Outputs, cf, log)
}

// Formulas returns the formulas of the resolved constraints.
func (p *Problem) Formulas() []*ir.Node {
	res := make([]*ir.Node, len(p.Constraints))
	for i, c := range p.Constraints {
		res[i] = c.Formula
	}
	return res
}

// Bounds returns the number of used and memory slots per block, given
// configured maximum tool arities (0 for the annotated maximum). The last
// used block holds the workflow outputs and memory block 0 the inputs.
func (p *Problem) Bounds(maxInputs, maxOutputs int) (inputs, outputs int) {
	if maxInputs <= 0 {
		maxInputs = p.Domain.MaxInputs
	}
	if maxOutputs <= 0 {
		maxOutputs = p.Domain.MaxOutputs
	}
	return max(maxInputs, len(p.Outputs)), max(maxOutputs, len(p.Inputs))
}

// OptionsFrom returns the run options configured by c.
func OptionsFrom(c *config.Config) Options {
	return Options{
		MinLength:     c.SolutionLength.Min,
		MaxLength:     c.SolutionLength.Max,
		Solutions:     c.Solutions,
		Timeout:       seconds(c.TimeoutSec),
		MaxInputs:     c.MaxToolInputs,
		MaxOutputs:    c.MaxToolOutputs,
		UseInputs:     encoder.Usage(c.UseWorkflowInput),
		UseGenerated:  encoder.Usage(c.UseAllGeneratedData),
		ToolSeqRepeat: c.ToolSeqRepeat,
		AuxReserve:    c.AuxReserve,
		Parallel:      c.Parallel,
		Solver: solver.Options{
			Kind: solver.Kind(c.Solver),
			Path: c.SolverPath,
			Args: c.SolverArgs,
		},
	}
}
