package encoder

import (
	"log/slog"

	"github.com/signadot/wfsynth/domain"
)

// Usage is how much of a group of data instances a workflow must consume.
type Usage string

const (
	UseAll  Usage = "ALL"
	UseOne  Usage = "ONE"
	UseNone Usage = "NONE"
)

type Options struct {
	// Inputs fill memory block 0; Outputs are read from the last used
	// block.
	Inputs  []domain.Data
	Outputs []domain.Data
	// UseInputs constrains consumption of the workflow inputs and
	// UseGenerated the consumption of tool outputs.
	UseInputs    Usage
	UseGenerated Usage
	// ToolSeqRepeat allows enumerated solutions to share a tool sequence.
	// When false, blocking clauses only mention tools.
	ToolSeqRepeat bool
	// AuxReserve is the number of auxiliary variables, mapping.DefaultReserved
	// when 0.
	AuxReserve int
	Logger     *slog.Logger
}
