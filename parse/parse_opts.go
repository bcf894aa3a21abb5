package parse

import (
	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/token"
)

type parseOpts struct {
	positions map[*ir.Node]*token.Pos
	allowFree bool
}

type ParseOption func(*parseOpts)

// ParsePositions records the source position of every parsed node in m.
func ParsePositions(m map[*ir.Node]*token.Pos) ParseOption {
	return func(o *parseOpts) {
		o.positions = m
	}
}

// AllowFree accepts formulas with unbound variables.
func AllowFree(v bool) ParseOption {
	return func(o *parseOpts) { o.allowFree = v }
}
