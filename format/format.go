// Package format enumerates the output formats of encodings and solutions.
package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	TextFormat Format = iota
	DotFormat
	CWLFormat
	ShellFormat
	JSONFormat
	DIMACSFormat
	SMTFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"t":      TextFormat,
		"text":   TextFormat,
		"dot":    DotFormat,
		"cwl":    CWLFormat,
		"sh":     ShellFormat,
		"shell":  ShellFormat,
		"j":      JSONFormat,
		"json":   JSONFormat,
		"cnf":    DIMACSFormat,
		"dimacs": DIMACSFormat,
		"smt":    SMTFormat,
		"smt2":   SMTFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case DotFormat:
		return []byte("dot"), nil
	case CWLFormat:
		return []byte("cwl"), nil
	case ShellFormat:
		return []byte("sh"), nil
	case JSONFormat:
		return []byte("json"), nil
	case DIMACSFormat:
		return []byte("dimacs"), nil
	case SMTFormat:
		return []byte("smt2"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// IsEncoding reports whether f is a solver input format.
func (f Format) IsEncoding() bool { return f == DIMACSFormat || f == SMTFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case TextFormat:
		return ".txt"
	case DotFormat:
		return ".dot"
	case CWLFormat:
		return ".cwl"
	case ShellFormat:
		return ".sh"
	case JSONFormat:
		return ".json"
	case DIMACSFormat:
		return ".cnf"
	case SMTFormat:
		return ".smt2"
	default:
		return ""
	}
}

// SolutionFormats returns the formats a decoded workflow renders to.
func SolutionFormats() []Format {
	return []Format{TextFormat, DotFormat, CWLFormat, ShellFormat, JSONFormat}
}
