package encode

import "github.com/signadot/wfsynth/format"

type EncodeOption func(*EncState)

// EncodeFormat selects DIMACSFormat (the default) or SMTFormat.
func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// EncodeNames names variables in DIMACS comments.
func EncodeNames(f func(int) (string, bool)) EncodeOption {
	return func(es *EncState) { es.names = f }
}

// EncodeSymbols gives the SMT-LIB symbol of each variable.
func EncodeSymbols(f func(int) string) EncodeOption {
	return func(es *EncState) { es.symbols = f }
}

func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeHeader adds free form comment lines before the problem line.
func EncodeHeader(lines ...string) EncodeOption {
	return func(es *EncState) { es.header = append(es.header, lines...) }
}
