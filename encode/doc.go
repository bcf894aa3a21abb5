// Package encode writes clause sets for solvers.
//
// # Usage
//
//	// DIMACS with one comment line per named variable
//	err := encode.Encode(c, os.Stdout, encode.EncodeNames(m.Name))
//
//	// SMT-LIB2 with symbols derived from atom signatures
//	err := encode.Encode(c, w, encode.EncodeFormat(format.SMTFormat), encode.EncodeSymbols(encode.SMTSymbols(m)))
//
// # Related Packages
//
//   - github.com/signadot/wfsynth/cnf - clause sets and DIMACS reading
//   - github.com/signadot/wfsynth/mapping - atom numbering
package encode
