// Package ir provides the formula tree shared by the constraint parser, the
// constraint templates and the encoder.
//
// A Node is a tagged union over Type. Propositional nodes (true, false,
// atoms, negation, conjunction, disjunction, implication, equivalence) form
// grounded formulas over concrete atoms, ready for clause generation.
// Temporal (X, G, F, U), quantified (Exists, Forall), modal tool, variable
// predicate and template nodes are evaluated relative to a point of the
// workflow and are grounded by the encoder.
//
// The constructors And, Or, Not, Implies and Iff fold constants, so
//
//	ir.And(ir.True(), x) == x
//	ir.Or() == ir.False()
//
// # Related Packages
//
//   - github.com/signadot/wfsynth/parse - Parse formula text to IR
//   - github.com/signadot/wfsynth/encoder - Ground IR into clauses
package ir
