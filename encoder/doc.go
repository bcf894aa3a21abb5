// Package encoder compiles a synthesis problem of one length into clauses.
//
// The encoding has two parts. The structural part makes every model a
// well formed workflow: one tool per operation state, well typed memory and
// used states, tool input/output typing and memory references from inputs
// to earlier outputs. The constraint part grounds temporal formulas at the
// points 0..L-1 of the automaton, where point t is operation state t, its
// used block t and its output memory block t+1.
//
// Quantified variables are flattened to one fresh variable per quantifier
// occurrence. A variable ranges over the memory states of blocks 0..t+1 at
// its quantifier point. Uses of a variable are transferred to the states it
// is bound to by substitution clauses emitted once its scope is grounded.
package encoder
