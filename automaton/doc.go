// Package automaton provides the bounded workflow skeleton used to encode a
// synthesis problem of a fixed length.
//
// A workflow of length L has L operation states M1..ML, L+1 memory blocks
// MemT0..MemTL holding the data produced (block 0 holds the workflow inputs
// and block s the outputs of operation s) and L+1 used blocks UsedT0..UsedTL
// holding the data consumed (block s-1 feeds operation s and block L holds the
// workflow outputs).
//
// States are numbered so that the absolute index enumerates, in order,
// memory block b, used block b and operation b+1:
//
//	MemT0.* UsedT0.* M1 MemT1.* UsedT1.* M2 ...
//
// A single null state with indices -1 is the target of empty references.
package automaton
