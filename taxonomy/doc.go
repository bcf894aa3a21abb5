// Package taxonomy holds the operation and data type taxonomies of a
// synthesis domain in a single arena of predicates.
//
// Each dimension (the tool taxonomy and one taxonomy per data dimension) has a
// root. Predicates below a root are abstract when they have children and
// leaves otherwise. Auxiliary predicates combine other predicates with a
// connective and are memoized by their member set. A single empty predicate
// marks type states carrying no data.
package taxonomy
