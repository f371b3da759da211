// Package capture computes what a closure captures from its environment.
//
// Collect turns the resolved uses of outer variables inside one closure into
// per-variable sets of disjoint projection paths, truncated at indirection
// boundaries and merged so that no path is a prefix of another. Reduce then
// derives the two capture sets that are compared during migration: the
// whole-value set of the old capture rule and the precise set of the new one.
package capture
