// Package parse reads configuration documents into the shared tree
// model. Each dialect has its own hand-written recursive parser; all of
// them report positions the same way and gate their extensions on the
// dialect's feature set.
package parse
