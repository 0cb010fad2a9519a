// Package gomap converts between Go values and the document tree model
// using reflection. Struct types carry their mapping in conf and
// comment tags; a type's schema is computed once and cached.
//
// Keys are case-folded, so a document key matches a field regardless of
// its casing on disk. Enum-like types plug in through
// encoding.TextMarshaler and encoding.TextUnmarshaler.
package gomap
