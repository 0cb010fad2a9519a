// Package ir defines the intermediate document model shared by every
// configuration dialect in this module.
//
// Parsers for JSON, JSON5, TOML, YAML, XML, and KDL all produce the same
// *ir.Node tree, and every writer consumes it, so any document can be
// rewritten in any dialect. Objects keep key order, scalars keep their
// source subtype, and comments ride along on a side channel instead of
// being woven into the value structure.
package ir
