// Package encode renders the shared tree model back out as JSON, JSON5,
// TOML, YAML, XML, or KDL text, re-emitting attached comments in each
// dialect's comment syntax. Rendering a tree and parsing the result in
// the same dialect yields a structurally equal tree.
package encode
