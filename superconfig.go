// Package superconfig reads and writes configuration files in JSON,
// JSON5, TOML, YAML, XML, and KDL through one document model, and maps
// documents onto Go structs by reflection.
//
// The subpackages carry the machinery: parse and encode handle the
// dialects, ir is the shared tree, gomap the struct mapping, features
// the per-dialect toggles, and manager a typed file with atomic saves.
// This package ties them together for the common cases.
package superconfig

import (
	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/gomap"
	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/parse"
)

// Marshal renders v as a document in dialect f, comment tags included.
func Marshal(f format.Format, v any) ([]byte, error) {
	tree, err := gomap.ToIR(v)
	if err != nil {
		return nil, err
	}
	return encode.Bytes(f, tree)
}

// Unmarshal parses data in dialect f and maps it onto dst, a non-nil
// pointer.
func Unmarshal(f format.Format, data []byte, dst any) error {
	tree, err := parse.Parse(f, data)
	if err != nil {
		return err
	}
	return gomap.FromIR(tree, dst)
}

// UnmarshalStrict is Unmarshal with out-of-sync detection: a top-level
// key dst's type does not declare fails with an OutOfSyncError.
func UnmarshalStrict(f format.Format, data []byte, dst any) error {
	known, err := gomap.KnownFields(dst)
	if err != nil {
		return err
	}
	tree, err := parse.Parse(f, data, parse.WithKnownFields(known...))
	if err != nil {
		return err
	}
	return gomap.FromIR(tree, dst)
}

// Convert re-renders a document from one dialect in another, carrying
// comments across when both dialects can hold them.
func Convert(from, to format.Format, data []byte) ([]byte, error) {
	tree, err := parse.Parse(from, data)
	if err != nil {
		return nil, err
	}
	return encode.Bytes(to, tree)
}

// ConvertWith is Convert with explicit feature sets on both sides.
func ConvertWith(from, to features.Set, data []byte) ([]byte, error) {
	tree, err := parse.Parse(from.Format(), data, parse.WithFeatures(from))
	if err != nil {
		return nil, err
	}
	return encode.Bytes(to.Format(), tree, encode.WithFeatures(to))
}

// Tree parses data in dialect f into the document model.
func Tree(f format.Format, data []byte) (*ir.Node, error) {
	return parse.Parse(f, data)
}

// Render writes a document model in dialect f.
func Render(f format.Format, tree *ir.Node) ([]byte, error) {
	return encode.Bytes(f, tree)
}
