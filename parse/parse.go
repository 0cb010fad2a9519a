package parse

import (
	"fmt"
	"strings"

	"github.com/superscary/superconfig/debug"
	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

// Opts carries parsing configuration. The zero value parses with the
// dialect's default feature set, comments on, and no known-field check.
type Opts struct {
	feats     features.Set
	haveFeats bool
	known     map[string]bool
	comments  bool
}

type Option func(*Opts)

// WithFeatures overrides the dialect's default feature set.
func WithFeatures(fs features.Set) Option {
	return func(o *Opts) {
		o.feats = fs
		o.haveFeats = true
	}
}

// WithKnownFields turns on out-of-sync detection: after a successful
// parse, any top-level key not in names (case-folded) yields an
// OutOfSyncError.
func WithKnownFields(names ...string) Option {
	return func(o *Opts) {
		if o.known == nil {
			o.known = make(map[string]bool, len(names))
		}
		for _, n := range names {
			o.known[strings.ToLower(n)] = true
		}
	}
}

// WithComments controls whether comments are collected onto the tree.
// They are collected by default.
func WithComments(on bool) Option {
	return func(o *Opts) {
		o.comments = on
	}
}

// rootKey records where a top-level key appeared, for out-of-sync
// reporting.
type rootKey struct {
	name string
	line int
	col  int
}

// Parse reads one document in dialect f and returns its tree.
func Parse(f format.Format, src []byte, opts ...Option) (*ir.Node, error) {
	o := &Opts{comments: true}
	for _, opt := range opts {
		opt(o)
	}
	if !o.haveFeats {
		o.feats = features.Default(f)
	}

	var (
		res  *ir.Node
		keys []rootKey
		err  error
	)
	switch f {
	case format.JSONFormat, format.JSON5Format:
		res, keys, err = parseJSON(src, o)
	case format.TOMLFormat:
		res, keys, err = parseTOML(src, o)
	case format.YAMLFormat:
		res, keys, err = parseYAML(src, o)
	case format.XMLFormat:
		res, keys, err = parseXML(src, o)
	case format.KDLFormat:
		res, keys, err = parseKDL(src, o)
	default:
		return nil, fmt.Errorf("%w: %v", format.ErrBadFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("parse %v: %d bytes, %d top-level keys\n", f, len(src), len(keys))
	}
	if o.known != nil {
		for _, k := range keys {
			if !o.known[strings.ToLower(k.name)] {
				return nil, &OutOfSyncError{Field: k.name, Line: k.line, Col: k.col}
			}
		}
	}
	return res, nil
}

// String parses src in dialect f.
func String(f format.Format, src string, opts ...Option) (*ir.Node, error) {
	return Parse(f, []byte(src), opts...)
}
