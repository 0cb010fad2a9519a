package encode

import "github.com/superscary/superconfig/features"

type Opts struct {
	feats     features.Set
	haveFeats bool
	comments  bool
	indent    string
	colors    bool
}

type Option func(*Opts)

// WithFeatures overrides the dialect's default feature set.
func WithFeatures(fs features.Set) Option {
	return func(o *Opts) {
		o.feats = fs
		o.haveFeats = true
	}
}

// WithComments controls whether attached comments are written. They are
// written by default, in dialects whose feature set permits them.
func WithComments(on bool) Option {
	return func(o *Opts) {
		o.comments = on
	}
}

// WithIndent sets the indentation unit, two spaces by default.
func WithIndent(unit string) Option {
	return func(o *Opts) {
		o.indent = unit
	}
}

// WithColors turns on ANSI coloring of keys, scalars, and comments.
func WithColors(on bool) Option {
	return func(o *Opts) {
		o.colors = on
	}
}
