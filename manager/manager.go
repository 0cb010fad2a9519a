// Package manager ties the dialect parsers, writers, and the reflective
// mapper into a typed configuration file: load it, save it atomically,
// and notice when the file on disk has drifted from memory.
package manager

import (
	"os"
	"path/filepath"

	"github.com/superscary/superconfig/debug"
	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/gomap"
	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/parse"
	"github.com/superscary/superconfig/value"
)

type options struct {
	f         format.Format
	haveF     bool
	feats     features.Set
	haveFeats bool
	strict    bool
	expand    bool
	mode      os.FileMode
}

type Option func(*options)

// WithFormat pins the dialect instead of deriving it from the file
// extension.
func WithFormat(f format.Format) Option {
	return func(o *options) {
		o.f = f
		o.haveF = true
	}
}

// WithFeatures overrides the dialect's default feature set for both
// loading and saving.
func WithFeatures(fs features.Set) Option {
	return func(o *options) {
		o.feats = fs
		o.haveFeats = true
	}
}

// WithStrictFields makes Load fail with an OutOfSyncError when the file
// carries a top-level key the config type does not declare.
func WithStrictFields(on bool) Option {
	return func(o *options) {
		o.strict = on
	}
}

// WithExpansion makes Load evaluate ${...} expressions inside string
// values against the rest of the document.
func WithExpansion(on bool) Option {
	return func(o *options) {
		o.expand = on
	}
}

// WithFileMode sets the mode for files Save creates, 0644 by default.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// Manager owns one configuration file of type T.
type Manager[T any] struct {
	path string
	opts options

	cur       value.Box[*T]
	listeners value.List[func(*T)]
}

// New builds a manager for the file at path. Unless pinned with
// WithFormat, the dialect comes from the path's extension.
func New[T any](path string, opts ...Option) (*Manager[T], error) {
	o := options{mode: 0o644}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.haveF {
		f, err := format.FromPath(path)
		if err != nil {
			return nil, err
		}
		o.f = f
	}
	if !o.haveFeats {
		o.feats = features.Default(o.f)
	}
	var probe T
	if _, err := gomap.KnownFields(&probe); err != nil {
		return nil, err
	}
	return &Manager[T]{path: path, opts: o}, nil
}

func (m *Manager[T]) Path() string          { return m.path }
func (m *Manager[T]) Format() format.Format { return m.opts.f }

// Current returns the last loaded or saved config, nil before the
// first Load.
func (m *Manager[T]) Current() *T {
	return m.cur.Load()
}

// OnReload registers fn to run after every successful Load.
func (m *Manager[T]) OnReload(fn func(*T)) {
	m.listeners.Append(fn)
}

// Load reads, parses, and maps the file into a fresh T.
func (m *Manager[T]) Load() (*T, error) {
	tree, err := m.loadTree()
	if err != nil {
		return nil, err
	}
	cfg := new(T)
	if err := gomap.FromIR(tree, cfg); err != nil {
		return nil, err
	}
	m.cur.Set(cfg)
	m.listeners.Each(func(fn func(*T)) { fn(cfg) })
	return cfg, nil
}

// LoadOrInit loads the file, creating it from init when it does not
// exist yet.
func (m *Manager[T]) LoadOrInit(init *T) (*T, error) {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		if err := m.Save(init); err != nil {
			return nil, err
		}
		return init, nil
	}
	return m.Load()
}

func (m *Manager[T]) loadTree() (*ir.Node, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: m.path, Err: err}
	}
	popts := []parse.Option{parse.WithFeatures(m.opts.feats)}
	if m.opts.strict {
		var probe T
		known, err := gomap.KnownFields(&probe)
		if err != nil {
			return nil, err
		}
		popts = append(popts, parse.WithKnownFields(known...))
	}
	tree, err := parse.Parse(m.opts.f, data, popts...)
	if err != nil {
		return nil, err
	}
	if debug.Manager() {
		debug.Logf("manager: loaded %s (%d bytes)\n", m.path, len(data))
	}
	if m.opts.expand {
		if err := Expand(tree); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Save renders cfg and writes it under a temp name in the same
// directory, then renames it over the target, so readers never see a
// half-written file.
func (m *Manager[T]) Save(cfg *T) error {
	tree, err := gomap.ToIR(cfg)
	if err != nil {
		return err
	}
	data, err := encode.Bytes(m.opts.f, tree, encode.WithFeatures(m.opts.feats))
	if err != nil {
		return err
	}
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(m.path)+".*")
	if err != nil {
		return &IOError{Op: "create", Path: dir, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Chmod(m.opts.mode); err != nil {
		tmp.Close()
		return &IOError{Op: "chmod", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: tmp.Name(), Err: err}
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return &IOError{Op: "rename", Path: m.path, Err: err}
	}
	m.cur.Set(cfg)
	return nil
}

// Sync reports whether the file on disk still matches the config in
// memory, comparing the two as trees so formatting and comments do not
// count as drift.
func (m *Manager[T]) Sync() (bool, error) {
	cur := m.cur.Load()
	if cur == nil {
		return false, mapNilErr
	}
	disk, err := m.loadTree()
	if err != nil {
		return false, err
	}
	mem, err := gomap.ToIR(cur)
	if err != nil {
		return false, err
	}
	return ir.Equal(disk, mem), nil
}
