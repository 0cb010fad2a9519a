package encode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

// Encode writes n to w in dialect f. The writer honors the dialect's
// feature set: a feature that is off never appears in the output, so a
// strict-JSON encode of a commented tree silently drops the comments.
func Encode(w io.Writer, f format.Format, n *ir.Node, opts ...Option) error {
	st := newState(w, f, opts)
	switch f {
	case format.JSONFormat, format.JSON5Format:
		st.commentLines(n)
		st.jsonValue(n)
		st.ws("\n")
	case format.TOMLFormat:
		st.tomlDoc(n)
	case format.YAMLFormat:
		st.yamlDoc(n)
	case format.XMLFormat:
		st.xmlDoc(n)
	case format.KDLFormat:
		st.kdlDoc(n)
	default:
		return fmt.Errorf("%w: %v", format.ErrBadFormat, f)
	}
	return st.err
}

// Bytes renders n in dialect f.
func Bytes(f format.Format, n *ir.Node, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, n, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders n in dialect f, panicking on error. It is meant for
// trees already known to fit the dialect.
func String(f format.Format, n *ir.Node, opts ...Option) string {
	d, err := Bytes(f, n, opts...)
	if err != nil {
		panic(err)
	}
	return string(d)
}

// state carries one encode in flight. The first write error latches and
// short-circuits the rest.
type state struct {
	w        io.Writer
	feats    features.Set
	comments bool
	indent   string
	depth    int
	pal      *palette
	err      error
}

func newState(w io.Writer, f format.Format, opts []Option) *state {
	o := &Opts{comments: true, indent: "  "}
	for _, opt := range opts {
		opt(o)
	}
	if !o.haveFeats {
		o.feats = features.Default(f)
	}
	pal := noPalette
	if o.colors {
		pal = colorPalette
	}
	return &state{
		w:        w,
		feats:    o.feats,
		comments: o.comments && o.feats.Comments(),
		indent:   o.indent,
		pal:      pal,
	}
}

func (st *state) ws(v string) {
	if st.err != nil {
		return
	}
	_, st.err = io.WriteString(st.w, v)
}

func (st *state) wsf(msg string, args ...any) {
	st.ws(fmt.Sprintf(msg, args...))
}

func (st *state) pad() {
	for i := 0; i < st.depth; i++ {
		st.ws(st.indent)
	}
}

func (st *state) errf(msg string, args ...any) {
	if st.err == nil {
		st.err = fmt.Errorf(msg, args...)
	}
}

// commentLines writes n's attached comments, one per line at the
// current depth, using the dialect's comment syntax.
func (st *state) commentLines(n *ir.Node) {
	if !st.comments || n.Comment == nil {
		return
	}
	prefix, suffix := st.feats.Format().CommentSyntax()
	if prefix == "" {
		return
	}
	for _, ln := range n.Comment.Lines {
		st.pad()
		st.ws(st.pal.comment(prefix + ln + suffix))
		st.ws("\n")
	}
}
