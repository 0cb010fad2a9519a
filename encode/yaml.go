package encode

import (
	"strings"
	"time"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

func (st *state) yamlDoc(n *ir.Node) {
	st.commentLines(n)
	switch n.Type {
	case ir.ObjectType:
		if len(n.Fields) == 0 {
			st.ws("{}\n")
			return
		}
		st.yamlMapping(n)
	case ir.ArrayType:
		if len(n.Values) == 0 {
			st.ws("[]\n")
			return
		}
		st.yamlSequence(n)
	default:
		st.ws(st.yamlScalar(n))
		st.ws("\n")
	}
}

func (st *state) yamlMapping(n *ir.Node) {
	for i, f := range n.Fields {
		v := n.Values[i]
		st.commentLines(v)
		st.pad()
		st.ws(st.pal.key(st.yamlKey(f.String)))
		st.ws(":")
		st.yamlEntryValue(v)
	}
}

func (st *state) yamlSequence(n *ir.Node) {
	for _, v := range n.Values {
		st.commentLines(v)
		st.pad()
		st.ws(st.pal.punct("-"))
		st.yamlEntryValue(v)
	}
}

// yamlEntryValue writes what follows a "key:" or "-": an inline scalar,
// a block scalar, or a nested block on the following lines.
func (st *state) yamlEntryValue(v *ir.Node) {
	if tag := st.yamlTag(v); tag != "" {
		st.ws(" " + st.pal.word(tag))
		if strings.HasPrefix(tag, "*") {
			st.ws("\n")
			return
		}
	}
	switch v.Type {
	case ir.ObjectType:
		if len(v.Fields) == 0 {
			st.ws(" {}\n")
			return
		}
		st.ws("\n")
		st.depth++
		st.yamlMapping(v)
		st.depth--
	case ir.ArrayType:
		if len(v.Values) == 0 {
			st.ws(" []\n")
			return
		}
		st.ws("\n")
		st.depth++
		st.yamlSequence(v)
		st.depth--
	case ir.StringType:
		if block, ok := st.yamlBlockScalar(v.String); ok {
			st.ws(block)
			return
		}
		st.ws(" " + st.yamlScalar(v) + "\n")
	default:
		st.ws(" " + st.yamlScalar(v) + "\n")
	}
}

// yamlTag re-emits an unresolved anchor, alias, or tag when the dialect
// permits it.
func (st *state) yamlTag(v *ir.Node) string {
	if v.Tag == "" {
		return ""
	}
	switch v.Tag[0] {
	case '&', '*':
		if st.feats.Anchors() {
			return v.Tag
		}
	case '!':
		if st.feats.Tags() {
			return v.Tag
		}
	}
	return ""
}

// yamlBlockScalar renders a multi-line string as a literal block when
// that survives a reread: no blank lines, no indented first lines.
func (st *state) yamlBlockScalar(v string) (string, bool) {
	if !strings.Contains(v, "\n") {
		return "", false
	}
	trailing := strings.HasSuffix(v, "\n")
	body := strings.TrimSuffix(v, "\n")
	if strings.Contains(body, "\n\n") || strings.HasSuffix(body, "\n") {
		return "", false
	}
	lines := strings.Split(body, "\n")
	for _, ln := range lines {
		if ln == "" || ln[0] == ' ' || ln[0] == '\t' {
			return "", false
		}
	}
	header := " |-\n"
	if trailing {
		header = " |\n"
	}
	var b strings.Builder
	b.WriteString(header)
	for _, ln := range lines {
		for i := 0; i <= st.depth; i++ {
			b.WriteString(st.indent)
		}
		b.WriteString(ln)
		b.WriteString("\n")
	}
	return b.String(), true
}

func (st *state) yamlKey(key string) string {
	if yamlNeedsQuote(key) {
		return token.Quote(key)
	}
	return key
}

func (st *state) yamlScalar(n *ir.Node) string {
	switch n.Type {
	case ir.NullType:
		return st.pal.word("null")
	case ir.BoolType:
		if n.Bool {
			return st.pal.word("true")
		}
		return st.pal.word("false")
	case ir.IntType:
		return st.pal.num(formatInt(n.Int64))
	case ir.FloatType:
		return st.pal.num(formatFloat(n.Float64))
	case ir.TimeType:
		return st.pal.num(n.Time.Format(n.TimeKind.Layout()))
	case ir.StringType:
		if yamlNeedsQuote(n.String) {
			return st.pal.str(token.Quote(n.String))
		}
		return st.pal.str(n.String)
	default:
		st.errf("cannot encode %v node inline", n.Type)
		return ""
	}
}

// yamlNeedsQuote reports whether a plain rendering of v would read back
// as something other than the string v.
func yamlNeedsQuote(v string) bool {
	if v == "" || v == "~" {
		return true
	}
	switch strings.ToLower(v) {
	case "null", "true", "false", "yes", "no", "on", "off":
		return true
	}
	if strings.ContainsAny(v, "\n#:{}[],&*!|>'\"%@`") {
		return true
	}
	c := v[0]
	if c == ' ' || c == '-' && (len(v) == 1 || v[1] == ' ') || c == '?' {
		return true
	}
	if v[len(v)-1] == ' ' {
		return true
	}
	if _, err := token.ParseNumber(v, token.NumberOpts{
		HexOctBin:  true,
		InfNaN:     true,
		PlusSign:   true,
		LeadingDot: true,
	}); err == nil {
		return true
	}
	if len(v) >= 8 {
		if _, err := time.Parse("2006-01-02", v); err == nil {
			return true
		}
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return true
		}
	}
	return false
}
