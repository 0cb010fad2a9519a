package encode

import (
	"strings"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

func (st *state) tomlDoc(n *ir.Node) {
	if n.Type != ir.ObjectType {
		st.errf("TOML document must be a table, got %v", n.Type)
		return
	}
	st.commentLines(n)
	st.tomlTable(n, nil)
}

// tomlTable writes a table body: plain entries first, then sub-tables
// and arrays of tables as bracketed sections.
func (st *state) tomlTable(n *ir.Node, path []string) {
	var sections []int
	for i, f := range n.Fields {
		v := n.Values[i]
		if st.tomlIsSection(v) {
			sections = append(sections, i)
			continue
		}
		st.commentLines(v)
		st.ws(st.pal.key(tomlKey(f.String)))
		st.ws(" = ")
		st.tomlInline(v)
		st.ws("\n")
	}
	for _, i := range sections {
		v := n.Values[i]
		sub := append(append([]string(nil), path...), n.Fields[i].String)
		header := tomlKeyPath(sub)
		if v.Type == ir.ObjectType {
			st.ws("\n")
			st.commentLines(v)
			st.ws(st.pal.punct("[") + st.pal.key(header) + st.pal.punct("]") + "\n")
			st.tomlTable(v, sub)
			continue
		}
		for _, elem := range v.Values {
			st.ws("\n")
			st.commentLines(elem)
			st.ws(st.pal.punct("[[") + st.pal.key(header) + st.pal.punct("]]") + "\n")
			st.tomlTable(elem, sub)
		}
	}
}

// tomlIsSection reports whether v renders as a bracketed section rather
// than an inline entry.
func (st *state) tomlIsSection(v *ir.Node) bool {
	switch v.Type {
	case ir.ObjectType:
		return true
	case ir.ArrayType:
		if !st.feats.ArrayOfTables() || len(v.Values) == 0 {
			return false
		}
		for _, e := range v.Values {
			if e.Type != ir.ObjectType {
				return false
			}
		}
		return true
	}
	return false
}

func (st *state) tomlInline(n *ir.Node) {
	switch n.Type {
	case ir.NullType:
		// TOML has no null; an empty string is the closest stable
		// rendering.
		st.ws(st.pal.str(`""`))
	case ir.BoolType:
		if n.Bool {
			st.ws(st.pal.word("true"))
		} else {
			st.ws(st.pal.word("false"))
		}
	case ir.IntType:
		st.ws(st.pal.num(formatInt(n.Int64)))
	case ir.FloatType:
		st.ws(st.pal.num(formatFloat(n.Float64)))
	case ir.StringType:
		st.ws(st.pal.str(st.tomlString(n.String)))
	case ir.TimeType:
		st.ws(st.pal.num(n.Time.Format(n.TimeKind.Layout())))
	case ir.ArrayType:
		st.ws("[")
		for i, v := range n.Values {
			if i > 0 {
				st.ws(", ")
			}
			st.tomlInline(v)
		}
		st.ws("]")
	case ir.ObjectType:
		if !st.feats.InlineTables() {
			st.errf("inline tables disabled, cannot encode nested table in array")
			return
		}
		st.ws("{")
		for i, f := range n.Fields {
			if i > 0 {
				st.ws(", ")
			}
			st.ws(st.pal.key(tomlKey(f.String)))
			st.ws(" = ")
			st.tomlInline(n.Values[i])
		}
		st.ws("}")
	default:
		st.errf("cannot encode %v node", n.Type)
	}
}

func (st *state) tomlString(v string) string {
	if strings.Contains(v, "\n") && st.feats.MultilineStrings() {
		esc := strings.ReplaceAll(v, `\`, `\\`)
		esc = strings.ReplaceAll(esc, `"""`, `""\"`)
		return `"""` + "\n" + esc + `"""`
	}
	return token.Quote(v)
}

func tomlKey(key string) string {
	if token.IsBareKey(key) {
		return key
	}
	return token.Quote(key)
}

func tomlKeyPath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = tomlKey(p)
	}
	return strings.Join(parts, ".")
}
