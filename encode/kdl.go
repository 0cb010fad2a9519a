package encode

import (
	"math"
	"strings"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

func (st *state) kdlDoc(n *ir.Node) {
	if n.Type != ir.ObjectType {
		st.errf("KDL document must be an object, got %v", n.Type)
		return
	}
	st.commentLines(n)
	for i, f := range n.Fields {
		st.kdlNode(f.String, n.Values[i])
	}
}

// kdlNode writes one node: the key becomes the node name, scalars ride
// as arguments, objects become children blocks, and arrays that cannot
// ride as arguments become "item" child nodes.
func (st *state) kdlNode(name string, v *ir.Node) {
	st.commentLines(v)
	st.pad()
	if tag := v.Tag; tag != "" && st.feats.TypeAnnotations() {
		st.ws(st.pal.word("(" + tag + ")"))
	}
	st.ws(st.pal.key(kdlName(name)))
	switch v.Type {
	case ir.NullType:
		st.ws("\n")
	case ir.ObjectType:
		if len(v.Fields) == 0 {
			st.ws(" {\n")
			st.pad()
			st.ws("}\n")
			return
		}
		st.ws(" {\n")
		st.depth++
		for i, f := range v.Fields {
			st.kdlNode(f.String, v.Values[i])
		}
		st.depth--
		st.pad()
		st.ws("}\n")
	case ir.ArrayType:
		if kdlArgsOK(v) {
			for _, e := range v.Values {
				st.ws(" ")
				st.ws(st.kdlScalar(e))
			}
			st.ws("\n")
			return
		}
		st.ws(" {\n")
		st.depth++
		for _, e := range v.Values {
			st.kdlNode("item", e)
		}
		st.depth--
		st.pad()
		st.ws("}\n")
	default:
		st.ws(" ")
		st.ws(st.kdlScalar(v))
		st.ws("\n")
	}
}

// kdlArgsOK reports whether an array can ride as an argument list: more
// than one element, all scalar and non-null.
func kdlArgsOK(v *ir.Node) bool {
	if len(v.Values) < 2 {
		return false
	}
	for _, e := range v.Values {
		if !e.Type.IsScalar() || e.Type == ir.NullType {
			return false
		}
	}
	return true
}

func (st *state) kdlScalar(v *ir.Node) string {
	switch v.Type {
	case ir.NullType:
		return st.pal.word("#null")
	case ir.BoolType:
		if v.Bool {
			return st.pal.word("#true")
		}
		return st.pal.word("#false")
	case ir.IntType:
		return st.pal.num(formatInt(v.Int64))
	case ir.FloatType:
		if !isFinite(v.Float64) {
			switch {
			case math.IsInf(v.Float64, 1):
				return st.pal.num("#inf")
			case math.IsInf(v.Float64, -1):
				return st.pal.num("#-inf")
			default:
				return st.pal.num("#nan")
			}
		}
		return st.pal.num(formatFloat(v.Float64))
	case ir.TimeType:
		return st.pal.str(token.Quote(v.Time.Format(v.TimeKind.Layout())))
	case ir.StringType:
		if st.feats.RawStrings() && strings.Contains(v.String, `\`) && !strings.Contains(v.String, `"`) && !strings.Contains(v.String, "\n") {
			return st.pal.str(`#"` + v.String + `"#`)
		}
		return st.pal.str(token.Quote(v.String))
	default:
		st.errf("cannot encode %v node as KDL value", v.Type)
		return ""
	}
}

func kdlName(v string) string {
	if token.IsBareKey(v) {
		return v
	}
	return token.Quote(v)
}
