package encode

import (
	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

func (st *state) jsonValue(n *ir.Node) {
	switch n.Type {
	case ir.ObjectType:
		st.jsonObject(n)
	case ir.ArrayType:
		st.jsonArray(n)
	default:
		st.jsonScalar(n)
	}
}

func (st *state) jsonObject(n *ir.Node) {
	if len(n.Fields) == 0 {
		st.ws("{}")
		return
	}
	st.ws("{\n")
	st.depth++
	for i, f := range n.Fields {
		v := n.Values[i]
		st.commentLines(v)
		st.pad()
		st.ws(st.pal.key(st.jsonKey(f.String)))
		st.ws(": ")
		st.jsonValue(v)
		if i < len(n.Fields)-1 {
			st.ws(",")
		}
		st.ws("\n")
	}
	st.depth--
	st.pad()
	st.ws("}")
}

func (st *state) jsonArray(n *ir.Node) {
	if len(n.Values) == 0 {
		st.ws("[]")
		return
	}
	st.ws("[\n")
	st.depth++
	for i, v := range n.Values {
		st.commentLines(v)
		st.pad()
		st.jsonValue(v)
		if i < len(n.Values)-1 {
			st.ws(",")
		}
		st.ws("\n")
	}
	st.depth--
	st.pad()
	st.ws("]")
}

func (st *state) jsonKey(key string) string {
	if st.feats.UnquotedKeys() && token.IsBareKey(key) {
		return key
	}
	return token.Quote(key)
}

func (st *state) jsonScalar(n *ir.Node) {
	switch n.Type {
	case ir.NullType:
		st.ws(st.pal.word("null"))
	case ir.BoolType:
		if n.Bool {
			st.ws(st.pal.word("true"))
		} else {
			st.ws(st.pal.word("false"))
		}
	case ir.IntType:
		st.ws(st.pal.num(formatInt(n.Int64)))
	case ir.FloatType:
		if !isFinite(n.Float64) {
			if !st.feats.Format().IsJSON5() {
				st.errf("cannot represent %v in JSON", n.Float64)
				return
			}
			st.ws(st.pal.num(jsNonFinite(n.Float64)))
			return
		}
		st.ws(st.pal.num(formatFloat(n.Float64)))
	case ir.StringType:
		st.ws(st.pal.str(token.Quote(n.String)))
	case ir.TimeType:
		st.ws(st.pal.str(token.Quote(n.Time.Format(n.TimeKind.Layout()))))
	default:
		st.errf("cannot encode %v node", n.Type)
	}
}

func jsNonFinite(f float64) string {
	switch {
	case f > 0:
		return "Infinity"
	case f < 0:
		return "-Infinity"
	default:
		return "NaN"
	}
}
