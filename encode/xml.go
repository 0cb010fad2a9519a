package encode

import (
	"strings"

	"github.com/superscary/superconfig/ir"
)

const xmlRootElement = "config"

func (st *state) xmlDoc(n *ir.Node) {
	if st.feats.ProcessingInstructions() {
		st.ws("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}
	st.commentLines(n)
	st.xmlElement(xmlRootElement, n)
}

func (st *state) xmlElement(name string, v *ir.Node) {
	if !isXMLName(name) {
		st.errf("cannot use %q as an XML element name", name)
		return
	}
	switch v.Type {
	case ir.NullType:
		st.pad()
		st.ws("<" + st.pal.key(name) + "/>\n")
	case ir.ArrayType:
		st.pad()
		if len(v.Values) == 0 {
			st.ws("<" + st.pal.key(name) + "/>\n")
			return
		}
		st.ws("<" + st.pal.key(name) + ">\n")
		st.depth++
		for _, e := range v.Values {
			st.commentLines(e)
			st.xmlElement("item", e)
		}
		st.depth--
		st.pad()
		st.ws("</" + st.pal.key(name) + ">\n")
	case ir.ObjectType:
		st.xmlObject(name, v)
	default:
		st.pad()
		st.ws("<" + st.pal.key(name) + ">")
		st.ws(st.xmlScalar(v))
		st.ws("</" + st.pal.key(name) + ">\n")
	}
}

// xmlObject writes an object element: "@" keys as attributes, "#text"
// as character data, everything else as child elements.
func (st *state) xmlObject(name string, v *ir.Node) {
	var (
		attrs    []int
		children []int
		text     *ir.Node
	)
	for i, f := range v.Fields {
		switch {
		case strings.HasPrefix(f.String, "@") && st.feats.Attributes():
			attrs = append(attrs, i)
		case f.String == "#text":
			text = v.Values[i]
		default:
			children = append(children, i)
		}
	}
	st.pad()
	st.ws("<" + st.pal.key(name))
	for _, i := range attrs {
		st.ws(" " + st.pal.key(v.Fields[i].String[1:]) + "=\"")
		st.ws(xmlEscapeAttr(st.xmlScalarText(v.Values[i])))
		st.ws("\"")
	}
	if len(children) == 0 && text == nil {
		st.ws("></" + st.pal.key(name) + ">\n")
		return
	}
	st.ws(">")
	if text != nil {
		st.ws(st.xmlScalar(text))
	}
	if len(children) > 0 {
		st.ws("\n")
		st.depth++
		for _, i := range children {
			st.commentLines(v.Values[i])
			st.xmlElement(v.Fields[i].String, v.Values[i])
		}
		st.depth--
		st.pad()
	}
	st.ws("</" + st.pal.key(name) + ">\n")
}

func (st *state) xmlScalar(v *ir.Node) string {
	return st.pal.str(xmlEscape(st.xmlScalarText(v)))
}

func (st *state) xmlScalarText(v *ir.Node) string {
	switch v.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		if v.Bool {
			return "true"
		}
		return "false"
	case ir.IntType:
		return formatInt(v.Int64)
	case ir.FloatType:
		return formatFloat(v.Float64)
	case ir.TimeType:
		return v.Time.Format(v.TimeKind.Layout())
	case ir.StringType:
		return v.String
	default:
		st.errf("cannot encode %v node as XML text", v.Type)
		return ""
	}
}

func xmlEscape(v string) string {
	v = strings.ReplaceAll(v, "&", "&amp;")
	v = strings.ReplaceAll(v, "<", "&lt;")
	v = strings.ReplaceAll(v, ">", "&gt;")
	return v
}

func xmlEscapeAttr(v string) string {
	return strings.ReplaceAll(xmlEscape(v), "\"", "&quot;")
}

func isXMLName(v string) bool {
	if v == "" || v[0] >= '0' && v[0] <= '9' || v[0] == '-' || v[0] == '.' {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.' || c == ':':
		default:
			return false
		}
	}
	return true
}
