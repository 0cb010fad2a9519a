package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

// The XML mapping wraps the document in a single root element whose
// child elements become the top-level keys. Arrays are elements whose
// children are all named "item"; attributes become "@name" keys and
// mixed text lands under "#text".
const (
	xmlItemElement = "item"
	xmlAttrPrefix  = "@"
	xmlTextKey     = "#text"
)

type xmlParser struct {
	s       *token.Scanner
	o       *Opts
	roots   []rootKey
	pending []string
}

func parseXML(src []byte, o *Opts) (*ir.Node, []rootKey, error) {
	p := &xmlParser{s: token.NewScanner(src), o: o}
	if err := p.prolog(); err != nil {
		return nil, nil, err
	}
	if err := p.skipMisc(); err != nil {
		return nil, nil, err
	}
	if !p.s.More() {
		return nil, nil, p.errHere("missing document element")
	}
	lead := p.takePending()
	_, res, err := p.element(true)
	if err != nil {
		return nil, nil, err
	}
	res.WithComment(append(lead, res.CommentLines()...)...)
	if err := p.skipMisc(); err != nil {
		return nil, nil, err
	}
	if p.s.More() {
		return nil, nil, p.errHere("content after document element")
	}
	return res, p.roots, nil
}

func (p *xmlParser) errHere(msg string, args ...any) error {
	line, col := p.s.Pos()
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

func (p *xmlParser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

func (p *xmlParser) prolog() error {
	p.s.SkipWhite()
	if !p.s.HasPrefix("<?xml") {
		return nil
	}
	for {
		if !p.s.More() {
			return p.errHere("unterminated XML declaration")
		}
		if p.s.Consume("?>") {
			return nil
		}
		p.s.Next()
	}
}

// skipMisc consumes whitespace, comments, and processing instructions
// between markup.
func (p *xmlParser) skipMisc() error {
	for {
		p.s.SkipWhite()
		switch {
		case p.s.HasPrefix("<!--"):
			if !p.o.feats.Comments() {
				return p.errHere("comments not allowed")
			}
			p.s.Consume("<!--")
			body := ""
			for !p.s.Consume("-->") {
				if !p.s.More() {
					return p.errHere("unterminated comment")
				}
				body += string(p.s.Next())
			}
			if p.o.comments {
				p.pending = append(p.pending, splitCommentBlock(body)...)
			}
		case p.s.HasPrefix("<?"):
			if !p.o.feats.ProcessingInstructions() {
				return p.errHere("processing instructions not allowed")
			}
			for !p.s.Consume("?>") {
				if !p.s.More() {
					return p.errHere("unterminated processing instruction")
				}
				p.s.Next()
			}
		default:
			return nil
		}
	}
}

// element parses one element and returns its name and value.
func (p *xmlParser) element(top bool) (string, *ir.Node, error) {
	if p.s.Peek() != '<' {
		return "", nil, p.errHere("expected element")
	}
	p.s.Next()
	name := p.name()
	if name == "" {
		return "", nil, p.errHere("expected element name")
	}
	attrs, err := p.attributes()
	if err != nil {
		return "", nil, err
	}
	p.s.SkipWhite()
	if p.s.Consume("/>") {
		return name, p.withAttrs(ir.Null(), attrs), nil
	}
	if p.s.Peek() != '>' {
		return "", nil, p.errHere("malformed start tag <%s>", name)
	}
	p.s.Next()
	body, err := p.content(name, top)
	if err != nil {
		return "", nil, err
	}
	return name, p.withAttrs(body, attrs), nil
}

// content parses element children up to the matching end tag.
func (p *xmlParser) content(name string, top bool) (*ir.Node, error) {
	var (
		text     strings.Builder
		children []ir.KeyVal
	)
	for {
		if !p.s.More() {
			return nil, p.errHere("unterminated element <%s>", name)
		}
		if p.s.Peek() != '<' {
			text.WriteByte(p.s.Next())
			continue
		}
		if p.s.HasPrefix("</") {
			p.s.Consume("</")
			end := p.name()
			p.s.SkipWhite()
			if p.s.Peek() != '>' || end != name {
				return nil, p.errHere("mismatched end tag </%s>", end)
			}
			p.s.Next()
			return p.fold(name, strings.TrimSpace(text.String()), children)
		}
		if p.s.HasPrefix("<!--") || p.s.HasPrefix("<?") {
			if err := p.skipMisc(); err != nil {
				return nil, err
			}
			continue
		}
		lead := p.takePending()
		cline, ccol := p.s.Pos()
		childName, child, err := p.element(false)
		if err != nil {
			return nil, err
		}
		child.WithComment(append(lead, child.CommentLines()...)...)
		if top {
			p.roots = append(p.roots, rootKey{name: childName, line: cline, col: ccol})
		}
		children = append(children, ir.KeyVal{Key: childName, Val: child})
	}
}

// fold turns collected children and text into a single value: an array
// when every child is an <item>, an object when children exist, a
// scalar otherwise.
func (p *xmlParser) fold(name, text string, children []ir.KeyVal) (*ir.Node, error) {
	if len(children) == 0 {
		return xmlScalar(text), nil
	}
	allItems := true
	for _, kv := range children {
		if kv.Key != xmlItemElement {
			allItems = false
			break
		}
	}
	if allItems {
		vals := make([]*ir.Node, len(children))
		for i, kv := range children {
			vals[i] = kv.Val
		}
		return ir.FromSlice(vals), nil
	}
	res := &ir.Node{Type: ir.ObjectType}
	for _, kv := range children {
		prev := ir.Get(res, kv.Key)
		if prev == nil {
			ir.Put(res, kv.Key, kv.Val)
			continue
		}
		// Repeated sibling names collapse into an array.
		if prev.Type == ir.ArrayType && prev.Tag == "repeat" {
			kv.Val.Parent = prev
			kv.Val.ParentIndex = len(prev.Values)
			prev.Values = append(prev.Values, kv.Val)
			continue
		}
		arr := ir.FromSlice([]*ir.Node{prev, kv.Val})
		arr.Tag = "repeat"
		ir.Put(res, kv.Key, arr)
	}
	for _, v := range res.Values {
		v.Tag = ""
	}
	if text != "" {
		ir.Put(res, xmlTextKey, ir.FromString(text))
	}
	return res, nil
}

func (p *xmlParser) withAttrs(body *ir.Node, attrs []ir.KeyVal) *ir.Node {
	if len(attrs) == 0 {
		return body
	}
	res := &ir.Node{Type: ir.ObjectType}
	for _, kv := range attrs {
		ir.Put(res, xmlAttrPrefix+kv.Key, kv.Val)
	}
	switch body.Type {
	case ir.ObjectType:
		for i, f := range body.Fields {
			ir.Put(res, f.String, body.Values[i])
		}
	case ir.NullType:
	default:
		ir.Put(res, xmlTextKey, body)
	}
	return res
}

func (p *xmlParser) attributes() ([]ir.KeyVal, error) {
	var res []ir.KeyVal
	for {
		p.s.SkipWhite()
		c := p.s.Peek()
		if c == '>' || c == '/' || c == '?' || c == 0 {
			return res, nil
		}
		if !p.o.feats.Attributes() {
			return nil, p.errHere("attributes not allowed")
		}
		name := p.name()
		if name == "" {
			return nil, p.errHere("expected attribute name")
		}
		p.s.SkipWhite()
		if p.s.Peek() != '=' {
			return nil, p.errHere("expected '=' after attribute %q", name)
		}
		p.s.Next()
		p.s.SkipWhite()
		quote := p.s.Peek()
		if quote != '"' && quote != '\'' {
			return nil, p.errHere("expected quoted attribute value")
		}
		p.s.Next()
		start := p.s.Offset()
		for p.s.More() && p.s.Peek() != quote {
			p.s.Next()
		}
		if !p.s.More() {
			return nil, p.errHere("unterminated attribute value")
		}
		raw := p.s.Text(start, p.s.Offset())
		p.s.Next()
		res = append(res, ir.KeyVal{Key: name, Val: ir.FromString(xmlUnescape(raw))})
	}
}

func (p *xmlParser) name() string {
	start := p.s.Offset()
	for isXMLNameChar(p.s.Peek()) {
		p.s.Next()
	}
	return p.s.Text(start, p.s.Offset())
}

func isXMLNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == '.' || c == ':'
}

// xmlScalar recovers the scalar type from element text, since XML keeps
// no type markers of its own.
func xmlScalar(text string) *ir.Node {
	text = xmlUnescape(text)
	switch text {
	case "":
		return ir.Null()
	case "true":
		return ir.FromBool(true)
	case "false":
		return ir.FromBool(false)
	case "null":
		return ir.Null()
	}
	if num, err := token.ParseNumber(text, token.NumberOpts{}); err == nil {
		if num.IsFloat {
			return ir.FromFloat(num.Float)
		}
		return ir.FromInt(num.Int)
	}
	return ir.FromString(text)
}

func xmlUnescape(v string) string {
	if !strings.Contains(v, "&") {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] != '&' {
			b.WriteByte(v[i])
			continue
		}
		end := strings.IndexByte(v[i:], ';')
		if end < 0 {
			b.WriteByte(v[i])
			continue
		}
		ent := v[i+1 : i+end]
		switch {
		case ent == "amp":
			b.WriteByte('&')
		case ent == "lt":
			b.WriteByte('<')
		case ent == "gt":
			b.WriteByte('>')
		case ent == "quot":
			b.WriteByte('"')
		case ent == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(ent, "#x") || strings.HasPrefix(ent, "#X"):
			if n, err := strconv.ParseInt(ent[2:], 16, 32); err == nil {
				b.WriteRune(rune(n))
			}
		case strings.HasPrefix(ent, "#"):
			if n, err := strconv.ParseInt(ent[1:], 10, 32); err == nil {
				b.WriteRune(rune(n))
			}
		default:
			b.WriteByte('&')
			continue
		}
		i += end
	}
	return b.String()
}
