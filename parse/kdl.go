package parse

import (
	"fmt"
	"math"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

// kdlItemNode is the node name standing for an anonymous array element.
const kdlItemNode = "item"

// The KDL mapping treats each node as a key: a node with a children
// block becomes an object (properties folded in as keys), a node with
// one argument becomes that scalar, several arguments become an array,
// and a bare node becomes null.
type kdlParser struct {
	s       *token.Scanner
	o       *Opts
	roots   []rootKey
	pending []string
}

func parseKDL(src []byte, o *Opts) (*ir.Node, []rootKey, error) {
	p := &kdlParser{s: token.NewScanner(src), o: o}
	res, err := p.nodes(0)
	if err != nil {
		return nil, nil, err
	}
	finishNodes(res)
	res.WithComment(append(p.takePending(), res.CommentLines()...)...)
	return res, p.roots, nil
}

func (p *kdlParser) errHere(msg string, args ...any) error {
	line, col := p.s.Pos()
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

func (p *kdlParser) errAt(line, col int, msg string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

func (p *kdlParser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

// skipLinespace consumes whitespace, newlines, and comments between
// nodes.
func (p *kdlParser) skipLinespace() error {
	for {
		p.s.SkipWhite()
		switch {
		case p.s.HasPrefix("//"):
			if !p.o.feats.Comments() {
				return p.errHere("comments not allowed")
			}
			p.s.Consume("//")
			line := p.s.Line()
			if p.o.comments {
				p.pending = append(p.pending, trimCommentLine(line))
			}
		case p.s.HasPrefix("/*"):
			if err := p.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *kdlParser) blockComment() error {
	if !p.o.feats.Comments() {
		return p.errHere("comments not allowed")
	}
	p.s.Consume("/*")
	body := ""
	depth := 1
	for depth > 0 {
		if !p.s.More() {
			return p.errHere("unterminated block comment")
		}
		switch {
		case p.s.HasPrefix("/*"):
			p.s.Consume("/*")
			depth++
			body += "/*"
		case p.s.HasPrefix("*/"):
			p.s.Consume("*/")
			depth--
			if depth > 0 {
				body += "*/"
			}
		default:
			body += string(p.s.Next())
		}
	}
	if p.o.comments {
		p.pending = append(p.pending, splitCommentBlock(body)...)
	}
	return nil
}

// nodes parses a run of nodes up to EOF (depth 0) or a closing brace.
func (p *kdlParser) nodes(depth int) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ObjectType}
	for {
		if err := p.skipLinespace(); err != nil {
			return nil, err
		}
		if !p.s.More() {
			if depth > 0 {
				return nil, p.errHere("unterminated children block")
			}
			return res, nil
		}
		if p.s.Peek() == '}' {
			if depth == 0 {
				return nil, p.errHere("unexpected '}'")
			}
			return res, nil
		}
		skip := false
		if p.s.HasPrefix("/-") {
			if !p.o.feats.Slashdash() {
				return nil, p.errHere("slashdash not allowed")
			}
			p.s.Consume("/-")
			p.s.SkipWhite()
			skip = true
		}
		if err := p.node(res, depth, skip); err != nil {
			return nil, err
		}
	}
}

func (p *kdlParser) node(parent *ir.Node, depth int, skip bool) error {
	lead := p.takePending()
	nline, ncol := p.s.Pos()
	tag, err := p.annotation()
	if err != nil {
		return err
	}
	name, err := p.nodeName()
	if err != nil {
		return err
	}

	var (
		args     []*ir.Node
		props    []ir.KeyVal
		children *ir.Node
	)
	for {
		cont, err := p.nodeSpace()
		if err != nil {
			return err
		}
		if !cont {
			break
		}
		c := p.s.Peek()
		if c == '{' {
			p.s.Next()
			children, err = p.nodes(depth + 1)
			if err != nil {
				return err
			}
			if p.s.Peek() != '}' {
				return p.errHere("expected '}'")
			}
			p.s.Next()
			continue
		}
		discard := false
		if p.s.HasPrefix("/-") {
			if !p.o.feats.Slashdash() {
				return p.errHere("slashdash not allowed")
			}
			p.s.Consume("/-")
			p.s.SkipSpaces()
			discard = true
			if p.s.Peek() == '{' {
				p.s.Next()
				if _, err := p.nodes(depth + 1); err != nil {
					return err
				}
				if p.s.Peek() != '}' {
					return p.errHere("expected '}'")
				}
				p.s.Next()
				continue
			}
		}
		key, val, err := p.entry()
		if err != nil {
			return err
		}
		if discard {
			continue
		}
		if key != "" {
			props = append(props, ir.KeyVal{Key: key, Val: val})
		} else {
			args = append(args, val)
		}
	}

	if skip {
		return nil
	}
	val := foldKDLNode(args, props, children)
	val.Tag = tag
	val.WithComment(append(lead, val.CommentLines()...)...)
	if depth == 0 && ir.Get(parent, name) == nil {
		p.roots = append(p.roots, rootKey{name: name, line: nline, col: ncol})
	}
	putRepeated(parent, name, val)
	return nil
}

// putRepeated adds a child node, collapsing repeated names into an
// array.
func putRepeated(parent *ir.Node, name string, val *ir.Node) {
	prev := ir.Get(parent, name)
	if prev == nil {
		ir.Put(parent, name, val)
		return
	}
	if prev.Type == ir.ArrayType && prev.Tag == "repeat" {
		val.Parent = prev
		val.ParentIndex = len(prev.Values)
		prev.Values = append(prev.Values, val)
		return
	}
	arr := ir.FromSlice([]*ir.Node{prev, val})
	arr.Tag = "repeat"
	ir.Put(parent, name, arr)
}

func finishNodes(res *ir.Node) *ir.Node {
	for _, v := range res.Values {
		if v.Tag == "repeat" {
			v.Tag = ""
		}
	}
	return res
}

// foldKDLNode combines a node's arguments, properties, and children
// block into a single value. A children block holding only "item" nodes
// stands for an array, mirroring how the writer renders arrays whose
// elements cannot ride as arguments.
func foldKDLNode(args []*ir.Node, props []ir.KeyVal, children *ir.Node) *ir.Node {
	if children != nil && len(props) == 0 && len(args) == 0 && len(children.Fields) > 0 {
		allItems := true
		for _, f := range children.Fields {
			if f.String != kdlItemNode {
				allItems = false
				break
			}
		}
		if allItems {
			if len(children.Fields) == 1 && children.Values[0].Tag == "repeat" {
				children.Values[0].Tag = ""
				return children.Values[0]
			}
			return ir.FromSlice(children.Values)
		}
	}
	if children != nil || len(props) > 0 {
		res := &ir.Node{Type: ir.ObjectType}
		for _, kv := range props {
			ir.Put(res, kv.Key, kv.Val)
		}
		if children != nil {
			finishNodes(children)
			for i, f := range children.Fields {
				ir.Put(res, f.String, children.Values[i])
			}
			res.Comment = children.Comment
		}
		if len(args) == 1 {
			ir.Put(res, "value", args[0])
		} else if len(args) > 1 {
			ir.Put(res, "value", ir.FromSlice(args))
		}
		return res
	}
	switch len(args) {
	case 0:
		return ir.Null()
	case 1:
		return args[0]
	default:
		return ir.FromSlice(args)
	}
}

// nodeSpace consumes spacing inside a node line. It reports whether the
// node continues on this line, consuming the terminator otherwise.
func (p *kdlParser) nodeSpace() (bool, error) {
	for {
		p.s.SkipSpaces()
		switch {
		case p.s.HasPrefix("\\\r\n"):
			p.s.Consume("\\\r\n")
		case p.s.HasPrefix("\\\n"):
			p.s.Consume("\\\n")
		case p.s.HasPrefix("//"):
			if !p.o.feats.Comments() {
				return false, p.errHere("comments not allowed")
			}
			p.s.Consume("//")
			p.s.Line()
			return false, p.terminator()
		case p.s.HasPrefix("/*"):
			if err := p.blockComment(); err != nil {
				return false, err
			}
		default:
			switch p.s.Peek() {
			case 0, '\n', '\r', ';', '}':
				return false, p.terminator()
			default:
				return true, nil
			}
		}
	}
}

func (p *kdlParser) terminator() error {
	switch p.s.Peek() {
	case '\n', ';':
		p.s.Next()
	case '\r':
		p.s.Next()
		if p.s.Peek() == '\n' {
			p.s.Next()
		}
	case 0, '}':
	}
	return nil
}

// annotation consumes a "(type)" annotation when present.
func (p *kdlParser) annotation() (string, error) {
	if p.s.Peek() != '(' {
		return "", nil
	}
	if !p.o.feats.TypeAnnotations() {
		return "", p.errHere("type annotations not allowed")
	}
	p.s.Next()
	start := p.s.Offset()
	for p.s.More() && p.s.Peek() != ')' {
		p.s.Next()
	}
	if !p.s.More() {
		return "", p.errHere("unterminated type annotation")
	}
	tag := p.s.Text(start, p.s.Offset())
	p.s.Next()
	return tag, nil
}

func (p *kdlParser) nodeName() (string, error) {
	switch {
	case p.s.Peek() == '"':
		line, col := p.s.Pos()
		v, err := token.ScanString(p.s, token.QuoteOpts{UnicodeBrace: true})
		if err != nil {
			return "", p.errAt(line, col, "%v", err)
		}
		return v, nil
	case isKDLIdentStart(p.s.Peek()):
		return p.ident(), nil
	default:
		return "", p.errHere("expected node name")
	}
}

// entry parses one argument or property. key is empty for arguments.
func (p *kdlParser) entry() (string, *ir.Node, error) {
	tag, err := p.annotation()
	if err != nil {
		return "", nil, err
	}
	if isKDLIdentStart(p.s.Peek()) && p.s.Peek() != '-' && p.s.Peek() != '+' && !isDigit(p.s.Peek()) {
		name := p.ident()
		if p.s.Peek() == '=' {
			p.s.Next()
			vtag, err := p.annotation()
			if err != nil {
				return "", nil, err
			}
			val, err := p.value()
			if err != nil {
				return "", nil, err
			}
			val.Tag = vtag
			return name, val, nil
		}
		val, err := p.wordValue(name)
		if err != nil {
			return "", nil, err
		}
		val.Tag = tag
		return "", val, nil
	}
	val, err := p.value()
	if err != nil {
		return "", nil, err
	}
	val.Tag = tag
	return "", val, nil
}

func (p *kdlParser) value() (*ir.Node, error) {
	c := p.s.Peek()
	switch {
	case c == '"':
		line, col := p.s.Pos()
		v, err := token.ScanString(p.s, token.QuoteOpts{UnicodeBrace: true})
		if err != nil {
			return nil, p.errAt(line, col, "%v", err)
		}
		return ir.FromString(v), nil
	case c == '#':
		return p.hashValue()
	case isKDLIdentStart(c) && !isDigit(c) && c != '-' && c != '+':
		return p.wordValue(p.ident())
	default:
		return p.number()
	}
}

// hashValue parses a raw string or one of the #-prefixed keywords.
func (p *kdlParser) hashValue() (*ir.Node, error) {
	line, col := p.s.Pos()
	i := 0
	for p.s.PeekAt(i) == '#' {
		i++
	}
	if p.s.PeekAt(i) == '"' {
		if !p.o.feats.RawStrings() {
			return nil, p.errHere("raw strings not allowed")
		}
		v, err := token.ScanRawString(p.s)
		if err != nil {
			return nil, p.errAt(line, col, "%v", err)
		}
		return ir.FromString(v), nil
	}
	p.s.Next()
	word := p.ident()
	switch word {
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	case "null":
		return ir.Null(), nil
	case "inf":
		return ir.FromFloat(math.Inf(1)), nil
	case "-inf":
		return ir.FromFloat(math.Inf(-1)), nil
	case "nan":
		return ir.FromFloat(math.NaN()), nil
	default:
		return nil, p.errAt(line, col, "unknown keyword #%s", word)
	}
}

func (p *kdlParser) wordValue(word string) (*ir.Node, error) {
	switch word {
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	case "null":
		return ir.Null(), nil
	default:
		return ir.FromString(word), nil
	}
}

func (p *kdlParser) number() (*ir.Node, error) {
	line, col := p.s.Pos()
	start := p.s.Offset()
	for isKDLIdentChar(p.s.Peek()) || p.s.Peek() == '+' {
		p.s.Next()
	}
	lit := p.s.Text(start, p.s.Offset())
	if lit == "" {
		return nil, p.errHere("expected value")
	}
	num, err := token.ParseNumber(lit, token.NumberOpts{
		Underscores:  true,
		HexOctBin:    true,
		PlusSign:     true,
		LeadingZeros: true,
	})
	if err != nil {
		return nil, p.errAt(line, col, "invalid value %q", lit)
	}
	if num.IsFloat {
		return ir.FromFloat(num.Float), nil
	}
	return ir.FromInt(num.Int), nil
}

func (p *kdlParser) ident() string {
	start := p.s.Offset()
	for isKDLIdentChar(p.s.Peek()) {
		p.s.Next()
	}
	return p.s.Text(start, p.s.Offset())
}

func isKDLIdentStart(c byte) bool {
	return isKDLIdentChar(c) && !isDigit(c)
}

func isKDLIdentChar(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\r', '\n', '{', '}', '(', ')', '[', ']', '"', ';', '=', '\\', '/', '#':
		return false
	}
	return c > 0x20
}
