package parse

import (
	"fmt"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

// jsonParser handles both strict JSON and JSON5. Every extension is
// gated on the feature set, so the strict dialect is just the one where
// all gates are shut.
type jsonParser struct {
	s       *token.Scanner
	o       *Opts
	depth   int
	roots   []rootKey
	pending []string
}

func parseJSON(src []byte, o *Opts) (*ir.Node, []rootKey, error) {
	p := &jsonParser{s: token.NewScanner(src), o: o}
	if err := p.skipSpace(); err != nil {
		return nil, nil, err
	}
	res, err := p.value()
	if err != nil {
		return nil, nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, nil, err
	}
	if p.s.More() {
		return nil, nil, p.errHere("trailing content after document")
	}
	return res, p.roots, nil
}

func (p *jsonParser) errHere(msg string, args ...any) error {
	line, col := p.s.Pos()
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

func (p *jsonParser) errAt(line, col int, msg string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

// skipSpace consumes whitespace and, when the dialect permits them,
// comments, stashing comment lines for attachment to the next value.
func (p *jsonParser) skipSpace() error {
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
			if !p.o.feats.Comments() {
				return p.errHere("comments not allowed")
			}
			p.s.Consume("/*")
			if err := p.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *jsonParser) blockComment() error {
	body := ""
	for {
		if !p.s.More() {
			return p.errHere("unterminated block comment")
		}
		if p.s.Consume("*/") {
			break
		}
		body += string(p.s.Next())
	}
	if p.o.comments {
		for _, ln := range splitCommentBlock(body) {
			p.pending = append(p.pending, ln)
		}
	}
	return nil
}

// takePending pops the comment lines collected since the last value.
func (p *jsonParser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

func (p *jsonParser) value() (*ir.Node, error) {
	lead := p.takePending()
	var (
		res *ir.Node
		err error
	)
	switch c := p.s.Peek(); {
	case c == '{':
		res, err = p.object()
	case c == '[':
		res, err = p.array()
	case c == '"':
		res, err = p.string('"')
	case c == '\'' && p.o.feats.SingleQuotes():
		res, err = p.string('\'')
	default:
		res, err = p.word()
	}
	if err != nil {
		return nil, err
	}
	return res.WithComment(lead...), nil
}

func (p *jsonParser) object() (*ir.Node, error) {
	p.s.Next() // {
	res := &ir.Node{Type: ir.ObjectType}
	p.depth++
	defer func() { p.depth-- }()
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if !p.s.More() {
			return nil, p.errHere("unterminated object")
		}
		if p.s.Peek() == '}' {
			p.s.Next()
			if len(res.Fields) == 0 && p.o.comments {
				res.WithComment(p.takePending()...)
			}
			return res, nil
		}
		lead := p.takePending()
		kline, kcol := p.s.Pos()
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		if ir.Get(res, key) != nil {
			return nil, p.errAt(kline, kcol, "duplicate key %q", key)
		}
		if p.depth == 1 {
			p.roots = append(p.roots, rootKey{name: key, line: kline, col: kcol})
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.s.Peek() != ':' {
			return nil, p.errHere("expected ':' after key %q", key)
		}
		p.s.Next()
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		val.WithComment(append(lead, val.CommentLines()...)...)
		ir.Put(res, key, val)
		if err := p.afterElement('}'); err != nil {
			return nil, err
		}
		if p.s.Peek() == '}' {
			p.s.Next()
			return res, nil
		}
	}
}

func (p *jsonParser) array() (*ir.Node, error) {
	p.s.Next() // [
	res := &ir.Node{Type: ir.ArrayType}
	p.depth++
	defer func() { p.depth-- }()
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if !p.s.More() {
			return nil, p.errHere("unterminated array")
		}
		if p.s.Peek() == ']' {
			p.s.Next()
			return res, nil
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		val.Parent = res
		val.ParentIndex = len(res.Values)
		res.Values = append(res.Values, val)
		if err := p.afterElement(']'); err != nil {
			return nil, err
		}
		if p.s.Peek() == ']' {
			p.s.Next()
			return res, nil
		}
	}
}

// afterElement consumes the separator after an element: a comma, or the
// closing bracket left for the caller.
func (p *jsonParser) afterElement(close byte) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	switch p.s.Peek() {
	case ',':
		p.s.Next()
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.s.Peek() == close && !p.o.feats.TrailingCommas() {
			return p.errHere("trailing comma not allowed")
		}
		return nil
	case close:
		return nil
	case 0:
		return p.errHere("unterminated %s", map[byte]string{'}': "object", ']': "array"}[close])
	default:
		return p.errHere("expected ',' or '%c'", close)
	}
}

func (p *jsonParser) key() (string, error) {
	c := p.s.Peek()
	switch {
	case c == '"':
		n, err := p.string('"')
		if err != nil {
			return "", err
		}
		return n.String, nil
	case c == '\'' && p.o.feats.SingleQuotes():
		n, err := p.string('\'')
		if err != nil {
			return "", err
		}
		return n.String, nil
	case isIdentStart(c):
		if !p.o.feats.UnquotedKeys() {
			return "", p.errHere("unquoted key not allowed")
		}
		return p.ident(), nil
	default:
		return "", p.errHere("expected key")
	}
}

func (p *jsonParser) string(quote byte) (*ir.Node, error) {
	line, col := p.s.Pos()
	json5 := p.o.feats.Format().IsJSON5()
	v, err := token.ScanString(p.s, token.QuoteOpts{
		HexByte:          json5,
		LineContinuation: json5 && p.o.feats.MultilineStrings(),
	})
	if err != nil {
		return nil, p.errAt(line, col, "%v", err)
	}
	return ir.FromString(v), nil
}

func (p *jsonParser) word() (*ir.Node, error) {
	line, col := p.s.Pos()
	start := p.s.Offset()
	for isWordChar(p.s.Peek()) {
		p.s.Next()
	}
	lit := p.s.Text(start, p.s.Offset())
	switch lit {
	case "":
		return nil, p.errAt(line, col, "unexpected character %q", string(p.s.Peek()))
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	case "null":
		return ir.Null(), nil
	}
	json5 := p.o.feats.Format().IsJSON5()
	num, err := token.ParseNumber(lit, token.NumberOpts{
		LeadingZeros: p.o.feats.LeadingZeros(),
		LeadingDot:   p.o.feats.LeadingDecimalPoint(),
		TrailingDot:  p.o.feats.LeadingDecimalPoint(),
		HexOctBin:    json5,
		JSInfNaN:     json5,
		PlusSign:     json5,
	})
	if err != nil {
		return nil, p.errAt(line, col, "invalid literal %q", lit)
	}
	if num.IsFloat {
		return ir.FromFloat(num.Float), nil
	}
	return ir.FromInt(num.Int), nil
}

func (p *jsonParser) ident() string {
	start := p.s.Offset()
	for isIdentChar(p.s.Peek()) {
		p.s.Next()
	}
	return p.s.Text(start, p.s.Offset())
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return isIdentChar(c) || c == '+' || c == '-' || c == '.'
}
