package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

// yamlLine is one non-blank source line with its indentation measured
// off.
type yamlLine struct {
	num    int
	indent int
	text   string
}

type yamlParser struct {
	o       *Opts
	lines   []yamlLine
	pos     int
	roots   []rootKey
	pending []string
}

func parseYAML(src []byte, o *Opts) (*ir.Node, []rootKey, error) {
	p := &yamlParser{o: o}
	if err := p.split(src); err != nil {
		return nil, nil, err
	}
	p.skipComments()
	if p.pos >= len(p.lines) {
		return ir.Null().WithComment(p.pending...), nil, nil
	}
	res, err := p.block(p.lines[p.pos].indent, true)
	if err != nil {
		return nil, nil, err
	}
	p.skipComments()
	if p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		return nil, nil, &SyntaxError{Msg: "content after document", Line: ln.num, Col: ln.indent + 1}
	}
	return res, p.roots, nil
}

// split breaks the source into significant lines, dropping blanks and
// document markers.
func (p *yamlParser) split(src []byte) error {
	raw := strings.Split(string(src), "\n")
	for i, ln := range raw {
		ln = strings.TrimRight(ln, "\r")
		indent := 0
		for indent < len(ln) && ln[indent] == ' ' {
			indent++
		}
		text := ln[indent:]
		if text == "" {
			continue
		}
		if indent == 0 && (text == "---" || text == "...") {
			if text == "..." {
				break
			}
			continue
		}
		p.lines = append(p.lines, yamlLine{num: i + 1, indent: indent, text: text})
	}
	return nil
}

func (p *yamlParser) errAt(ln yamlLine, msg string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: ln.num, Col: ln.indent + 1}
}

// skipComments consumes full-line comments, stashing their text.
func (p *yamlParser) skipComments() {
	for p.pos < len(p.lines) && strings.HasPrefix(p.lines[p.pos].text, "#") {
		if p.o.comments {
			p.pending = append(p.pending, trimCommentLine(p.lines[p.pos].text[1:]))
		}
		p.pos++
	}
}

func (p *yamlParser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

// block parses a node starting at the current line, which must be
// indented exactly at indent.
func (p *yamlParser) block(indent int, top bool) (*ir.Node, error) {
	p.skipComments()
	if p.pos >= len(p.lines) || p.lines[p.pos].indent < indent {
		return ir.Null(), nil
	}
	ln := p.lines[p.pos]
	if strings.HasPrefix(ln.text, "- ") || ln.text == "-" {
		return p.sequence(indent)
	}
	if _, _, ok := splitKey(ln.text); ok {
		return p.mapping(indent, top)
	}
	p.pos++
	val, err := p.scalarText(ln, ln.text)
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (p *yamlParser) mapping(indent int, top bool) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ObjectType}
	res.WithComment(p.takePending()...)
	for {
		p.skipComments()
		if p.pos >= len(p.lines) || p.lines[p.pos].indent != indent {
			return res, nil
		}
		ln := p.lines[p.pos]
		if strings.HasPrefix(ln.text, "- ") || ln.text == "-" {
			return res, nil
		}
		lead := p.takePending()
		key, rest, ok := splitKey(ln.text)
		if !ok {
			return nil, p.errAt(ln, "expected 'key:' in mapping")
		}
		if ir.Get(res, key) != nil {
			return nil, p.errAt(ln, "duplicate key %q", key)
		}
		if top {
			p.roots = append(p.roots, rootKey{name: key, line: ln.num, col: ln.indent + 1})
		}
		p.pos++
		val, err := p.mappingValue(ln, indent, rest)
		if err != nil {
			return nil, err
		}
		val.WithComment(append(lead, val.CommentLines()...)...)
		ir.Put(res, key, val)
	}
}

// mappingValue parses what follows "key:" — an inline value, or a nested
// block on the following lines.
func (p *yamlParser) mappingValue(ln yamlLine, indent int, rest string) (*ir.Node, error) {
	rest, trailing := cutComment(rest)
	rest = strings.TrimSpace(rest)
	var tag string
	rest, tag = p.takeAnnotations(rest)
	var res *ir.Node
	switch {
	case rest == "":
		var err error
		res, err = p.nested(indent)
		if err != nil {
			return nil, err
		}
	case rest[0] == '|' || rest[0] == '>':
		res = p.blockScalar(indent, rest)
	default:
		var err error
		res, err = p.scalarText(ln, rest)
		if err != nil {
			return nil, err
		}
	}
	if tag != "" {
		res.Tag = tag
	}
	if trailing != "" && p.o.comments {
		res.WithComment(append(res.CommentLines(), trailing)...)
	}
	return res, nil
}

// nested parses the block under a key with no inline value.
func (p *yamlParser) nested(indent int) (*ir.Node, error) {
	p.skipComments()
	if p.pos >= len(p.lines) {
		return ir.Null(), nil
	}
	next := p.lines[p.pos]
	if next.indent > indent {
		return p.block(next.indent, false)
	}
	// A sequence under a key may sit at the key's own indent.
	if next.indent == indent && (strings.HasPrefix(next.text, "- ") || next.text == "-") {
		return p.sequence(indent)
	}
	return ir.Null(), nil
}

func (p *yamlParser) sequence(indent int) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ArrayType}
	for {
		p.skipComments()
		if p.pos >= len(p.lines) || p.lines[p.pos].indent != indent {
			return res, nil
		}
		ln := p.lines[p.pos]
		if !strings.HasPrefix(ln.text, "- ") && ln.text != "-" {
			return res, nil
		}
		lead := p.takePending()
		rest := strings.TrimPrefix(strings.TrimPrefix(ln.text, "-"), " ")
		var item *ir.Node
		var err error
		if rest == "" {
			p.pos++
			item, err = p.nested(indent)
		} else if _, _, ok := splitKey(rest); ok {
			// Compact mapping entry: rewrite the line as if the first
			// key sat on its own, deeper-indented line.
			inner := ln.indent + (len(ln.text) - len(rest))
			p.lines[p.pos] = yamlLine{num: ln.num, indent: inner, text: rest}
			item, err = p.block(inner, false)
		} else {
			p.pos++
			item, err = p.mappingValue(ln, indent, rest)
		}
		if err != nil {
			return nil, err
		}
		item.WithComment(append(lead, item.CommentLines()...)...)
		item.Parent = res
		item.ParentIndex = len(res.Values)
		res.Values = append(res.Values, item)
	}
}

// takeAnnotations strips a leading anchor or tag off an inline value,
// recording it on the node unresolved.
func (p *yamlParser) takeAnnotations(rest string) (string, string) {
	tag := ""
	for {
		switch {
		case strings.HasPrefix(rest, "&") && p.o.feats.Anchors():
			word, tail := cutWord(rest)
			tag = word
			rest = tail
		case strings.HasPrefix(rest, "!") && p.o.feats.Tags():
			word, tail := cutWord(rest)
			tag = word
			rest = tail
		default:
			return rest, tag
		}
	}
}

// blockScalar collects the indented lines of a literal (|) or folded (>)
// scalar.
func (p *yamlParser) blockScalar(indent int, header string) *ir.Node {
	fold := header[0] == '>'
	keep := strings.Contains(header, "+")
	strip := strings.Contains(header, "-")
	var body []yamlLine
	for p.pos < len(p.lines) && p.lines[p.pos].indent > indent {
		body = append(body, p.lines[p.pos])
		p.pos++
	}
	if len(body) == 0 {
		return ir.FromString("")
	}
	base := body[0].indent
	lines := make([]string, len(body))
	for i, ln := range body {
		pad := ln.indent - base
		if pad < 0 {
			pad = 0
		}
		lines[i] = strings.Repeat(" ", pad) + ln.text
	}
	var v string
	if fold {
		v = strings.Join(lines, " ")
	} else {
		v = strings.Join(lines, "\n")
	}
	switch {
	case strip:
	case keep:
		v += "\n"
	default:
		v += "\n"
	}
	return ir.FromString(v)
}

// scalarText interprets an inline value: a flow collection, a quoted
// string, an alias, or a plain scalar.
func (p *yamlParser) scalarText(ln yamlLine, text string) (*ir.Node, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return ir.Null(), nil
	case text[0] == '[' || text[0] == '{':
		if !p.o.feats.FlowStyle() {
			return nil, p.errAt(ln, "flow style not allowed")
		}
		full, err := p.gatherFlow(ln, text)
		if err != nil {
			return nil, err
		}
		return p.flowValue(ln, token.NewScanner([]byte(full)))
	case text[0] == '"':
		v, err := token.ScanString(token.NewScanner([]byte(text)), token.QuoteOpts{AllowNewline: true})
		if err != nil {
			return nil, p.errAt(ln, "%v", err)
		}
		return ir.FromString(v), nil
	case text[0] == '\'':
		v, err := token.ScanString(token.NewScanner([]byte(text)), token.QuoteOpts{Verbatim: true})
		if err != nil {
			return nil, p.errAt(ln, "%v", err)
		}
		return ir.FromString(v), nil
	case text[0] == '*' && p.o.feats.Anchors():
		return ir.Null().WithTag(text), nil
	default:
		return plainScalar(text), nil
	}
}

// gatherFlow joins continuation lines until brackets balance.
func (p *yamlParser) gatherFlow(ln yamlLine, text string) (string, error) {
	full := text
	for !flowBalanced(full) {
		if p.pos >= len(p.lines) {
			return "", p.errAt(ln, "unterminated flow collection")
		}
		full += " " + p.lines[p.pos].text
		p.pos++
	}
	return full, nil
}

func flowBalanced(v string) bool {
	depth := 0
	inStr := byte(0)
	for i := 0; i < len(v); i++ {
		c := v[i]
		if inStr != 0 {
			if c == '\\' && inStr == '"' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		}
	}
	return depth == 0 && inStr == 0
}

func (p *yamlParser) flowValue(ln yamlLine, s *token.Scanner) (*ir.Node, error) {
	s.SkipWhite()
	switch c := s.Peek(); c {
	case '[':
		s.Next()
		res := &ir.Node{Type: ir.ArrayType}
		for {
			s.SkipWhite()
			if s.Peek() == ']' {
				s.Next()
				return res, nil
			}
			if !s.More() {
				return nil, p.errAt(ln, "unterminated flow sequence")
			}
			v, err := p.flowValue(ln, s)
			if err != nil {
				return nil, err
			}
			v.Parent = res
			v.ParentIndex = len(res.Values)
			res.Values = append(res.Values, v)
			s.SkipWhite()
			if s.Peek() == ',' {
				s.Next()
			}
		}
	case '{':
		s.Next()
		res := &ir.Node{Type: ir.ObjectType}
		for {
			s.SkipWhite()
			if s.Peek() == '}' {
				s.Next()
				return res, nil
			}
			if !s.More() {
				return nil, p.errAt(ln, "unterminated flow mapping")
			}
			key, err := p.flowScalarString(ln, s)
			if err != nil {
				return nil, err
			}
			s.SkipWhite()
			if s.Peek() != ':' {
				return nil, p.errAt(ln, "expected ':' in flow mapping")
			}
			s.Next()
			v, err := p.flowValue(ln, s)
			if err != nil {
				return nil, err
			}
			ir.Put(res, key, v)
			s.SkipWhite()
			if s.Peek() == ',' {
				s.Next()
			}
		}
	case '"':
		v, err := token.ScanString(s, token.QuoteOpts{})
		if err != nil {
			return nil, p.errAt(ln, "%v", err)
		}
		return ir.FromString(v), nil
	case '\'':
		v, err := token.ScanString(s, token.QuoteOpts{Verbatim: true})
		if err != nil {
			return nil, p.errAt(ln, "%v", err)
		}
		return ir.FromString(v), nil
	default:
		start := s.Offset()
		for s.More() && !strings.ContainsRune(",]}:", rune(s.Peek())) {
			s.Next()
		}
		return plainScalar(strings.TrimSpace(s.Text(start, s.Offset()))), nil
	}
}

func (p *yamlParser) flowScalarString(ln yamlLine, s *token.Scanner) (string, error) {
	switch s.Peek() {
	case '"':
		v, err := token.ScanString(s, token.QuoteOpts{})
		if err != nil {
			return "", p.errAt(ln, "%v", err)
		}
		return v, nil
	case '\'':
		v, err := token.ScanString(s, token.QuoteOpts{Verbatim: true})
		if err != nil {
			return "", p.errAt(ln, "%v", err)
		}
		return v, nil
	default:
		start := s.Offset()
		for s.More() && !strings.ContainsRune(",]}:", rune(s.Peek())) {
			s.Next()
		}
		return strings.TrimSpace(s.Text(start, s.Offset())), nil
	}
}

// plainScalar resolves an unquoted scalar per the core schema: null and
// boolean words, numbers, timestamps, and finally strings.
func plainScalar(text string) *ir.Node {
	switch text {
	case "", "~", "null", "Null", "NULL":
		return ir.Null()
	case "true", "True", "TRUE":
		return ir.FromBool(true)
	case "false", "False", "FALSE":
		return ir.FromBool(false)
	}
	if isDateStart(text) {
		if len(text) == 10 {
			if t, err := time.Parse("2006-01-02", text); err == nil {
				return ir.FromTime(t, ir.DateKind)
			}
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, text); err == nil {
				return ir.FromTime(t, ir.DateTimeKind)
			}
		}
	}
	num, err := token.ParseNumber(text, token.NumberOpts{
		HexOctBin:  true,
		InfNaN:     true,
		PlusSign:   true,
		LeadingDot: true,
	})
	if err == nil {
		if num.IsFloat {
			return ir.FromFloat(num.Float)
		}
		return ir.FromInt(num.Int)
	}
	return ir.FromString(text)
}

// splitKey splits "key: rest" respecting quoted keys. ok is false when
// the line is not a mapping entry.
func splitKey(text string) (key, rest string, ok bool) {
	if text == "" {
		return "", "", false
	}
	if text[0] == '"' || text[0] == '\'' {
		s := token.NewScanner([]byte(text))
		opts := token.QuoteOpts{}
		if text[0] == '\'' {
			opts.Verbatim = true
		}
		k, err := token.ScanString(s, opts)
		if err != nil {
			return "", "", false
		}
		tail := text[s.Offset():]
		if !strings.HasPrefix(tail, ":") {
			return "", "", false
		}
		return k, tail[1:], true
	}
	inStr := byte(0)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inStr != 0 {
			if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '#':
			return "", "", false
		case ':':
			if i+1 == len(text) || text[i+1] == ' ' {
				return strings.TrimSpace(text[:i]), text[i+1:], true
			}
		}
	}
	return "", "", false
}

// cutComment splits a trailing " # comment" off an inline value.
func cutComment(text string) (string, string) {
	inStr := byte(0)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inStr != 0 {
			if c == '\\' && inStr == '"' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '#':
			if i == 0 || text[i-1] == ' ' || text[i-1] == '\t' {
				return text[:i], trimCommentLine(text[i+1:])
			}
		}
	}
	return text, ""
}

// cutWord splits the first space-delimited word off text.
func cutWord(text string) (string, string) {
	if i := strings.IndexByte(text, ' '); i >= 0 {
		return text[:i], strings.TrimSpace(text[i+1:])
	}
	return text, ""
}
