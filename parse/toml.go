package parse

import (
	"fmt"
	"time"

	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/token"
)

type tomlParser struct {
	s       *token.Scanner
	o       *Opts
	root    *ir.Node
	cur     *ir.Node
	roots   []rootKey
	pending []string
}

func parseTOML(src []byte, o *Opts) (*ir.Node, []rootKey, error) {
	root := &ir.Node{Type: ir.ObjectType}
	p := &tomlParser{s: token.NewScanner(src), o: o, root: root, cur: root}
	for {
		if err := p.skipBlank(); err != nil {
			return nil, nil, err
		}
		if !p.s.More() {
			break
		}
		var err error
		if p.s.Peek() == '[' {
			err = p.tableHeader()
		} else {
			err = p.keyValueLine()
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if len(p.pending) > 0 && root.Comment == nil {
		root.WithComment(p.pending...)
	}
	return root, p.roots, nil
}

func (p *tomlParser) errHere(msg string, args ...any) error {
	line, col := p.s.Pos()
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

func (p *tomlParser) errAt(line, col int, msg string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(msg, args...), Line: line, Col: col}
}

// skipBlank consumes blank lines and full-line comments, stashing the
// comment text for the next table or key.
func (p *tomlParser) skipBlank() error {
	for {
		p.s.SkipWhite()
		if p.s.Peek() != '#' {
			return nil
		}
		if !p.o.feats.Comments() {
			return p.errHere("comments not allowed")
		}
		p.s.Next()
		line := p.s.Line()
		if p.o.comments {
			p.pending = append(p.pending, trimCommentLine(line))
		}
	}
}

func (p *tomlParser) takePending() []string {
	res := p.pending
	p.pending = nil
	return res
}

// endOfLine consumes trailing whitespace, an optional trailing comment,
// and the newline.
func (p *tomlParser) endOfLine(attach *ir.Node) error {
	p.s.SkipSpaces()
	if p.s.Peek() == '#' {
		if !p.o.feats.Comments() {
			return p.errHere("comments not allowed")
		}
		p.s.Next()
		line := p.s.Line()
		if p.o.comments && attach != nil {
			attach.WithComment(append(attach.CommentLines(), trimCommentLine(line))...)
		}
	}
	switch p.s.Peek() {
	case '\n':
		p.s.Next()
	case '\r':
		p.s.Next()
		if p.s.Peek() == '\n' {
			p.s.Next()
		}
	case 0:
	default:
		return p.errHere("unexpected content after value")
	}
	return nil
}

func (p *tomlParser) tableHeader() error {
	hline, hcol := p.s.Pos()
	p.s.Next() // [
	isArray := false
	if p.s.Peek() == '[' {
		if !p.o.feats.ArrayOfTables() {
			return p.errHere("array of tables not allowed")
		}
		isArray = true
		p.s.Next()
	}
	p.s.SkipSpaces()
	path, err := p.keyPath()
	if err != nil {
		return err
	}
	p.s.SkipSpaces()
	if p.s.Peek() != ']' {
		return p.errHere("unterminated table header")
	}
	p.s.Next()
	if isArray {
		if p.s.Peek() != ']' {
			return p.errHere("unterminated array-of-tables header")
		}
		p.s.Next()
	}

	p.roots = append(p.roots, rootKey{name: path[0], line: hline, col: hcol + 1})
	parent := p.root
	for _, seg := range path[:len(path)-1] {
		parent, err = p.enterTable(parent, seg, hline, hcol)
		if err != nil {
			return err
		}
	}
	last := path[len(path)-1]
	lead := p.takePending()
	if isArray {
		arr := ir.Get(parent, last)
		if arr == nil {
			arr = &ir.Node{Type: ir.ArrayType}
			ir.Put(parent, last, arr)
		}
		if arr.Type != ir.ArrayType {
			return p.errAt(hline, hcol, "key %q is not an array of tables", last)
		}
		elem := &ir.Node{Type: ir.ObjectType, Parent: arr, ParentIndex: len(arr.Values)}
		elem.WithComment(lead...)
		arr.Values = append(arr.Values, elem)
		p.cur = elem
	} else {
		table := ir.Get(parent, last)
		if table == nil {
			table = &ir.Node{Type: ir.ObjectType}
			ir.Put(parent, last, table)
		}
		if table.Type != ir.ObjectType {
			return p.errAt(hline, hcol, "key %q redefined as table", last)
		}
		table.WithComment(lead...)
		p.cur = table
	}
	return p.endOfLine(p.cur)
}

func (p *tomlParser) enterTable(parent *ir.Node, seg string, line, col int) (*ir.Node, error) {
	next := ir.Get(parent, seg)
	if next == nil {
		next = &ir.Node{Type: ir.ObjectType}
		ir.Put(parent, seg, next)
		return next, nil
	}
	switch next.Type {
	case ir.ObjectType:
		return next, nil
	case ir.ArrayType:
		// Dotted paths through an array of tables address its last
		// element.
		if n := len(next.Values); n > 0 && next.Values[n-1].Type == ir.ObjectType {
			return next.Values[n-1], nil
		}
	}
	return nil, p.errAt(line, col, "key %q is not a table", seg)
}

func (p *tomlParser) keyValueLine() error {
	kline, kcol := p.s.Pos()
	path, err := p.keyPath()
	if err != nil {
		return err
	}
	p.s.SkipSpaces()
	if p.s.Peek() != '=' {
		return p.errHere("expected '=' after key")
	}
	p.s.Next()
	p.s.SkipSpaces()
	val, err := p.value()
	if err != nil {
		return err
	}
	if p.cur == p.root {
		p.roots = append(p.roots, rootKey{name: path[0], line: kline, col: kcol})
	}
	parent := p.cur
	for _, seg := range path[:len(path)-1] {
		parent, err = p.enterTable(parent, seg, kline, kcol)
		if err != nil {
			return err
		}
	}
	last := path[len(path)-1]
	if ir.Get(parent, last) != nil {
		return p.errAt(kline, kcol, "duplicate key %q", last)
	}
	val.WithComment(append(p.takePending(), val.CommentLines()...)...)
	ir.Put(parent, last, val)
	return p.endOfLine(val)
}

// keyPath parses a possibly dotted key: bare or quoted segments joined
// by dots.
func (p *tomlParser) keyPath() ([]string, error) {
	var path []string
	for {
		seg, err := p.keySegment()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
		p.s.SkipSpaces()
		if p.s.Peek() != '.' {
			return path, nil
		}
		p.s.Next()
		p.s.SkipSpaces()
	}
}

func (p *tomlParser) keySegment() (string, error) {
	switch c := p.s.Peek(); {
	case c == '"':
		line, col := p.s.Pos()
		v, err := token.ScanString(p.s, token.QuoteOpts{LongUnicode: true})
		if err != nil {
			return "", p.errAt(line, col, "%v", err)
		}
		return v, nil
	case c == '\'':
		line, col := p.s.Pos()
		v, err := token.ScanString(p.s, token.QuoteOpts{Verbatim: true})
		if err != nil {
			return "", p.errAt(line, col, "%v", err)
		}
		return v, nil
	default:
		start := p.s.Offset()
		for isBareKeyChar(p.s.Peek()) {
			p.s.Next()
		}
		seg := p.s.Text(start, p.s.Offset())
		if seg == "" {
			return "", p.errHere("expected key")
		}
		return seg, nil
	}
}

func (p *tomlParser) value() (*ir.Node, error) {
	switch c := p.s.Peek(); {
	case c == '"':
		return p.basicString()
	case c == '\'':
		return p.literalString()
	case c == '[':
		return p.array()
	case c == '{':
		return p.inlineTable()
	default:
		return p.bareValue()
	}
}

func (p *tomlParser) basicString() (*ir.Node, error) {
	line, col := p.s.Pos()
	if p.s.HasPrefix(`"""`) {
		if !p.o.feats.MultilineStrings() {
			return nil, p.errHere("multiline strings not allowed")
		}
		v, err := token.ScanTripleString(p.s, token.QuoteOpts{LongUnicode: true})
		if err != nil {
			return nil, p.errAt(line, col, "%v", err)
		}
		return ir.FromString(v), nil
	}
	v, err := token.ScanString(p.s, token.QuoteOpts{LongUnicode: true})
	if err != nil {
		return nil, p.errAt(line, col, "%v", err)
	}
	return ir.FromString(v), nil
}

func (p *tomlParser) literalString() (*ir.Node, error) {
	if !p.o.feats.LiteralStrings() {
		return nil, p.errHere("literal strings not allowed")
	}
	line, col := p.s.Pos()
	if p.s.HasPrefix("'''") {
		if !p.o.feats.MultilineStrings() {
			return nil, p.errHere("multiline strings not allowed")
		}
		v, err := token.ScanTripleString(p.s, token.QuoteOpts{Verbatim: true})
		if err != nil {
			return nil, p.errAt(line, col, "%v", err)
		}
		return ir.FromString(v), nil
	}
	v, err := token.ScanString(p.s, token.QuoteOpts{Verbatim: true})
	if err != nil {
		return nil, p.errAt(line, col, "%v", err)
	}
	return ir.FromString(v), nil
}

func (p *tomlParser) array() (*ir.Node, error) {
	p.s.Next() // [
	res := &ir.Node{Type: ir.ArrayType}
	for {
		if err := p.skipBlank(); err != nil {
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
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		switch p.s.Peek() {
		case ',':
			p.s.Next()
		case ']':
		default:
			return nil, p.errHere("expected ',' or ']' in array")
		}
	}
}

func (p *tomlParser) inlineTable() (*ir.Node, error) {
	if !p.o.feats.InlineTables() {
		return nil, p.errHere("inline tables not allowed")
	}
	p.s.Next() // {
	res := &ir.Node{Type: ir.ObjectType}
	p.s.SkipSpaces()
	if p.s.Peek() == '}' {
		p.s.Next()
		return res, nil
	}
	for {
		p.s.SkipSpaces()
		kline, kcol := p.s.Pos()
		path, err := p.keyPath()
		if err != nil {
			return nil, err
		}
		p.s.SkipSpaces()
		if p.s.Peek() != '=' {
			return nil, p.errHere("expected '=' in inline table")
		}
		p.s.Next()
		p.s.SkipSpaces()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		parent := res
		for _, seg := range path[:len(path)-1] {
			parent, err = p.enterTable(parent, seg, kline, kcol)
			if err != nil {
				return nil, err
			}
		}
		if ir.Get(parent, path[len(path)-1]) != nil {
			return nil, p.errAt(kline, kcol, "duplicate key %q", path[len(path)-1])
		}
		ir.Put(parent, path[len(path)-1], val)
		p.s.SkipSpaces()
		switch p.s.Peek() {
		case ',':
			p.s.Next()
		case '}':
			p.s.Next()
			return res, nil
		default:
			return nil, p.errHere("expected ',' or '}' in inline table")
		}
	}
}

// bareValue scans an unquoted token: a boolean, a number, or a date.
func (p *tomlParser) bareValue() (*ir.Node, error) {
	line, col := p.s.Pos()
	start := p.s.Offset()
	for isBareValueChar(p.s.Peek()) {
		p.s.Next()
	}
	lit := p.s.Text(start, p.s.Offset())
	if lit == "" {
		return nil, p.errHere("expected value")
	}
	switch lit {
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	}
	if isDateStart(lit) {
		// A space-separated datetime continues after the date token.
		if len(lit) == 10 && p.s.Peek() == ' ' && isDigit(p.s.PeekAt(1)) && isDigit(p.s.PeekAt(2)) && p.s.PeekAt(3) == ':' {
			p.s.Next()
			tstart := p.s.Offset()
			for isBareValueChar(p.s.Peek()) {
				p.s.Next()
			}
			lit = lit + "T" + p.s.Text(tstart, p.s.Offset())
		}
		return p.dateValue(lit, line, col)
	}
	num, err := token.ParseNumber(lit, token.NumberOpts{
		Underscores:  true,
		HexOctBin:    true,
		InfNaN:       true,
		PlusSign:     true,
		LeadingZeros: p.o.feats.LeadingZeros(),
	})
	if err != nil {
		return nil, p.errAt(line, col, "invalid value %q", lit)
	}
	if num.IsFloat {
		return ir.FromFloat(num.Float), nil
	}
	return ir.FromInt(num.Int), nil
}

func (p *tomlParser) dateValue(lit string, line, col int) (*ir.Node, error) {
	if len(lit) >= 3 && lit[2] == ':' {
		t, err := time.Parse("15:04:05", lit)
		if err != nil {
			return nil, p.errAt(line, col, "invalid time %q", lit)
		}
		return ir.FromTime(t, ir.TimeOnlyKind), nil
	}
	if len(lit) == 10 {
		t, err := time.Parse("2006-01-02", lit)
		if err != nil {
			return nil, p.errAt(line, col, "invalid date %q", lit)
		}
		return ir.FromTime(t, ir.DateKind), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, lit); err == nil {
			return ir.FromTime(t, ir.DateTimeKind), nil
		}
	}
	return nil, p.errAt(line, col, "invalid datetime %q", lit)
}

func isDateStart(lit string) bool {
	if len(lit) >= 10 && lit[4] == '-' && lit[7] == '-' {
		for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
			if !isDigit(lit[i]) {
				return false
			}
		}
		return true
	}
	if len(lit) >= 8 && lit[2] == ':' && isDigit(lit[0]) && isDigit(lit[1]) {
		return true
	}
	return false
}

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func isBareValueChar(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\r', '\n', ',', ']', '}', '#':
		return false
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
