package token

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrBadEscape          = errors.New("bad escape sequence")
)

// QuoteOpts selects which string-literal extensions a dialect permits
// beyond the strict JSON double-quoted form.
type QuoteOpts struct {
	// UnicodeBrace permits \u{X...} with one to six hex digits.
	UnicodeBrace bool
	// LongUnicode permits \UXXXXXXXX with eight hex digits.
	LongUnicode bool
	// HexByte permits \xXX with two hex digits.
	HexByte bool
	// LineContinuation makes a backslash before a newline swallow the
	// newline and following indentation.
	LineContinuation bool
	// Verbatim disables escape processing entirely. Characters are
	// taken as written up to the closing quote; in literals delimited
	// by single quotes, a doubled quote stands for one quote.
	Verbatim bool
	// AllowNewline lets a literal span lines without multiline quoting.
	AllowNewline bool
}

// ScanString consumes a quoted string literal. The scanner must be
// positioned at the opening quote, which also determines the closing
// quote. The returned value has quotes stripped and escapes resolved.
func ScanString(s *Scanner, opts QuoteOpts) (string, error) {
	quote := s.Next()
	var b strings.Builder
	for {
		if !s.More() {
			return "", ErrUnterminatedString
		}
		c := s.Peek()
		switch {
		case c == quote:
			s.Next()
			if opts.Verbatim && quote == '\'' && s.Peek() == '\'' {
				s.Next()
				b.WriteByte('\'')
				continue
			}
			return b.String(), nil
		case c == '\n' && !opts.AllowNewline:
			return "", ErrUnterminatedString
		case c == '\\' && !opts.Verbatim:
			s.Next()
			if err := scanEscape(s, &b, opts); err != nil {
				return "", err
			}
		default:
			b.WriteByte(s.Next())
		}
	}
}

// ScanTripleString consumes a TOML-style multiline literal delimited by
// three quote characters. The scanner must be positioned at the first of
// the three opening quotes. A newline immediately after the opening
// delimiter is trimmed; with escapes enabled a line-ending backslash
// swallows the newline and following indentation.
func ScanTripleString(s *Scanner, opts QuoteOpts) (string, error) {
	quote := s.Peek()
	delim := strings.Repeat(string(quote), 3)
	if !s.Consume(delim) {
		return "", fmt.Errorf("%w: expected %s", ErrBadEscape, delim)
	}
	if s.Peek() == '\r' {
		s.Next()
	}
	if s.Peek() == '\n' {
		s.Next()
	}
	opts.AllowNewline = true
	opts.LineContinuation = true
	var b strings.Builder
	for {
		if !s.More() {
			return "", ErrUnterminatedString
		}
		if s.HasPrefix(delim) {
			// A run of four or five quotes keeps the extras as content.
			extra := 0
			for s.PeekAt(3+extra) == quote && extra < 2 {
				extra++
			}
			for i := 0; i < extra; i++ {
				b.WriteByte(s.Next())
			}
			s.Consume(delim)
			return b.String(), nil
		}
		c := s.Peek()
		if c == '\\' && !opts.Verbatim {
			s.Next()
			if err := scanEscape(s, &b, opts); err != nil {
				return "", err
			}
			continue
		}
		b.WriteByte(s.Next())
	}
}

// ScanRawString consumes a KDL raw string: one or more '#', a double
// quote, verbatim content, a double quote, and a matching run of '#'.
// The scanner must be positioned at the first '#'.
func ScanRawString(s *Scanner) (string, error) {
	hashes := 0
	for s.Peek() == '#' {
		s.Next()
		hashes++
	}
	if s.Peek() != '"' {
		return "", fmt.Errorf("%w: raw string missing opening quote", ErrUnterminatedString)
	}
	s.Next()
	close := `"` + strings.Repeat("#", hashes)
	var b strings.Builder
	for {
		if !s.More() {
			return "", ErrUnterminatedString
		}
		if s.HasPrefix(close) {
			s.Consume(close)
			return b.String(), nil
		}
		b.WriteByte(s.Next())
	}
}

func scanEscape(s *Scanner, b *strings.Builder, opts QuoteOpts) error {
	c := s.Next()
	switch c {
	case '"', '\'', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case '0':
		b.WriteByte(0)
	case 'v':
		b.WriteByte('\v')
	case 'u':
		if opts.UnicodeBrace && s.Peek() == '{' {
			s.Next()
			var hex strings.Builder
			for s.Peek() != '}' {
				if !s.More() || hex.Len() > 6 {
					return fmt.Errorf("%w: unclosed \\u{...}", ErrBadEscape)
				}
				hex.WriteByte(s.Next())
			}
			s.Next()
			return writeHexRune(b, hex.String())
		}
		hex, err := scanHex(s, 4)
		if err != nil {
			return err
		}
		return writeUTF16(s, b, hexRune(hex))
	case 'U':
		if !opts.LongUnicode {
			return fmt.Errorf("%w: \\U", ErrBadEscape)
		}
		hex, err := scanHex(s, 8)
		if err != nil {
			return err
		}
		return writeHexRune(b, hex)
	case 'x':
		if !opts.HexByte {
			return fmt.Errorf("%w: \\x", ErrBadEscape)
		}
		hex, err := scanHex(s, 2)
		if err != nil {
			return err
		}
		return writeHexRune(b, hex)
	case '\r', '\n':
		if !opts.LineContinuation {
			return fmt.Errorf("%w: backslash before newline", ErrBadEscape)
		}
		if c == '\r' && s.Peek() == '\n' {
			s.Next()
		}
		s.SkipWhite()
	default:
		return fmt.Errorf("%w: \\%c", ErrBadEscape, c)
	}
	return nil
}

func scanHex(s *Scanner, n int) (string, error) {
	start := s.Offset()
	for i := 0; i < n; i++ {
		if !isHexDigit(s.Peek()) {
			return "", fmt.Errorf("%w: expected %d hex digits", ErrBadEscape, n)
		}
		s.Next()
	}
	return s.Text(start, s.Offset()), nil
}

func writeHexRune(b *strings.Builder, hex string) error {
	r := hexRune(hex)
	if !utf8.ValidRune(r) {
		return fmt.Errorf("%w: invalid code point U+%X", ErrBadEscape, r)
	}
	b.WriteRune(r)
	return nil
}

func hexRune(hex string) rune {
	var r rune
	for i := 0; i < len(hex); i++ {
		r = r<<4 | rune(hexVal(hex[i]))
	}
	return r
}

// writeUTF16 writes the code unit r, pairing a high surrogate with a
// following \uXXXX low surrogate as strict JSON encodes astral
// characters.
func writeUTF16(s *Scanner, b *strings.Builder, r rune) error {
	if !utf16.IsSurrogate(r) {
		if !utf8.ValidRune(r) {
			return fmt.Errorf("%w: invalid code point U+%X", ErrBadEscape, r)
		}
		b.WriteRune(r)
		return nil
	}
	if s.Peek() == '\\' && s.PeekAt(1) == 'u' {
		s.Next()
		s.Next()
		hex, err := scanHex(s, 4)
		if err != nil {
			return err
		}
		if full := utf16.DecodeRune(r, hexRune(hex)); full != utf8.RuneError {
			b.WriteRune(full)
			return nil
		}
	}
	return fmt.Errorf("%w: unpaired surrogate U+%X", ErrBadEscape, r)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Quote renders v as a double-quoted literal acceptable to a strict JSON
// reader.
func Quote(v string) string {
	return quoteWith(v, '"')
}

// QuoteSingle renders v between single quotes, JSON5-style.
func QuoteSingle(v string) string {
	return quoteWith(v, '\'')
}

func quoteWith(v string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range v {
		switch r {
		case rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// IsBareKey reports whether v can stand unquoted as a key in the
// dialects that allow bare keys.
func IsBareKey(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
