package token

// Scanner walks a byte slice one character at a time, tracking the 1-based
// line and column of the next unread byte. All dialect parsers in this
// module share it, so every error they report carries the same position
// semantics.
type Scanner struct {
	src  []byte
	off  int
	line int
	col  int
}

func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// More reports whether unread input remains.
func (s *Scanner) More() bool {
	return s.off < len(s.src)
}

// Peek returns the next unread byte without consuming it, 0 at end of
// input.
func (s *Scanner) Peek() byte {
	if s.off >= len(s.src) {
		return 0
	}
	return s.src[s.off]
}

// PeekAt returns the byte n positions past the next unread byte, 0 when
// that runs off the end.
func (s *Scanner) PeekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

// Next consumes and returns one byte, 0 at end of input.
func (s *Scanner) Next() byte {
	if s.off >= len(s.src) {
		return 0
	}
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// Pos returns the line and column of the next unread byte.
func (s *Scanner) Pos() (line, col int) {
	return s.line, s.col
}

// Offset returns the byte offset of the next unread byte.
func (s *Scanner) Offset() int {
	return s.off
}

// Text returns the source bytes between two offsets.
func (s *Scanner) Text(from, to int) string {
	return string(s.src[from:to])
}

// HasPrefix reports whether the unread input starts with lit.
func (s *Scanner) HasPrefix(lit string) bool {
	if s.off+len(lit) > len(s.src) {
		return false
	}
	return string(s.src[s.off:s.off+len(lit)]) == lit
}

// Consume consumes lit when it prefixes the unread input.
func (s *Scanner) Consume(lit string) bool {
	if !s.HasPrefix(lit) {
		return false
	}
	for range lit {
		s.Next()
	}
	return true
}

// SkipSpaces consumes spaces and tabs, returning how many were consumed.
func (s *Scanner) SkipSpaces() int {
	n := 0
	for {
		switch s.Peek() {
		case ' ', '\t':
			s.Next()
			n++
		default:
			return n
		}
	}
}

// SkipWhite consumes spaces, tabs, carriage returns, and newlines.
func (s *Scanner) SkipWhite() {
	for {
		switch s.Peek() {
		case ' ', '\t', '\r', '\n':
			s.Next()
		default:
			return
		}
	}
}

// Line consumes input up to, but not including, the next newline and
// returns it with any trailing carriage return removed.
func (s *Scanner) Line() string {
	start := s.off
	for s.More() && s.Peek() != '\n' {
		s.Next()
	}
	res := s.src[start:s.off]
	if n := len(res); n > 0 && res[n-1] == '\r' {
		res = res[:n-1]
	}
	return string(res)
}
