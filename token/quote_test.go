package token

import (
	"errors"
	"testing"
)

func TestScanString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts QuoteOpts
		want string
		e    error
	}{
		{name: "plain", in: `"abc"`, want: "abc"},
		{name: "escapes", in: `"a\n\t\"b\\"`, want: "a\n\t\"b\\"},
		{name: "unicode", in: `"Aé"`, want: "Aé"},
		{name: "unterminated", in: `"abc`, e: ErrUnterminatedString},
		{name: "newline", in: "\"a\nb\"", e: ErrUnterminatedString},
		{name: "newline allowed", in: "\"a\nb\"", opts: QuoteOpts{AllowNewline: true}, want: "a\nb"},
		{name: "bad escape", in: `"\q"`, e: ErrBadEscape},
		{name: "surrogate pair", in: `"\ud83d\ude00"`, want: "\U0001F600"},
		{name: "surrogate pair in text", in: `"a\ud83d\ude00b"`, want: "a\U0001F600b"},
		{name: "lone high surrogate", in: `"\ud83d"`, e: ErrBadEscape},
		{name: "high surrogate before text", in: `"\ud83dx"`, e: ErrBadEscape},
		{name: "mismatched surrogate pair", in: `"\ud83d\u0041"`, e: ErrBadEscape},
		{name: "lone low surrogate", in: `"\ude00"`, e: ErrBadEscape},
		{name: "unicode brace", in: `"\u{1F600}"`, opts: QuoteOpts{UnicodeBrace: true}, want: "\U0001F600"},
		{name: "long unicode", in: `"\U0001F600"`, opts: QuoteOpts{LongUnicode: true}, want: "\U0001F600"},
		{name: "long unicode off", in: `"\U0001F600"`, e: ErrBadEscape},
		{name: "hex byte", in: `"\x41"`, opts: QuoteOpts{HexByte: true}, want: "A"},
		{name: "hex byte off", in: `"\x41"`, e: ErrBadEscape},
		{name: "continuation", in: "\"a\\\n   b\"", opts: QuoteOpts{LineContinuation: true, AllowNewline: true}, want: "ab"},
		{name: "verbatim", in: `'a\nb'`, opts: QuoteOpts{Verbatim: true}, want: `a\nb`},
		{name: "verbatim doubled quote", in: `'it''s'`, opts: QuoteOpts{Verbatim: true}, want: "it's"},
		{name: "single delimited", in: `'ab'`, opts: QuoteOpts{Verbatim: true}, want: "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanString(NewScanner([]byte(tt.in)), tt.opts)
			if tt.e != nil {
				if !errors.Is(err, tt.e) {
					t.Fatalf("err = %v, want %v", err, tt.e)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanTripleString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts QuoteOpts
		want string
	}{
		{name: "trims leading newline", in: "\"\"\"\nab\ncd\"\"\"", want: "ab\ncd"},
		{name: "inline", in: `"""ab"""`, want: "ab"},
		{name: "extra closing quote", in: `"""ab""""`, want: `ab"`},
		{name: "two extra quotes", in: `"""ab"""""`, want: `ab""`},
		{name: "continuation", in: "\"\"\"a\\\n  b\"\"\"", want: "ab"},
		{name: "verbatim", in: "'''a\\nb'''", opts: QuoteOpts{Verbatim: true}, want: `a\nb`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanTripleString(NewScanner([]byte(tt.in)), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanTripleUnterminated(t *testing.T) {
	_, err := ScanTripleString(NewScanner([]byte(`"""ab"`)), QuoteOpts{})
	if !errors.Is(err, ErrUnterminatedString) {
		t.Fatalf("err = %v", err)
	}
}

func TestScanRawString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `#"a\b"#`, want: `a\b`},
		{in: `##"x"# y"##`, want: `x"# y`},
		{in: `#""#`, want: ""},
	}
	for _, tt := range tests {
		got, err := ScanRawString(NewScanner([]byte(tt.in)))
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ScanRawString(NewScanner([]byte(`#"abc`))); !errors.Is(err, ErrUnterminatedString) {
		t.Fatalf("unterminated raw: %v", err)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "abc", want: `"abc"`},
		{in: "a\"b", want: `"a\"b"`},
		{in: "a\nb\t", want: `"a\nb\t"`},
		{in: "back\\slash", want: `"back\\slash"`},
		{in: "\x01", want: "\"\\u0001\""},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Fatalf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := QuoteSingle("it's"); got != `'it\'s'` {
		t.Fatalf("QuoteSingle = %q", got)
	}
}

func TestIsBareKey(t *testing.T) {
	for _, ok := range []string{"abc", "a-b", "a_b", "A9", "1x"} {
		if !IsBareKey(ok) {
			t.Errorf("IsBareKey(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "a b", "a.b", "ключ", "a:b", `a"b`} {
		if IsBareKey(bad) {
			t.Errorf("IsBareKey(%q) = true", bad)
		}
	}
}
