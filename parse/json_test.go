package parse

import (
	"errors"
	"math"
	"testing"

	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{name: "null", in: `null`, want: ir.Null()},
		{name: "true", in: `true`, want: ir.FromBool(true)},
		{name: "int", in: `42`, want: ir.FromInt(42)},
		{name: "float", in: `2.5`, want: ir.FromFloat(2.5)},
		{name: "string", in: `"hi"`, want: ir.FromString("hi")},
		{name: "empty object", in: `{}`, want: ir.FromKeyVals()},
		{name: "empty array", in: `[]`, want: ir.FromSlice(nil)},
		{
			name: "object",
			in:   `{"a": 1, "b": [true, null]}`,
			want: ir.FromKeyVals(
				ir.KeyVal{Key: "a", Val: ir.FromInt(1)},
				ir.KeyVal{Key: "b", Val: ir.FromSlice([]*ir.Node{ir.FromBool(true), ir.Null()})},
			),
		},
		{
			name: "nested",
			in:   `{"a": {"b": {"c": "deep"}}}`,
			want: ir.FromKeyVals(ir.KeyVal{Key: "a", Val: ir.FromKeyVals(
				ir.KeyVal{Key: "b", Val: ir.FromKeyVals(
					ir.KeyVal{Key: "c", Val: ir.FromString("deep")},
				)},
			)}),
		},
		{
			name: "surrounding space",
			in:   "\n\t {\"a\": 1} \n",
			want: ir.FromKeyVals(ir.KeyVal{Key: "a", Val: ir.FromInt(1)}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(format.JSONFormat, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		col  int
	}{
		{name: "missing value", in: `{"a":}`, line: 1, col: 6},
		{name: "unterminated object", in: `{"a": 1`, line: 1, col: 8},
		{name: "unterminated array", in: `[1, 2`, line: 1, col: 6},
		{name: "unterminated string", in: `{"a": "x`, line: 1, col: 7},
		{name: "trailing comma", in: `{"a": 1,}`, line: 1, col: 9},
		{name: "comment", in: "// no\n{}", line: 1, col: 1},
		{name: "single quotes", in: `{'a': 1}`, line: 1, col: 2},
		{name: "unquoted key", in: `{a: 1}`, line: 1, col: 2},
		{name: "duplicate key", in: `{"a": 1, "a": 2}`, line: 1, col: 10},
		{name: "trailing content", in: `{} {}`, line: 1, col: 4},
		{name: "second line", in: "{\"a\": 1,\n\"b\": }", line: 2, col: 6},
		{name: "leading zero", in: `[007]`, line: 1, col: 2},
		{name: "plus sign", in: `[+1]`, line: 1, col: 2},
		{name: "hex", in: `[0x10]`, line: 1, col: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := String(format.JSONFormat, tt.in)
			if err == nil {
				t.Fatal("no error")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v (%T), want SyntaxError", err, err)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Fatal("does not wrap ErrSyntax")
			}
			if se.Line != tt.line || se.Col != tt.col {
				t.Fatalf("position %d:%d, want %d:%d (%v)", se.Line, se.Col, tt.line, tt.col, err)
			}
		})
	}
}

func TestParseJSON5(t *testing.T) {
	in := `// app config
{
  // listener
  name: 'demo',
  port: 0x1F90,
  ratio: .5,
  big: Infinity,
  legacy: +1,
  items: [1, 2,],
}`
	got, err := String(format.JSON5Format, in)
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals(
		ir.KeyVal{Key: "name", Val: ir.FromString("demo")},
		ir.KeyVal{Key: "port", Val: ir.FromInt(8080)},
		ir.KeyVal{Key: "ratio", Val: ir.FromFloat(0.5)},
		ir.KeyVal{Key: "big", Val: ir.FromFloat(math.Inf(1))},
		ir.KeyVal{Key: "legacy", Val: ir.FromInt(1)},
		ir.KeyVal{Key: "items", Val: ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})},
	)
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if lines := got.CommentLines(); len(lines) != 1 || lines[0] != "app config" {
		t.Fatalf("document comments = %v", lines)
	}
	if lines := ir.Get(got, "name").CommentLines(); len(lines) != 1 || lines[0] != "listener" {
		t.Fatalf("name comments = %v", lines)
	}
}

func TestParseJSON5BlockComment(t *testing.T) {
	in := "{\n  /* first\n   * second */\n  a: 1\n}"
	got, err := String(format.JSON5Format, in)
	if err != nil {
		t.Fatal(err)
	}
	lines := ir.Get(got, "a").CommentLines()
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("comments = %v", lines)
	}
}

func TestParseJSONCommentsOff(t *testing.T) {
	in := "// top\n{\n  // about\n  a: 1\n}"
	got, err := String(format.JSON5Format, in, WithComments(false))
	if err != nil {
		t.Fatal(err)
	}
	if got.CommentLines() != nil {
		t.Fatalf("document comments = %v", got.CommentLines())
	}
	if ir.Get(got, "a").CommentLines() != nil {
		t.Fatalf("field comments = %v", ir.Get(got, "a").CommentLines())
	}
}

func TestParseJSONFeatureOverride(t *testing.T) {
	// Strict JSON plus trailing commas, nothing else.
	fs := features.JSON(features.WithTrailingCommas(true))
	if _, err := String(format.JSONFormat, `{"a": 1,}`, WithFeatures(fs)); err != nil {
		t.Fatal(err)
	}
	if _, err := String(format.JSONFormat, `{a: 1,}`, WithFeatures(fs)); err == nil {
		t.Fatal("unquoted key accepted")
	}
}
