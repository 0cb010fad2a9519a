package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

func TestParseBadFormat(t *testing.T) {
	if _, err := Parse(format.Format(99), []byte("{}")); !errors.Is(err, format.ErrBadFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestKnownFields(t *testing.T) {
	tests := []struct {
		name  string
		f     format.Format
		in    string
		field string
		line  int
		col   int
	}{
		{
			name:  "json",
			f:     format.JSONFormat,
			in:    `{"a": 1, "c": 2}`,
			field: "c",
			line:  1,
			col:   10,
		},
		{
			name:  "yaml",
			f:     format.YAMLFormat,
			in:    "a: 1\nc: 2\n",
			field: "c",
			line:  2,
			col:   1,
		},
		{
			name:  "toml key",
			f:     format.TOMLFormat,
			in:    "a = 1\nc = 2\n",
			field: "c",
			line:  2,
			col:   1,
		},
		{
			name:  "toml table",
			f:     format.TOMLFormat,
			in:    "a = 1\n[c]\nx = 2\n",
			field: "c",
			line:  2,
			col:   2,
		},
		{
			name:  "xml",
			f:     format.XMLFormat,
			in:    "<config><a>1</a><c>2</c></config>",
			field: "c",
			line:  1,
			col:   17,
		},
		{
			name:  "kdl",
			f:     format.KDLFormat,
			in:    "a 1\nc 2\n",
			field: "c",
			line:  2,
			col:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The same document passes when every key is known.
			if _, err := String(tt.f, tt.in, WithKnownFields("a", "b", "c")); err != nil {
				t.Fatal(err)
			}

			_, err := String(tt.f, tt.in, WithKnownFields("a", "b"))
			var oe *OutOfSyncError
			if !errors.As(err, &oe) {
				t.Fatalf("err = %v (%T), want OutOfSyncError", err, err)
			}
			if !errors.Is(err, ErrOutOfSync) {
				t.Fatal("does not wrap ErrOutOfSync")
			}
			if oe.Field != tt.field {
				t.Fatalf("Field = %q, want %q", oe.Field, tt.field)
			}
			if oe.Line != tt.line || oe.Col != tt.col {
				t.Fatalf("position %d:%d, want %d:%d", oe.Line, oe.Col, tt.line, tt.col)
			}
			if !strings.Contains(err.Error(), `"c"`) {
				t.Fatalf("message %q does not name the field", err.Error())
			}
		})
	}
}

func TestKnownFieldsCaseFolded(t *testing.T) {
	if _, err := String(format.JSONFormat, `{"Name": 1}`, WithKnownFields("name")); err != nil {
		t.Fatal(err)
	}
	if _, err := String(format.JSONFormat, `{"name": 1}`, WithKnownFields("NAME")); err != nil {
		t.Fatal(err)
	}
}

func TestKnownFieldsNestedKeysIgnored(t *testing.T) {
	// Only top-level keys participate in the check.
	in := `{"a": {"private": 1}}`
	if _, err := String(format.JSONFormat, in, WithKnownFields("a")); err != nil {
		t.Fatal(err)
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := String(format.JSONFormat, "{\n  \"a\": ]\n}")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(err.Error(), "2:8:") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestParseTypePreserved(t *testing.T) {
	// The same literal keeps its scalar subtype per dialect.
	got, err := String(format.JSONFormat, `{"a": "123"}`)
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(got, "a"); n.Type != ir.StringType {
		t.Fatalf("quoted number = %+v", n)
	}
	got, err = String(format.JSONFormat, `{"a": 123}`)
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(got, "a"); n.Type != ir.IntType {
		t.Fatalf("bare number = %+v", n)
	}
}
