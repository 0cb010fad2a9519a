package parse

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/features"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

func TestParseYAML(t *testing.T) {
	in := `# Deployment config.
name: demo
replicas: 3
debug: false
ratio: 0.5
empty:
hosts:
  - alpha
  - beta
server:
  host: localhost
  tls:
    cert: /etc/certs/demo.pem
servers:
  - name: a
    port: 8001
  - name: b
    port: 8002
`
	got, err := String(format.YAMLFormat, in)
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals(
		ir.KeyVal{Key: "name", Val: ir.FromString("demo")},
		ir.KeyVal{Key: "replicas", Val: ir.FromInt(3)},
		ir.KeyVal{Key: "debug", Val: ir.FromBool(false)},
		ir.KeyVal{Key: "ratio", Val: ir.FromFloat(0.5)},
		ir.KeyVal{Key: "empty", Val: ir.Null()},
		ir.KeyVal{Key: "hosts", Val: ir.FromSlice([]*ir.Node{ir.FromString("alpha"), ir.FromString("beta")})},
		ir.KeyVal{Key: "server", Val: ir.FromKeyVals(
			ir.KeyVal{Key: "host", Val: ir.FromString("localhost")},
			ir.KeyVal{Key: "tls", Val: ir.FromKeyVals(
				ir.KeyVal{Key: "cert", Val: ir.FromString("/etc/certs/demo.pem")},
			)},
		)},
		ir.KeyVal{Key: "servers", Val: ir.FromSlice([]*ir.Node{
			ir.FromKeyVals(
				ir.KeyVal{Key: "name", Val: ir.FromString("a")},
				ir.KeyVal{Key: "port", Val: ir.FromInt(8001)},
			),
			ir.FromKeyVals(
				ir.KeyVal{Key: "name", Val: ir.FromString("b")},
				ir.KeyVal{Key: "port", Val: ir.FromInt(8002)},
			),
		})},
	)
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
	if lines := got.CommentLines(); len(lines) != 1 || lines[0] != "Deployment config." {
		t.Fatalf("document comments = %v", lines)
	}
}

func TestParseYAMLScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{name: "null word", in: "v: null", want: ir.Null()},
		{name: "tilde", in: "v: ~", want: ir.Null()},
		{name: "yes is a string", in: "v: yes", want: ir.FromString("yes")},
		{name: "quoted number", in: `v: "8080"`, want: ir.FromString("8080")},
		{name: "single quoted", in: "v: 'a: b'", want: ir.FromString("a: b")},
		{name: "hex", in: "v: 0x10", want: ir.FromInt(16)},
		{name: "date", in: "v: 2024-05-01", want: ir.FromTime(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ir.DateKind)},
		{name: "trailing comment", in: "v: 7 # lucky", want: ir.FromInt(7)},
		{name: "colon no space is a string", in: "v: a:b", want: ir.FromString("a:b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(format.YAMLFormat, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(ir.Get(got, "v"), tt.want) {
				t.Fatalf("got %+v, want %+v", ir.Get(got, "v"), tt.want)
			}
		})
	}
}

func TestParseYAMLFlow(t *testing.T) {
	got, err := String(format.YAMLFormat, `v: [1, two, {a: 3, "b c": [x]}]`)
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromSlice([]*ir.Node{
		ir.FromInt(1),
		ir.FromString("two"),
		ir.FromKeyVals(
			ir.KeyVal{Key: "a", Val: ir.FromInt(3)},
			ir.KeyVal{Key: "b c", Val: ir.FromSlice([]*ir.Node{ir.FromString("x")})},
		),
	})
	if !ir.Equal(ir.Get(got, "v"), want) {
		t.Fatalf("got %+v, want %+v", ir.Get(got, "v"), want)
	}

	// A flow collection may continue over several lines.
	got, err = String(format.YAMLFormat, "v: [1,\n  2,\n  3]\n")
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(got, "v"); len(n.Values) != 3 {
		t.Fatalf("multi-line flow = %+v", n)
	}

	fs := features.YAML(features.WithFlowStyle(false))
	if _, err := String(format.YAMLFormat, "v: [1]", WithFeatures(fs)); err == nil {
		t.Fatal("flow accepted with FlowStyle off")
	}
}

func TestParseYAMLBlockScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "literal", in: "v: |\n  one\n  two\n", want: "one\ntwo\n"},
		{name: "literal strip", in: "v: |-\n  one\n  two\n", want: "one\ntwo"},
		{name: "folded", in: "v: >\n  one\n  two\n", want: "one two\n"},
		{name: "inner indent", in: "v: |\n  one\n    two\n", want: "one\n  two\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(format.YAMLFormat, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			v := ir.Get(got, "v")
			if v.Type != ir.StringType || v.String != tt.want {
				t.Fatalf("got %+v, want %q", v, tt.want)
			}
		})
	}
}

func TestParseYAMLAnchors(t *testing.T) {
	got, err := String(format.YAMLFormat, "a: &base 5\nb: *base\nc: !custom x\n")
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(got, "a"); n.Int64 != 5 || n.Tag != "&base" {
		t.Fatalf("a = %+v", n)
	}
	if n := ir.Get(got, "b"); n.Type != ir.NullType || n.Tag != "*base" {
		t.Fatalf("b = %+v", n)
	}
	if n := ir.Get(got, "c"); n.String != "x" || n.Tag != "!custom" {
		t.Fatalf("c = %+v", n)
	}

	fs := features.YAML(features.WithAnchors(false), features.WithTags(false))
	got, err = String(format.YAMLFormat, "a: &base 5\n", WithFeatures(fs))
	if err != nil {
		t.Fatal(err)
	}
	// With anchors off the ampersand word reads as a plain string.
	if n := ir.Get(got, "a"); n.Type != ir.StringType {
		t.Fatalf("anchors off: a = %+v", n)
	}
}

func TestParseYAMLDocumentMarkers(t *testing.T) {
	got, err := String(format.YAMLFormat, "---\na: 1\n...\nignored: 2\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Fields) != 1 || ir.Get(got, "a").Int64 != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{name: "duplicate key", in: "a: 1\na: 2\n", line: 2},
		{name: "content after scalar", in: "5\nb: 2\n", line: 2},
		{name: "unterminated flow", in: "a: [1, 2\n", line: 1},
		{name: "unterminated quote", in: "a: \"x\n", line: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := String(format.YAMLFormat, tt.in)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v (%T), want SyntaxError", err, err)
			}
			if se.Line != tt.line {
				t.Fatalf("line = %d, want %d (%v)", se.Line, tt.line, err)
			}
		})
	}
}

// TestParseYAMLOracle cross-checks plain documents against goccy's
// reader, normalizing both trees through encoding/json so integer
// widths do not count.
func TestParseYAMLOracle(t *testing.T) {
	docs := []string{
		"a: 1\nb: text\nc: true\n",
		"top:\n  nested:\n    deep: -3.5\n  other: null\n",
		"list:\n  - 1\n  - two\n  - false\nflow: [1, 2, 3]\n",
		"quoted: \"a b c\"\nnum: 0.5\n",
	}
	for _, doc := range docs {
		tree, err := String(format.YAMLFormat, doc)
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		rendered, err := encode.Bytes(format.JSONFormat, tree)
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		var mine any
		if err := json.Unmarshal(rendered, &mine); err != nil {
			t.Fatalf("%q: %v", doc, err)
		}

		var oracle any
		if err := yaml.Unmarshal([]byte(doc), &oracle); err != nil {
			t.Fatalf("%q: oracle: %v", doc, err)
		}
		oj, err := json.Marshal(oracle)
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		var norm any
		if err := json.Unmarshal(oj, &norm); err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		if diff := cmp.Diff(norm, mine); diff != "" {
			t.Errorf("%q: disagree with oracle (-oracle +ours):\n%s", doc, diff)
		}
	}
}
