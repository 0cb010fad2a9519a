package superconfig

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
	"github.com/superscary/superconfig/parse"
)

type appConf struct {
	Name  string `comment:"service name"`
	Port  int
	Debug bool
	Hosts []string
}

var allFormats = []format.Format{
	format.JSONFormat,
	format.JSON5Format,
	format.YAMLFormat,
	format.TOMLFormat,
	format.XMLFormat,
	format.KDLFormat,
}

func TestMarshalUnmarshal(t *testing.T) {
	want := &appConf{Name: "demo", Port: 8080, Debug: true, Hosts: []string{"alpha", "beta"}}
	for _, f := range allFormats {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(f, want)
			if err != nil {
				t.Fatal(err)
			}
			var got appConf
			if err := Unmarshal(f, data, &got); err != nil {
				t.Fatalf("unmarshal %q: %v", data, err)
			}
			if diff := cmp.Diff(want, &got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalCarriesCommentTags(t *testing.T) {
	data, err := Marshal(format.YAMLFormat, &appConf{Name: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# service name") {
		t.Fatalf("comment tag missing:\n%s", data)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	doc := []byte(`{"name": "demo", "retries": 3}`)
	var cfg appConf
	if err := Unmarshal(format.JSONFormat, doc, &cfg); err != nil {
		t.Fatalf("lax unmarshal: %v", err)
	}
	err := UnmarshalStrict(format.JSONFormat, doc, &cfg)
	var oos *parse.OutOfSyncError
	if !errors.As(err, &oos) {
		t.Fatalf("err = %v (%T), want OutOfSyncError", err, err)
	}
	if oos.Field != "retries" {
		t.Fatalf("Field = %q", oos.Field)
	}
	if err := UnmarshalStrict(format.JSONFormat, []byte(`{"name": "demo", "PORT": 1}`), &cfg); err != nil {
		t.Fatalf("case-folded key rejected: %v", err)
	}
}

func TestConvert(t *testing.T) {
	in := []byte(`{"name": "demo", "port": 8080, "hosts": ["alpha", "beta"]}`)
	got, err := Convert(format.JSONFormat, format.YAMLFormat, in)
	if err != nil {
		t.Fatal(err)
	}
	want := `name: demo
port: 8080
hosts:
  - alpha
  - beta
`
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestConvertCarriesComments(t *testing.T) {
	in := []byte("// service name\n{name: 'demo'}\n")
	got, err := Convert(format.JSON5Format, format.YAMLFormat, in)
	if err != nil {
		t.Fatal(err)
	}
	want := "# service name\nname: demo\n"
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeRender(t *testing.T) {
	tree, err := Tree(format.TOMLFormat, []byte("port = 8080\n"))
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(tree, "port"); n == nil || n.Int64 != 8080 {
		t.Fatalf("tree = %+v", tree)
	}
	out, err := Render(format.JSONFormat, tree)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"port\": 8080\n}\n"
	if string(out) != want {
		t.Fatalf("out = %q", out)
	}
}

func TestDiffEqualDocuments(t *testing.T) {
	// Structural equality across dialects and formatting.
	a := []byte(`{"name": "demo", "port": 8080}`)
	b := []byte("name: demo\nport: 8080\n")
	d, err := Diff(format.JSONFormat, a, format.YAMLFormat, b)
	if err != nil {
		t.Fatal(err)
	}
	if d != "" {
		t.Fatalf("diff of equal documents:\n%s", d)
	}
}

func TestDiffChangedValue(t *testing.T) {
	a := []byte("name: demo\nport: 8080\n")
	b := []byte("name: demo\nport: 9090\n")
	d, err := Diff(format.YAMLFormat, a, format.YAMLFormat, b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d, "- ") || !strings.Contains(d, "+ ") {
		t.Fatalf("diff missing change markers:\n%s", d)
	}
	if !strings.Contains(d, "8080") || !strings.Contains(d, "9090") {
		t.Fatalf("diff missing values:\n%s", d)
	}
}

func TestDiffIgnoresComments(t *testing.T) {
	a := []byte("# one\nname: demo\n")
	b := []byte("# another\nname: demo\n")
	d, err := Diff(format.YAMLFormat, a, format.YAMLFormat, b)
	if err != nil {
		t.Fatal(err)
	}
	if d != "" {
		t.Fatalf("comment-only change reported:\n%s", d)
	}
}

func TestPatch(t *testing.T) {
	doc := []byte("name: demo\nport: 8080\n")
	patch := []byte(`[
		{"op": "replace", "path": "/port", "value": 9090},
		{"op": "add", "path": "/debug", "value": true}
	]`)
	got, err := Patch(format.YAMLFormat, doc, patch)
	if err != nil {
		t.Fatal(err)
	}
	var cfg appConf
	if err := Unmarshal(format.YAMLFormat, got, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" || cfg.Port != 9090 || !cfg.Debug {
		t.Fatalf("patched config = %+v from:\n%s", cfg, got)
	}
}

func TestPatchBadOp(t *testing.T) {
	doc := []byte(`{"a": 1}`)
	if _, err := Patch(format.JSONFormat, doc, []byte(`[{"op": "nope", "path": "/a", "value": 2}]`)); err == nil {
		t.Fatal("unknown op succeeded")
	}
	if _, err := Patch(format.JSONFormat, doc, []byte(`[{"op": "remove", "path": "/missing"}]`)); err == nil {
		t.Fatal("remove of a missing path succeeded")
	}
}

func TestMerge(t *testing.T) {
	doc := []byte("a = 1\nb = 2\n")
	patch := []byte(`{"b": null, "c": 3}`)
	got, err := Merge(format.TOMLFormat, doc, format.JSONFormat, patch)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := Tree(format.TOMLFormat, got)
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(tree, "a"); n == nil || n.Int64 != 1 {
		t.Fatalf("a lost:\n%s", got)
	}
	if ir.Get(tree, "b") != nil {
		t.Fatalf("b survived removal:\n%s", got)
	}
	if n := ir.Get(tree, "c"); n == nil || n.Int64 != 3 {
		t.Fatalf("c missing:\n%s", got)
	}
}
