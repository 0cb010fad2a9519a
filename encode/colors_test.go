package encode

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/ir"
)

func TestEncodeColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	tree := ir.FromKeyVals(ir.KeyVal{Key: "a", Val: ir.FromInt(1)})
	got := String(format.YAMLFormat, tree, WithColors(true))
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("no ANSI escapes in %q", got)
	}
	if got := String(format.YAMLFormat, tree); strings.Contains(got, "\x1b[") {
		t.Fatalf("escapes without WithColors in %q", got)
	}
}
