package manager

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/superscary/superconfig/debug"
	"github.com/superscary/superconfig/gomap"
	"github.com/superscary/superconfig/ir"
)

// Expand evaluates ${...} expressions inside string values against the
// rest of the document, so a value can be assembled from its siblings:
//
//	base: /srv/app
//	logs: ${base + "/log"}
//
// A string that is exactly one expression takes the expression's type;
// anything else splices results into the surrounding text.
func Expand(tree *ir.Node) error {
	var env map[string]any
	if err := gomap.FromIR(tree, &env); err != nil {
		return err
	}
	if debug.Expand() {
		debug.Logf("expand env: %v\n", env)
	}
	return tree.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost || n.Type != ir.StringType {
			return true, nil
		}
		return true, expandString(n, env)
	})
}

func expandString(n *ir.Node, env map[string]any) error {
	v := n.String
	if !strings.Contains(v, "${") {
		return nil
	}
	// Whole-string expressions keep the result's type.
	if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") && strings.Count(v, "${") == 1 {
		out, err := expr.Eval(v[2:len(v)-1], env)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", v, err)
		}
		setExpanded(n, out)
		return nil
	}
	var b strings.Builder
	for {
		i := strings.Index(v, "${")
		if i < 0 {
			b.WriteString(v)
			break
		}
		b.WriteString(v[:i])
		rest := v[i+2:]
		j := strings.IndexByte(rest, '}')
		if j < 0 {
			return fmt.Errorf("expanding %q: unclosed ${", n.String)
		}
		out, err := expr.Eval(rest[:j], env)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", n.String, err)
		}
		fmt.Fprintf(&b, "%v", out)
		v = rest[j+1:]
	}
	n.String = b.String()
	return nil
}

func setExpanded(n *ir.Node, out any) {
	switch x := out.(type) {
	case string:
		n.String = x
	case bool:
		n.Type = ir.BoolType
		n.String = ""
		n.Bool = x
	case int:
		n.Type = ir.IntType
		n.String = ""
		n.Int64 = int64(x)
	case int64:
		n.Type = ir.IntType
		n.String = ""
		n.Int64 = x
	case float64:
		n.Type = ir.FloatType
		n.String = ""
		n.Float64 = x
	case nil:
		n.Type = ir.NullType
		n.String = ""
	default:
		n.String = fmt.Sprintf("%v", x)
	}
}
