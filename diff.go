package superconfig

import (
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/format"
	"github.com/superscary/superconfig/parse"
)

// Diff renders two documents of possibly different dialects in a
// common canonical form and returns a unified-style text diff, empty
// when the documents are structurally equal.
func Diff(fa format.Format, a []byte, fb format.Format, b []byte) (string, error) {
	ca, err := canonical(fa, a)
	if err != nil {
		return "", err
	}
	cb, err := canonical(fb, b)
	if err != nil {
		return "", err
	}
	if ca == cb {
		return "", nil
	}
	dmp := diffmatchpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(ca, cb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)
	var out []byte
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, ln := range splitKeepLines(d.Text) {
			out = append(out, prefix...)
			out = append(out, ln...)
		}
	}
	return string(out), nil
}

// Patch applies an RFC 6902 JSON patch to a document of any dialect and
// re-renders it in the same dialect.
func Patch(f format.Format, doc, patch []byte) ([]byte, error) {
	c, err := canonical(f, doc)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	patched, err := p.Apply([]byte(c))
	if err != nil {
		return nil, err
	}
	return Convert(format.JSONFormat, f, patched)
}

// Merge applies an RFC 7386 merge patch, with the patch given in any
// dialect.
func Merge(f format.Format, doc []byte, pf format.Format, patch []byte) ([]byte, error) {
	c, err := canonical(f, doc)
	if err != nil {
		return nil, err
	}
	cp, err := canonical(pf, patch)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch([]byte(c), []byte(cp))
	if err != nil {
		return nil, err
	}
	return Convert(format.JSONFormat, f, merged)
}

// canonical renders a document as comment-free JSON for comparison and
// patching.
func canonical(f format.Format, data []byte) (string, error) {
	tree, err := parse.Parse(f, data, parse.WithComments(false))
	if err != nil {
		return "", err
	}
	out, err := encode.Bytes(format.JSONFormat, tree)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitKeepLines(v string) []string {
	var res []string
	for len(v) > 0 {
		i := 0
		for i < len(v) && v[i] != '\n' {
			i++
		}
		if i < len(v) {
			i++
		}
		res = append(res, v[:i])
		v = v[i:]
	}
	if n := len(res); n > 0 && res[n-1] != "" && res[n-1][len(res[n-1])-1] != '\n' {
		res[n-1] += "\n"
	}
	return res
}
