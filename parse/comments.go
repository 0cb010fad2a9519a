package parse

import "strings"

// trimCommentLine normalizes a comment body: one leading space is
// dropped, trailing whitespace is removed.
func trimCommentLine(v string) string {
	v = strings.TrimRight(v, " \t\r")
	return strings.TrimPrefix(v, " ")
}

// splitCommentBlock breaks a block-comment body into normalized lines,
// stripping the decorative leading '*' that block comments often carry.
func splitCommentBlock(body string) []string {
	raw := strings.Split(body, "\n")
	res := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		ln = strings.TrimPrefix(ln, "*")
		ln = strings.TrimPrefix(ln, " ")
		if ln == "" && (len(res) == 0 || len(raw) == 1) {
			continue
		}
		res = append(res, ln)
	}
	for len(res) > 0 && res[len(res)-1] == "" {
		res = res[:len(res)-1]
	}
	return res
}
