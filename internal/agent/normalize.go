package agent

import (
	"strings"
)

// normalizeSQL strips markdown code fencing a model sometimes wraps around
// generated SQL. Symmetric fences are removed as a pair; a missing closing
// fence strips only the opening line. Malformed fencing is handled
// best-effort, never as an error. The result is whitespace-trimmed and the
// whole operation is idempotent.
func normalizeSQL(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")

		if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[1 : len(lines)-1]
		} else {
			lines = lines[1:]
		}

		s = strings.Join(lines, "\n")
	}

	return strings.TrimSpace(s)
}
