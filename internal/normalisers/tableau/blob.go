package tableau

import (
	"regexp"
	"strings"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// TextBlob assembles the lowercase search document for a record.
//
// Parts are ordered title, description, tags, fields, project, owner,
// context sentence. Empty parts are dropped, whitespace runs collapse
// to single spaces and the result is lowercased. Two records built from
// the same metadata carry byte-identical blobs; the store compares
// blobs to decide when an embedding has gone stale.
func TextBlob(title, description string, tags, fields []string, project, owner, context string) string {
	parts := []string{
		title,
		description,
		strings.Join(tags, " "),
		strings.Join(fields, " "),
		project,
		owner,
		context,
	}

	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	blob := strings.Join(kept, " \n ")
	blob = whitespaceRuns.ReplaceAllString(blob, " ")
	return strings.ToLower(blob)
}
