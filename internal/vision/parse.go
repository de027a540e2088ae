package vision

import (
	"slices"
	"strings"

	"github.com/vbonduro/fieldshot/internal/naming"
)

// maxSuggestions caps how many tags a single response may yield, whatever the
// model decided to do with the prompt.
const maxSuggestions = 8

// ParseTags extracts tag suggestions from a model response, one candidate per
// line. Bullets and numbering are stripped, each candidate is sanitized to
// the tag charset, and empties and duplicates are dropped.
func ParseTags(raw string) []string {
	tags := make([]string, 0, maxSuggestions)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Skip preamble the model added despite the prompt.
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "Based on") || strings.Contains(line, ":") {
			continue
		}
		line = strings.TrimLeft(line, "-*0123456789. ")

		tag := naming.Sanitize(line)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxSuggestions {
			break
		}
	}

	return tags
}
