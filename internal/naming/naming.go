// Package naming holds the pure tag and filename rules: sanitization of
// free-text tag input, combination keys, and count-based sequence numbers.
package naming

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/fieldshot/internal/domain"
)

// Sanitize reduces free-text tag input to the safe identifier charset.
// Surrounding whitespace is trimmed first, then every character outside
// [A-Za-z0-9_-] is dropped. An empty result means the input was not a usable
// tag; callers must reject it, never store it.
func Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CombinationKey normalizes a tag selection to the key identifying its
// sequence counter: tags sorted lexicographically and joined with "-".
// The caller's slice is left untouched.
func CombinationKey(tags []string) string {
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return strings.Join(sorted, "-")
}

// NextSequence returns the 1-based sequence number for a new capture with the
// given selection: the number of existing images sharing its combination key,
// plus one. It must be recomputed against the live image list on every call;
// deletions change the count, so gaps and repeated numbers are expected and
// the result is only good for naming the next file.
func NextSequence(images []domain.CapturedImage, tags []string) int {
	key := CombinationKey(tags)
	count := 0
	for _, img := range images {
		if CombinationKey(img.Tags) == key {
			count++
		}
	}
	return count + 1
}

// Filename renders the stored name for a capture from its tag selection and
// sequence number, e.g. BLDG-ROOF_0004.jpg.
func Filename(tags []string, sequence int) string {
	return fmt.Sprintf("%s_%04d.jpg", CombinationKey(tags), sequence)
}
