package vision

import (
	"context"
	"errors"
	"io"
)

// SuggestPrompt is the shared prompt used by all suggestion backends.
const SuggestPrompt = `Suggest short classification tags for this photo, suitable for
grouping it with similar photos in a field-documentation project.
Respond in plain text, one tag per line, each a single word using only
letters, digits, underscore, or hyphen. At most 8 tags, no commentary.`

// ErrUnavailable means no suggestion backend is configured.
var ErrUnavailable = errors.New("tag suggestion unavailable")

// Suggester proposes tags for a captured frame. Suggestions are advisory:
// they are surfaced to the user and never added to a project automatically.
type Suggester interface {
	Suggest(ctx context.Context, r io.Reader, mimeType string) ([]string, error)
}
