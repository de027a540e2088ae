package domain

import "errors"

// Error kinds surfaced by the stores and the capture service. Callers match
// with errors.Is; none of these is fatal to the running session, and a
// rejected operation never leaves a store partially mutated.
var (
	// ErrValidation means a required field was empty or malformed. The
	// operation was rejected without any state change.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTag means tag sanitization left nothing usable.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrProjectNotFound means the referenced project does not exist
	// (possibly deleted).
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoActiveProject means a capture was attempted with no project
	// selected to receive it.
	ErrNoActiveProject = errors.New("no active project")

	// ErrNoTagsSelected means a capture was attempted with an empty tag
	// selection.
	ErrNoTagsSelected = errors.New("no tags selected")

	// ErrPersistence wraps storage read/write failures. Persistence failures
	// are reported but never roll back in-memory state.
	ErrPersistence = errors.New("persistence failure")
)
