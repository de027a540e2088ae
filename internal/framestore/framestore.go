// Package framestore persists raw capture payloads. Image metadata lives in
// the project snapshots; only the bytes go here, addressed by the payload
// reference stored on each image.
package framestore

import (
	"context"
	"io"
)

type FrameStore interface {
	// Save stores the payload under a key derived from name and the payload's
	// MIME type, and returns the final storage key.
	Save(ctx context.Context, name, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
