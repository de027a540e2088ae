// Package export materializes a project's images and manifest as named files.
// The sink may be unavailable in a given deployment; callers fall back to
// offering the manifest text alone and never touch committed project state.
package export

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable means the sink cannot materialize files in this environment.
var ErrUnavailable = errors.New("export sink unavailable")

// File is one named payload destined for the project folder.
type File struct {
	Name    string
	Payload io.Reader
}

// Sink writes the files plus a manifest.txt into a folder named after the
// project. Files keep their given order.
type Sink interface {
	Export(ctx context.Context, projectName string, files []File, manifestText string) error
}
