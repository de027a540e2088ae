package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/fieldshot/internal/export"
)

// LocalSink writes exports to per-project folders under a base directory.
type LocalSink struct {
	basePath string
}

func NewLocalSink(basePath string) (*LocalSink, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &LocalSink{basePath: basePath}, nil
}

func (s *LocalSink) Export(ctx context.Context, projectName string, files []export.File, manifestText string) error {
	dir := filepath.Join(s.basePath, folderName(projectName))

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid export path: %w", err)
	}
	if !strings.HasPrefix(absDir, absBase+string(filepath.Separator)) {
		return fmt.Errorf("export path escapes base directory")
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return fmt.Errorf("failed to create project folder: %w", err)
	}

	// Filenames repeat when a deleted sequence number was handed out again;
	// the later payload wins, matching the capture tool's export.
	for _, f := range files {
		if err := writeFile(filepath.Join(absDir, filepath.Base(f.Name)), f.Payload); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := os.WriteFile(filepath.Join(absDir, "manifest.txt"), []byte(manifestText), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// folderName reduces a free-text project name to a safe directory name.
func folderName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}
