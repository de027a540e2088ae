package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/fieldshot/internal/export"
)

func TestExportWritesFilesAndManifest(t *testing.T) {
	base := t.TempDir()
	sink, err := NewLocalSink(base)
	require.NoError(t, err)

	files := []export.File{
		{Name: "ROOF_0001.jpg", Payload: strings.NewReader("one")},
		{Name: "ROOF_0002.jpg", Payload: strings.NewReader("two")},
	}
	err = sink.Export(context.Background(), "Site 1", files, "Project: Site 1\n")
	require.NoError(t, err)

	dir := filepath.Join(base, "Site_1")
	one, err := os.ReadFile(filepath.Join(dir, "ROOF_0001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(one))

	m, err := os.ReadFile(filepath.Join(dir, "manifest.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Project: Site 1\n", string(m))
}

func TestExportDuplicateFilenameLastWins(t *testing.T) {
	base := t.TempDir()
	sink, err := NewLocalSink(base)
	require.NoError(t, err)

	// Two live images sharing a basename after a delete-then-recapture.
	files := []export.File{
		{Name: "ROOF_0003.jpg", Payload: strings.NewReader("old")},
		{Name: "ROOF_0003.jpg", Payload: strings.NewReader("new")},
	}
	err = sink.Export(context.Background(), "Dup", files, "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "Dup", "ROOF_0003.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "Site_1", folderName(" Site 1 "))
	assert.Equal(t, "project", folderName("///"))
	assert.Equal(t, "a-b_c", folderName("a-b_c"))
}
