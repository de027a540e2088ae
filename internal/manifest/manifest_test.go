package manifest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/fieldshot/internal/domain"
)

func TestGenerate(t *testing.T) {
	mod := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	taken := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	p := &domain.Project{
		Name:         "Site1",
		Tags:         []string{"BLDG", "ROOF"},
		ImageCount:   2,
		LastModified: mod,
		Images: []domain.CapturedImage{
			{Filename: "ROOF_0001.jpg", Tags: []string{"ROOF"}, Timestamp: taken, Note: "cracked tile"},
			{Filename: "BLDG-ROOF_0001.jpg", Tags: []string{"ROOF", "BLDG"}, Timestamp: taken},
		},
	}

	got := Generate(p)

	want := `Project: Site1
Last modified: 2026-08-30T10:00:00Z
Images: 2
Tags: BLDG, ROOF

ROOF_0001.jpg
  tags: ROOF
  taken: 2026-08-30T09:30:00Z
  note: cracked tile

BLDG-ROOF_0001.jpg
  tags: ROOF, BLDG
  taken: 2026-08-30T09:30:00Z
`
	assert.Equal(t, want, got)
}

func TestGenerate_Deterministic(t *testing.T) {
	p := &domain.Project{
		Name:         "Repeat",
		Tags:         []string{"A"},
		ImageCount:   1,
		LastModified: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Images: []domain.CapturedImage{
			{Filename: "A_0001.jpg", Tags: []string{"A"}, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	assert.Equal(t, Generate(p), Generate(p))
}

func TestGenerate_PreservesImageOrder(t *testing.T) {
	p := &domain.Project{
		Name:         "Ordered",
		Tags:         []string{"Z", "A"},
		ImageCount:   2,
		LastModified: time.Now(),
		Images: []domain.CapturedImage{
			{Filename: "Z_0001.jpg", Tags: []string{"Z"}, Timestamp: time.Now()},
			{Filename: "A_0001.jpg", Tags: []string{"A"}, Timestamp: time.Now()},
		},
	}

	got := Generate(p)
	assert.Less(t, strings.Index(got, "Z_0001.jpg"), strings.Index(got, "A_0001.jpg"))
}

func TestGenerate_EmptyProject(t *testing.T) {
	p := &domain.Project{
		Name:         "Empty",
		Tags:         []string{"ROOF"},
		LastModified: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	got := Generate(p)
	assert.Contains(t, got, "Images: 0")
	assert.NotContains(t, got, ".jpg")
}
