// Package manifest renders a project's metadata and image list as a plain
// text report. The report ships alongside exported image files and doubles as
// the standalone download when the richer export path is unavailable.
package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/vbonduro/fieldshot/internal/domain"
)

// Generate renders the report for p. Output is deterministic for a given
// project: images appear in stored (capture) order and each image's tags in
// their capture-time order, never re-sorted.
func Generate(p *domain.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project: %s\n", p.Name)
	fmt.Fprintf(&b, "Last modified: %s\n", p.LastModified.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Images: %d\n", p.ImageCount)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))

	for _, img := range p.Images {
		b.WriteByte('\n')
		b.WriteString(img.Filename)
		b.WriteByte('\n')
		fmt.Fprintf(&b, "  tags: %s\n", strings.Join(img.Tags, ", "))
		fmt.Fprintf(&b, "  taken: %s\n", img.Timestamp.UTC().Format(time.RFC3339))
		if img.Note != "" {
			fmt.Fprintf(&b, "  note: %s\n", img.Note)
		}
	}

	return b.String()
}
