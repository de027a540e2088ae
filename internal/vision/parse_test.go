package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain lines",
			raw:  "roof\nfacade\ngutter",
			want: []string{"roof", "facade", "gutter"},
		},
		{
			name: "bullets and numbering stripped",
			raw:  "- roof\n* facade\n1. gutter\n2) downspout",
			want: []string{"roof", "facade", "gutter", "downspout"},
		},
		{
			name: "preamble skipped",
			raw:  "Here are some tags:\nroof\nBased on the photo\nfacade",
			want: []string{"roof", "facade"},
		},
		{
			name: "duplicates and empties dropped",
			raw:  "roof\nroof\n\n!!!\nfacade",
			want: []string{"roof", "facade"},
		},
		{
			name: "capped at eight",
			raw:  "a\nb\nc\nd\ne\nf\ng\nh\ni\nj",
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		},
		{
			name: "empty response",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestParseTagsOutputIsSanitized(t *testing.T) {
	for _, tag := range ParseTags("metal roof!\n wückel\n ok-tag_1") {
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, tag)
	}
}
