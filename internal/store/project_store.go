package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/fieldshot/internal/domain"
	"github.com/vbonduro/fieldshot/internal/naming"
)

// ProjectStore holds the project collection in memory. Every mutation is a
// whole read-modify-write of one project; a rejected operation never leaves a
// project half-changed. Identifiers are UUIDs and never reused. Not safe for
// concurrent use; the service serializes access.
type ProjectStore struct {
	projects []domain.Project

	now   func() time.Time
	newID func() string
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{now: time.Now, newID: uuid.NewString}
}

// Create stores a new project seeded with the given tag vocabulary. The
// caller resolves the seed (a template's tag list, or a single sanitized raw
// tag) before calling; seedTags must already be sanitized and non-empty.
// CurrentTags starts as the full seed.
func (s *ProjectStore) Create(name string, seedTags []string, templateID string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name required", domain.ErrValidation)
	}
	if len(seedTags) == 0 {
		return nil, fmt.Errorf("%w: a template or an initial tag is required", domain.ErrValidation)
	}

	p := domain.Project{
		ID:           s.newID(),
		Name:         name,
		Tags:         slices.Clone(seedTags),
		CurrentTags:  slices.Clone(seedTags),
		LastModified: s.now(),
		TemplateID:   templateID,
	}
	s.projects = append(s.projects, p)
	return cloneProject(p), nil
}

// Get returns a copy of the project, or false if it does not exist.
func (s *ProjectStore) Get(id string) (*domain.Project, bool) {
	if p := s.find(id); p != nil {
		return cloneProject(*p), true
	}
	return nil, false
}

// List returns copies of all projects in creation order.
func (s *ProjectStore) List() []domain.Project {
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *cloneProject(p))
	}
	return out
}

// Delete removes the project if present and reports whether it existed.
// Deleting an absent id is a no-op.
func (s *ProjectStore) Delete(id string) bool {
	before := len(s.projects)
	s.projects = slices.DeleteFunc(s.projects, func(p domain.Project) bool {
		return p.ID == id
	})
	return len(s.projects) != before
}

// SetCurrentTags replaces the project's current selection wholesale. The
// selection must be non-empty and drawn from the project's vocabulary.
func (s *ProjectStore) SetCurrentTags(projectID string, tags []string) error {
	p := s.find(projectID)
	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	if len(tags) == 0 {
		return fmt.Errorf("%w: tag selection must not be empty", domain.ErrValidation)
	}
	for _, tag := range tags {
		if !slices.Contains(p.Tags, tag) {
			return fmt.Errorf("%w: tag %q is not in the project vocabulary", domain.ErrValidation, tag)
		}
	}
	p.CurrentTags = slices.Clone(tags)
	return nil
}

// AddCustomTag sanitizes raw and adds it to the project vocabulary. Adding a
// tag that is already present is a no-op; the current selection is never
// touched. Returns the sanitized tag.
func (s *ProjectStore) AddCustomTag(projectID, raw string) (string, error) {
	p := s.find(projectID)
	if p == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	tag := naming.Sanitize(raw)
	if tag == "" {
		return "", fmt.Errorf("%w: %q has no usable characters", domain.ErrInvalidTag, raw)
	}
	if !slices.Contains(p.Tags, tag) {
		p.Tags = append(p.Tags, tag)
	}
	return tag, nil
}

// CommitCapture appends a new image to the project. The sequence number and
// filename come from the live image list at this instant, so the counter
// reflects any deletions that happened since the capture was framed.
func (s *ProjectStore) CommitCapture(projectID string, tags []string, note, payloadRef string) (*domain.CapturedImage, error) {
	p := s.find(projectID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: capture needs at least one tag", domain.ErrValidation)
	}
	for _, tag := range tags {
		if !slices.Contains(p.Tags, tag) {
			return nil, fmt.Errorf("%w: tag %q is not in the project vocabulary", domain.ErrValidation, tag)
		}
	}

	seq := naming.NextSequence(p.Images, tags)
	img := domain.CapturedImage{
		ID:             s.newID(),
		Filename:       naming.Filename(tags, seq),
		Tags:           slices.Clone(tags),
		Note:           note,
		Timestamp:      s.now(),
		SequenceNumber: seq,
		PayloadRef:     payloadRef,
	}
	p.Images = append(p.Images, img)
	p.ImageCount = len(p.Images)
	p.LastModified = s.now()

	c := img
	c.Tags = slices.Clone(img.Tags)
	return &c, nil
}

// DeleteImage removes the image if present and returns the removed record so
// the caller can release its payload. A missing image is a no-op returning
// nil; surviving images keep their sequence numbers.
func (s *ProjectStore) DeleteImage(projectID, imageID string) (*domain.CapturedImage, error) {
	p := s.find(projectID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			removed := img
			removed.Tags = slices.Clone(img.Tags)
			p.Images = slices.Delete(p.Images, i, i+1)
			p.ImageCount = len(p.Images)
			p.LastModified = s.now()
			return &removed, nil
		}
	}
	return nil, nil
}

// Replace swaps the full collection, used when rehydrating from storage.
func (s *ProjectStore) Replace(projects []domain.Project) {
	s.projects = make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		c := *cloneProject(p)
		// ImageCount is derived; recompute rather than trust stored data.
		c.ImageCount = len(c.Images)
		s.projects = append(s.projects, c)
	}
}

func (s *ProjectStore) find(id string) *domain.Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func cloneProject(p domain.Project) *domain.Project {
	c := p
	c.Tags = slices.Clone(p.Tags)
	c.CurrentTags = slices.Clone(p.CurrentTags)
	c.Images = make([]domain.CapturedImage, len(p.Images))
	for i, img := range p.Images {
		c.Images[i] = img
		c.Images[i].Tags = slices.Clone(img.Tags)
	}
	return &c
}
