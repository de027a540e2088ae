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

// TemplateStore holds the reusable tag templates in memory. Persistence is
// layered on top by the persist adapter; the store itself never touches
// storage. Not safe for concurrent use; the service serializes access.
type TemplateStore struct {
	templates []domain.Template

	now   func() time.Time
	newID func() string
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{now: time.Now, newID: uuid.NewString}
}

// Create validates and stores a new template. Raw tags are sanitized,
// duplicates collapsed, and order kept by first occurrence. At least one tag
// must survive sanitization.
func (s *TemplateStore) Create(name string, rawTags []string, description string) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name required", domain.ErrValidation)
	}

	tags := make([]string, 0, len(rawTags))
	for _, raw := range rawTags {
		tag := naming.Sanitize(raw)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: template needs at least one usable tag", domain.ErrValidation)
	}

	t := domain.Template{
		ID:          s.newID(),
		Name:        name,
		Tags:        tags,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	s.templates = append(s.templates, t)
	return cloneTemplate(t), nil
}

// Get returns a copy of the template, or false if it does not exist.
func (s *TemplateStore) Get(id string) (*domain.Template, bool) {
	for _, t := range s.templates {
		if t.ID == id {
			return cloneTemplate(t), true
		}
	}
	return nil, false
}

// List returns copies of all templates in creation order.
func (s *TemplateStore) List() []domain.Template {
	out := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *cloneTemplate(t))
	}
	return out
}

// Delete removes the template if present. Deleting an absent id is a no-op:
// projects hold copies of template tags, so there is nothing to cascade to.
func (s *TemplateStore) Delete(id string) {
	s.templates = slices.DeleteFunc(s.templates, func(t domain.Template) bool {
		return t.ID == id
	})
}

// Replace swaps the full collection, used when rehydrating from storage.
func (s *TemplateStore) Replace(templates []domain.Template) {
	s.templates = make([]domain.Template, 0, len(templates))
	for _, t := range templates {
		s.templates = append(s.templates, *cloneTemplate(t))
	}
}

func cloneTemplate(t domain.Template) *domain.Template {
	c := t
	c.Tags = slices.Clone(t.Tags)
	return &c
}
