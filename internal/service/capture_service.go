package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/fieldshot/internal/domain"
	"github.com/vbonduro/fieldshot/internal/export"
	"github.com/vbonduro/fieldshot/internal/framestore"
	"github.com/vbonduro/fieldshot/internal/manifest"
	"github.com/vbonduro/fieldshot/internal/naming"
	"github.com/vbonduro/fieldshot/internal/store"
	"github.com/vbonduro/fieldshot/internal/vision"
)

// persistence is the subset of the persist adapter the service requires.
type persistence interface {
	Save(ctx context.Context, projects []domain.Project, templates []domain.Template, activeProjectID string) error
	Load(ctx context.Context) (projects []domain.Project, templates []domain.Template, activeProjectID string)
}

// PendingCapture is a framed but uncommitted capture: the payload plus the
// filename the sequencer would assign right now. It is held until the caller
// supplies a note and finalizes, and discarded wholesale on abandon; nothing
// of it reaches the project before finalize.
type PendingCapture struct {
	ProjectID      string    `json:"projectId"`
	Filename       string    `json:"filename"`
	SequenceNumber int       `json:"sequenceNumber"`
	Tags           []string  `json:"tags"`
	MimeType       string    `json:"mimeType"`
	CreatedAt      time.Time `json:"createdAt"`

	payload []byte
}

// CaptureService owns the stores and the active-project reference and
// serializes every mutation behind one lock: each operation is an atomic
// read-modify-write, and a successful mutation is mirrored to storage before
// the lock is released. Persist failures are logged, never rolled back.
type CaptureService struct {
	mu        sync.Mutex
	projects  *store.ProjectStore
	templates *store.TemplateStore
	persist   persistence
	frames    framestore.FrameStore
	exporter  export.Sink      // nil when no export path is configured
	suggester vision.Suggester // nil when no suggestion backend is configured
	logger    *slog.Logger

	activeProjectID string
	pending         *PendingCapture
}

func NewCaptureService(
	projects *store.ProjectStore,
	templates *store.TemplateStore,
	persist persistence,
	frames framestore.FrameStore,
	exporter export.Sink,
	suggester vision.Suggester,
	logger *slog.Logger,
) *CaptureService {
	return &CaptureService{
		projects:  projects,
		templates: templates,
		persist:   persist,
		frames:    frames,
		exporter:  exporter,
		suggester: suggester,
		logger:    logger,
	}
}

// Rehydrate loads both collections and the active-project reference from
// storage. Called once at startup.
func (s *CaptureService) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, templates, active := s.persist.Load(ctx)
	s.projects.Replace(projects)
	s.templates.Replace(templates)
	s.activeProjectID = active
	s.logger.Info("state rehydrated",
		"projects", len(projects),
		"templates", len(templates),
		"active_project", active != "",
	)
}

// save mirrors current state to storage. Callers hold s.mu. Failure is
// reported in the log only; the in-memory mutation stands.
func (s *CaptureService) save(ctx context.Context) {
	if err := s.persist.Save(ctx, s.projects.List(), s.templates.List(), s.activeProjectID); err != nil {
		s.logger.Error("failed to persist state", "error", err)
	}
}

// Templates

func (s *CaptureService) CreateTemplate(ctx context.Context, name string, rawTags []string, description string) (*domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := s.templates.Create(name, rawTags, description)
	if err != nil {
		return nil, err
	}
	s.save(ctx)
	s.logger.Info("template created", "template_id", tpl.ID, "tags", len(tpl.Tags))
	return tpl, nil
}

func (s *CaptureService) DeleteTemplate(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates.Delete(id)
	s.save(ctx)
}

func (s *CaptureService) ListTemplates() []domain.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.List()
}

// Projects

// CreateProject creates a project seeded from a template (templateID set) or
// from a single raw tag, and makes it the active project.
func (s *CaptureService) CreateProject(ctx context.Context, name, templateID, rawTag string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seedTags []string
	if templateID != "" {
		tpl, ok := s.templates.Get(templateID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown template %q", domain.ErrValidation, templateID)
		}
		seedTags = tpl.Tags
	} else {
		tag := naming.Sanitize(rawTag)
		if tag == "" {
			return nil, fmt.Errorf("%w: a template or an initial tag is required", domain.ErrValidation)
		}
		seedTags = []string{tag}
	}

	p, err := s.projects.Create(name, seedTags, templateID)
	if err != nil {
		return nil, err
	}
	s.activeProjectID = p.ID
	s.save(ctx)
	s.logger.Info("project created", "project_id", p.ID, "name", p.Name, "from_template", templateID != "")
	return p, nil
}

// DeleteProject removes the project and its stored frames. If it was the
// active project, the active reference is cleared. Missing ids are a no-op.
func (s *CaptureService) DeleteProject(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects.Get(id)
	if !ok {
		return
	}
	if !s.projects.Delete(id) {
		return
	}
	if s.activeProjectID == id {
		s.activeProjectID = ""
	}
	if s.pending != nil && s.pending.ProjectID == id {
		s.pending = nil
	}
	for _, img := range p.Images {
		if err := s.frames.Delete(ctx, img.PayloadRef); err != nil {
			s.logger.Error("failed to delete frame", "payload_ref", img.PayloadRef, "error", err)
		}
	}
	s.save(ctx)
	s.logger.Info("project deleted", "project_id", id, "images", len(p.Images))
}

func (s *CaptureService) GetProject(id string) (*domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.Get(id)
}

func (s *CaptureService) ListProjects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.List()
}

// SetActiveProject points new captures at the given project.
func (s *CaptureService) SetActiveProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects.Get(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
	}
	s.activeProjectID = id
	s.save(ctx)
	return nil
}

// ActiveProject returns the project currently receiving captures, if any.
func (s *CaptureService) ActiveProject() (*domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProjectID == "" {
		return nil, false
	}
	return s.projects.Get(s.activeProjectID)
}

// Tags

func (s *CaptureService) SetCurrentTags(ctx context.Context, projectID string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.projects.SetCurrentTags(projectID, tags); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

func (s *CaptureService) AddCustomTag(ctx context.Context, projectID, raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, err := s.projects.AddCustomTag(projectID, raw)
	if err != nil {
		return "", err
	}
	s.save(ctx)
	return tag, nil
}

// Capture session

// NextFilename previews the filename the sequencer would assign to a capture
// taken right now with the active project's current selection.
func (s *CaptureService) NextFilename() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeProjectLocked()
	if err != nil {
		return "", err
	}
	if len(p.CurrentTags) == 0 {
		return "", domain.ErrNoTagsSelected
	}
	return naming.Filename(p.CurrentTags, naming.NextSequence(p.Images, p.CurrentTags)), nil
}

// BeginCapture frames a capture from the supplied payload against the active
// project and its current tag selection. The result is held as the pending
// capture until Finalize or Abandon; framing a new capture discards any
// previous pending one.
func (s *CaptureService) BeginCapture(ctx context.Context, payload []byte, mimeType string) (*PendingCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeProjectLocked()
	if err != nil {
		return nil, err
	}
	if len(p.CurrentTags) == 0 {
		return nil, domain.ErrNoTagsSelected
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: frame source produced no image", domain.ErrValidation)
	}

	if s.pending != nil {
		s.logger.Warn("discarding unfinalized capture", "filename", s.pending.Filename)
	}

	seq := naming.NextSequence(p.Images, p.CurrentTags)
	s.pending = &PendingCapture{
		ProjectID:      p.ID,
		Filename:       naming.Filename(p.CurrentTags, seq),
		SequenceNumber: seq,
		Tags:           slices.Clone(p.CurrentTags),
		MimeType:       mimeType,
		CreatedAt:      time.Now(),
		payload:        payload,
	}

	out := *s.pending
	out.Tags = slices.Clone(s.pending.Tags)
	out.payload = nil
	return &out, nil
}

// Pending returns the capture awaiting a note, if any.
func (s *CaptureService) Pending() (*PendingCapture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, false
	}
	out := *s.pending
	out.Tags = slices.Clone(s.pending.Tags)
	out.payload = nil
	return &out, true
}

// Finalize commits the pending capture with the given note. The frame is
// written to the frame store first; if the commit then fails the frame is
// removed again, so the project never sees a partial capture. Sequencing runs
// again at commit time against the live image list.
func (s *CaptureService) Finalize(ctx context.Context, note string) (*domain.CapturedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, fmt.Errorf("%w: no pending capture", domain.ErrValidation)
	}
	pending := s.pending

	if _, ok := s.projects.Get(pending.ProjectID); !ok {
		s.pending = nil
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, pending.ProjectID)
	}

	frameName := fmt.Sprintf("%s/%s", pending.ProjectID, uuid.NewString())
	payloadRef, err := s.frames.Save(ctx, frameName, pending.MimeType, bytes.NewReader(pending.payload))
	if err != nil {
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}

	img, err := s.projects.CommitCapture(pending.ProjectID, pending.Tags, note, payloadRef)
	if err != nil {
		if derr := s.frames.Delete(ctx, payloadRef); derr != nil {
			s.logger.Error("failed to remove frame after commit error", "payload_ref", payloadRef, "error", derr)
		}
		return nil, err
	}

	s.pending = nil
	s.save(ctx)
	s.logger.Info("capture committed",
		"project_id", pending.ProjectID,
		"filename", img.Filename,
		"sequence", img.SequenceNumber,
	)
	return img, nil
}

// Abandon discards the pending capture, if any.
func (s *CaptureService) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.logger.Info("capture abandoned", "filename", s.pending.Filename)
		s.pending = nil
	}
}

// Images

// DeleteImage removes the image and its stored frame. Missing images are a
// no-op; surviving images keep their sequence numbers.
func (s *CaptureService) DeleteImage(ctx context.Context, projectID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.projects.DeleteImage(projectID, imageID)
	if err != nil {
		return err
	}
	if removed == nil {
		return nil
	}
	if err := s.frames.Delete(ctx, removed.PayloadRef); err != nil {
		s.logger.Error("failed to delete frame", "payload_ref", removed.PayloadRef, "error", err)
	}
	s.save(ctx)
	s.logger.Info("image deleted", "project_id", projectID, "filename", removed.Filename)
	return nil
}

// OpenFrame streams the stored payload of an image.
func (s *CaptureService) OpenFrame(ctx context.Context, projectID, imageID string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	p, ok := s.projects.Get(projectID)
	s.mu.Unlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	for _, img := range p.Images {
		if img.ID == imageID {
			return s.frames.Get(ctx, img.PayloadRef)
		}
	}
	return nil, "", fmt.Errorf("%w: image %s", domain.ErrValidation, imageID)
}

// Manifest and export

func (s *CaptureService) Manifest(projectID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects.Get(projectID)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	return manifest.Generate(p), nil
}

// ExportResult reports how an export ended. ManifestOnly is set when the sink
// was unavailable or failed; the manifest text is always populated so the
// caller can offer it as a standalone download.
type ExportResult struct {
	ManifestOnly bool   `json:"manifestOnly"`
	Images       int    `json:"images"`
	Manifest     string `json:"manifest"`
}

// ExportProject hands the project's image payloads and manifest to the export
// sink. Sink failure degrades to a manifest-only result; it never disturbs
// committed project state.
func (s *CaptureService) ExportProject(ctx context.Context, projectID string) (*ExportResult, error) {
	s.mu.Lock()
	p, ok := s.projects.Get(projectID)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}

	text := manifest.Generate(p)
	result := &ExportResult{Images: p.ImageCount, Manifest: text}

	if s.exporter == nil {
		result.ManifestOnly = true
		return result, nil
	}

	files := make([]export.File, 0, len(p.Images))
	readers := make([]io.Closer, 0, len(p.Images))
	defer func() {
		for _, rc := range readers {
			if err := rc.Close(); err != nil {
				s.logger.Error("failed to close frame reader", "error", err)
			}
		}
	}()
	for _, img := range p.Images {
		rc, _, err := s.frames.Get(ctx, img.PayloadRef)
		if err != nil {
			s.logger.Error("failed to open frame for export", "filename", img.Filename, "error", err)
			result.ManifestOnly = true
			return result, nil
		}
		readers = append(readers, rc)
		files = append(files, export.File{Name: img.Filename, Payload: rc})
	}

	if err := s.exporter.Export(ctx, p.Name, files, text); err != nil {
		s.logger.Error("export sink failed, falling back to manifest only", "project_id", projectID, "error", err)
		result.ManifestOnly = true
		return result, nil
	}

	s.logger.Info("project exported", "project_id", projectID, "images", len(files))
	return result, nil
}

// SuggestTags proposes sanitized tag candidates for a frame payload using the
// configured vision backend.
func (s *CaptureService) SuggestTags(ctx context.Context, payload []byte, mimeType string) ([]string, error) {
	if s.suggester == nil {
		return nil, vision.ErrUnavailable
	}
	return s.suggester.Suggest(ctx, bytes.NewReader(payload), mimeType)
}

func (s *CaptureService) activeProjectLocked() (*domain.Project, error) {
	if s.activeProjectID == "" {
		return nil, domain.ErrNoActiveProject
	}
	p, ok := s.projects.Get(s.activeProjectID)
	if !ok {
		return nil, domain.ErrNoActiveProject
	}
	return p, nil
}
