// Package persist mirrors the in-memory project and template collections to a
// durable key-value store and rehydrates them on startup.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vbonduro/fieldshot/internal/domain"
)

// KV is the durable key-value store the adapter writes through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// The three logical keys. Projects and templates are stored as JSON arrays;
// the active project id is stored as a raw string.
const (
	keyProjects      = "projects"
	keyTemplates     = "templates"
	keyActiveProject = "active_project"
)

type Adapter struct {
	kv     KV
	logger *slog.Logger
}

func New(kv KV, logger *slog.Logger) *Adapter {
	return &Adapter{kv: kv, logger: logger}
}

// Save mirrors the full state to storage. Timestamps survive the round trip
// exactly: encoding/json writes time.Time as RFC 3339 with nanoseconds.
// Callers treat a failure as reportable, never as a reason to roll back the
// in-memory mutation that triggered the save.
func (a *Adapter) Save(ctx context.Context, projects []domain.Project, templates []domain.Template, activeProjectID string) error {
	if err := a.setJSON(ctx, keyProjects, projects); err != nil {
		return err
	}
	if err := a.setJSON(ctx, keyTemplates, templates); err != nil {
		return err
	}
	if err := a.kv.Set(ctx, keyActiveProject, []byte(activeProjectID)); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, keyActiveProject, err)
	}
	return nil
}

func (a *Adapter) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, key, err)
	}
	if err := a.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, key, err)
	}
	return nil
}

// Load rehydrates both collections and the active project id. Missing or
// corrupt data is never fatal: the damaged collection is logged and comes
// back empty. An active id that no longer resolves to a loaded project is
// dropped.
func (a *Adapter) Load(ctx context.Context) (projects []domain.Project, templates []domain.Template, activeProjectID string) {
	loadJSON(ctx, a, keyProjects, &projects)
	loadJSON(ctx, a, keyTemplates, &templates)

	raw, ok, err := a.kv.Get(ctx, keyActiveProject)
	if err != nil {
		a.logger.Error("failed to read active project id", "error", err)
	} else if ok {
		activeProjectID = string(raw)
	}

	if activeProjectID != "" {
		found := false
		for _, p := range projects {
			if p.ID == activeProjectID {
				found = true
				break
			}
		}
		if !found {
			a.logger.Warn("active project id does not match any loaded project", "id", activeProjectID)
			activeProjectID = ""
		}
	}

	return projects, templates, activeProjectID
}

func loadJSON[T any](ctx context.Context, a *Adapter, key string, out *[]T) {
	data, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.Error("failed to read stored collection", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		a.logger.Error("stored collection is corrupt, starting empty", "key", key, "error", err)
		*out = nil
	}
}
