package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/fieldshot/internal/domain"
	"github.com/vbonduro/fieldshot/internal/service"
	"github.com/vbonduro/fieldshot/internal/vision"
)

// Server is the JSON API surface in front of the capture service. All state
// logic lives in the service; handlers only decode requests, map errors to
// status codes, and encode responses.
type Server struct {
	service *service.CaptureService
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.CaptureService, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	s.mux.HandleFunc("POST /api/projects/{id}/activate", s.handleActivateProject)
	s.mux.HandleFunc("GET /api/projects/active", s.handleActiveProject)
	s.mux.HandleFunc("PUT /api/projects/{id}/tags/current", s.handleSetCurrentTags)
	s.mux.HandleFunc("POST /api/projects/{id}/tags", s.handleAddCustomTag)
	s.mux.HandleFunc("DELETE /api/projects/{id}/images/{imageId}", s.handleDeleteImage)
	s.mux.HandleFunc("GET /api/projects/{id}/images/{imageId}/payload", s.handleGetFrame)
	s.mux.HandleFunc("GET /api/projects/{id}/manifest", s.handleManifest)
	s.mux.HandleFunc("POST /api/projects/{id}/export", s.handleExport)

	s.mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	s.mux.HandleFunc("POST /api/templates", s.handleCreateTemplate)
	s.mux.HandleFunc("DELETE /api/templates/{id}", s.handleDeleteTemplate)

	s.mux.HandleFunc("GET /api/capture/next", s.handleNextFilename)
	s.mux.HandleFunc("POST /api/capture", s.handleBeginCapture)
	s.mux.HandleFunc("GET /api/capture/pending", s.handlePendingCapture)
	s.mux.HandleFunc("POST /api/capture/finalize", s.handleFinalizeCapture)
	s.mux.HandleFunc("POST /api/capture/abandon", s.handleAbandonCapture)

	s.mux.HandleFunc("POST /api/suggest", s.handleSuggestTags)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy to HTTP status codes and emits a
// JSON error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTag):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveProject), errors.Is(err, domain.ErrNoTagsSelected):
		// Precondition failures: the client should prompt the user to select
		// a project or tags first.
		status = http.StatusConflict
	case errors.Is(err, vision.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}
