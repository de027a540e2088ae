package web

import (
	"io"
	"net/http"
)

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	text, err := s.service.Manifest(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="manifest.txt"`)
	if _, err := w.Write([]byte(text)); err != nil {
		s.logger.Error("write manifest failed", "error", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ExportProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	reader, mimeType, err := s.service.OpenFrame(r.Context(), r.PathValue("id"), r.PathValue("imageId"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "frame reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write frame failed", "error", err)
	}
}
