package web

import (
	"io"
	"log/slog"
	"net/http"
)

const maxFrameSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded frames.
// net/http.DetectContentType covers JPEG and PNG via magic-byte sniffing;
// WebP is detected separately because the WHATWG sniff spec (and therefore
// the stdlib) has no WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// readFrame pulls the "frame" file out of a multipart form and validates it
// as an image. Returns (nil, "", false) after writing the error response.
func (s *Server) readFrame(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxFrameSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return nil, "", false
	}

	file, _, err := r.FormFile("frame")
	if err != nil {
		http.Error(w, "frame file required", http.StatusBadRequest)
		return nil, "", false
	}
	defer closeWithLog(file, "frame upload", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read frame", http.StatusInternalServerError)
		s.logger.Error("read frame upload failed", "error", err)
		return nil, "", false
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		http.Error(w, "unsupported image format", http.StatusBadRequest)
		return nil, "", false
	}
	return data, mimeType, true
}

func (s *Server) handleNextFilename(w http.ResponseWriter, r *http.Request) {
	name, err := s.service.NextFilename()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"filename": name})
}

func (s *Server) handleBeginCapture(w http.ResponseWriter, r *http.Request) {
	data, mimeType, ok := s.readFrame(w, r)
	if !ok {
		return
	}

	pending, err := s.service.BeginCapture(r.Context(), data, mimeType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, pending)
}

func (s *Server) handlePendingCapture(w http.ResponseWriter, r *http.Request) {
	pending, ok := s.service.Pending()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleFinalizeCapture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	img, err := s.service.Finalize(r.Context(), req.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, img)
}

func (s *Server) handleAbandonCapture(w http.ResponseWriter, r *http.Request) {
	s.service.Abandon()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggestTags(w http.ResponseWriter, r *http.Request) {
	data, mimeType, ok := s.readFrame(w, r)
	if !ok {
		return
	}

	tags, err := s.service.SuggestTags(r.Context(), data, mimeType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
