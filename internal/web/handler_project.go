package web

import (
	"net/http"
	"strings"
)

const maxProjectNameLen = 200

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.ListProjects())
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		TemplateID string `json:"templateId"`
		InitialTag string `json:"initialTag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(strings.TrimSpace(req.Name)) > maxProjectNameLen {
		http.Error(w, "project name too long", http.StatusBadRequest)
		return
	}

	p, err := s.service.CreateProject(r.Context(), req.Name, req.TemplateID, req.InitialTag)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.service.GetProject(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	s.service.DeleteProject(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateProject(w http.ResponseWriter, r *http.Request) {
	if err := s.service.SetActiveProject(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActiveProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.service.ActiveProject()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetCurrentTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.service.SetCurrentTags(r.Context(), r.PathValue("id"), req.Tags); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCustomTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tag, err := s.service.AddCustomTag(r.Context(), r.PathValue("id"), req.Tag)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"tag": tag})
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	err := s.service.DeleteImage(r.Context(), r.PathValue("id"), r.PathValue("imageId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
