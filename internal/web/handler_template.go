package web

import "net/http"

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.ListTemplates())
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Tags        []string `json:"tags"`
		Description string   `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tpl, err := s.service.CreateTemplate(r.Context(), req.Name, req.Tags, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.service.DeleteTemplate(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
