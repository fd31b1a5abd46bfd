package httpapi

import "net/http"

func (s *HTTPServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]projectPayload, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProjectPayload(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.projects.Create(r.Context(), req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectPayload(p))
}

func (s *HTTPServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectPayload(p))
}

func (s *HTTPServer) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req projectPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m := req.toModel()
	m.ID = id

	p, err := s.projects.Update(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectPayload(p))
}

func (s *HTTPServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.projects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
