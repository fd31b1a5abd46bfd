package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

func (s *HTTPServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var filter models.TaskFilter

	if v := r.URL.Query().Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, common.ErrorValidation)
			return
		}
		filter.ProjectID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	ts, err := s.tasks.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]taskPayload, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskPayload(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	t, err := s.tasks.Create(r.Context(), req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskPayload(t))
}

func (s *HTTPServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskPayload(t))
}

func (s *HTTPServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req taskPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m := req.toModel()
	m.ID = id

	t, err := s.tasks.Update(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskPayload(t))
}

func (s *HTTPServer) handleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	t, err := s.tasks.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskPayload(t))
}

func (s *HTTPServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListAllDependencies returns every edge among the tasks named by the
// comma-separated ids query parameter. The worker uses it to build the run
// graph in one round trip.
func (s *HTTPServer) handleListAllDependencies(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeJSON(w, http.StatusOK, []dependencyPayload{})
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeError(w, common.ErrorValidation)
			return
		}
		ids = append(ids, id)
	}

	deps, err := s.tasks.ListAllDependencies(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dependencyPayload, 0, len(deps))
	for _, d := range deps {
		out = append(out, toDependencyPayload(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleListDependencies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	deps, err := s.tasks.ListDependencies(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dependencyPayload, 0, len(deps))
	for _, d := range deps {
		out = append(out, toDependencyPayload(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req dependencyPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	dep, err := s.tasks.AddDependency(r.Context(), id, req.DependsOnID, req.DependencyType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDependencyPayload(dep))
}

func (s *HTTPServer) handleDeleteDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	depID, err := pathID(r, "depID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.tasks.DeleteDependency(r.Context(), id, depID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	cs, err := s.tasks.ListComments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]commentPayload, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCommentPayload(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := s.tasks.AddComment(r.Context(), &models.Comment{
		TaskID:  id,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentPayload(c))
}
