package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

func (s *HTTPServer) handleListTaskMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	ms, err := s.analytics.ListTaskMetrics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]metricPayload, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMetricPayload(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleRecordTaskMetric(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req metricPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m, err := s.analytics.RecordTaskMetric(r.Context(), &models.TaskMetric{
		TaskID:     id,
		MetricType: req.MetricType,
		Value:      req.Value,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMetricPayload(m))
}

func (s *HTTPServer) handleProjectProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.analytics.ProjectProgress(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectProgressResponse{
		Progress:  p.Progress,
		Completed: p.Completed,
		Total:     p.Total,
	})
}

func (s *HTTPServer) handleWorkflowMetrics(w http.ResponseWriter, r *http.Request) {
	wm, err := s.analytics.WorkflowMetrics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	runs := make([]workflowRunPayload, 0, len(wm.RecentRuns))
	for _, run := range wm.RecentRuns {
		runs = append(runs, toWorkflowRunPayload(run))
	}

	writeJSON(w, http.StatusOK, workflowMetricsResponse{
		TotalTasks:      wm.TotalTasks,
		CompletedTasks:  wm.CompletedTasks,
		PendingTasks:    wm.PendingTasks,
		InProgressTasks: wm.InProgressTasks,
		RecentRuns:      runs,
	})
}

func (s *HTTPServer) handleRecordWorkflowRun(w http.ResponseWriter, r *http.Request) {
	var req workflowRunPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	run, err := s.analytics.RecordWorkflowRun(r.Context(), req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkflowRunPayload(run))
}
