package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// routes builds the full /api/v1 route table.
func (s *HTTPServer) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	api := router.PathPrefix("/api/v1").Subrouter()

	// public
	api.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	// bearer-authenticated
	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)

	authed.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	authed.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{id:[0-9]+}", s.handleGetProject).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{id:[0-9]+}", s.handleUpdateProject).Methods(http.MethodPut)
	authed.HandleFunc("/projects/{id:[0-9]+}", s.handleDeleteProject).Methods(http.MethodDelete)

	authed.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.handleGetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.handleUpdateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.handleDeleteTask).Methods(http.MethodDelete)
	authed.HandleFunc("/tasks/{id:[0-9]+}/status", s.handleSetTaskStatus).Methods(http.MethodPatch)

	authed.HandleFunc("/tasks/dependencies", s.handleListAllDependencies).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}/dependencies", s.handleListDependencies).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}/dependencies", s.handleAddDependency).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}/dependencies/{depID:[0-9]+}", s.handleDeleteDependency).Methods(http.MethodDelete)

	authed.HandleFunc("/tasks/{id:[0-9]+}/comments", s.handleListComments).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}/comments", s.handleAddComment).Methods(http.MethodPost)

	authed.HandleFunc("/tasks/{id:[0-9]+}/metrics", s.handleListTaskMetrics).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}/metrics", s.handleRecordTaskMetric).Methods(http.MethodPost)

	authed.HandleFunc("/tasks/{id:[0-9]+}/attachments", s.handleListAttachments).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}/attachments", s.handleCreateAttachment).Methods(http.MethodPost)
	authed.HandleFunc("/attachments/{id:[0-9]+}/url", s.handleAttachmentURL).Methods(http.MethodGet)

	authed.HandleFunc("/analytics/project-progress/{id:[0-9]+}", s.handleProjectProgress).Methods(http.MethodGet)
	authed.HandleFunc("/analytics/workflow-metrics", s.handleWorkflowMetrics).Methods(http.MethodGet)
	authed.HandleFunc("/analytics/workflow-runs", s.handleRecordWorkflowRun).Methods(http.MethodPost)

	return router
}
