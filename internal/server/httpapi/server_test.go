package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/logging"
	"github.com/dmitrijs2005/taskforge/internal/server/config"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	attachmentsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/attachments"
	commentsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/comments"
	metricsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/metrics"
	projectsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/projects"
	refreshtokensrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/refreshtokens"
	tasksrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/users"
	"github.com/dmitrijs2005/taskforge/internal/server/services"
)

// --- in-memory repositories ---

type memUsers struct {
	byName map[string]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := m.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-" + u.UserName
	m.byName[u.UserName] = u
	return u, nil
}
func (m *memUsers) GetByUserName(ctx context.Context, name string) (*models.User, error) {
	if u, ok := m.byName[name]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type memRefresh struct {
	tokens map[string]*models.RefreshToken
}

func (m *memRefresh) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}
func (m *memRefresh) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}
func (m *memRefresh) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

type memProjects struct {
	nextID int64
	byID   map[int64]*models.Project
}

func (m *memProjects) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = p
	return p, nil
}
func (m *memProjects) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}
func (m *memProjects) List(ctx context.Context) ([]*models.Project, error) {
	out := make([]*models.Project, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}
func (m *memProjects) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	if _, ok := m.byID[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.byID[p.ID] = p
	return p, nil
}
func (m *memProjects) Delete(ctx context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}

type memTasks struct {
	nextID int64
	byID   map[int64]*models.Task
	deps   []*models.TaskDependency
}

func (m *memTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	m.nextID++
	t.ID = m.nextID
	m.byID[t.ID] = t
	return t, nil
}
func (m *memTasks) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}
func (m *memTasks) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	out := make([]*models.Task, 0, len(m.byID))
	for _, t := range m.byID {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
func (m *memTasks) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	if _, ok := m.byID[t.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.byID[t.ID] = t
	return t, nil
}
func (m *memTasks) SetStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Status = status
	if status == models.TaskStatusCompleted {
		now := time.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return t, nil
}
func (m *memTasks) Delete(ctx context.Context, id int64) error {
	delete(m.byID, id)
	return nil
}
func (m *memTasks) AddDependency(ctx context.Context, dep *models.TaskDependency) (*models.TaskDependency, error) {
	for _, d := range m.deps {
		if d.TaskID == dep.TaskID && d.DependsOnID == dep.DependsOnID {
			return nil, common.ErrorAlreadyExists
		}
	}
	dep.ID = int64(len(m.deps) + 1)
	m.deps = append(m.deps, dep)
	return dep, nil
}
func (m *memTasks) ListDependencies(ctx context.Context, taskID int64) ([]*models.TaskDependency, error) {
	var out []*models.TaskDependency
	for _, d := range m.deps {
		if d.TaskID == taskID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (m *memTasks) ListAllDependencies(ctx context.Context, taskIDs []int64) ([]*models.TaskDependency, error) {
	return m.deps, nil
}
func (m *memTasks) DeleteDependency(ctx context.Context, taskID, depID int64) error {
	for i, d := range m.deps {
		if d.TaskID == taskID && d.ID == depID {
			m.deps = append(m.deps[:i], m.deps[i+1:]...)
			return nil
		}
	}
	return nil
}

type memComments struct {
	byTask map[int64][]*models.Comment
}

func (m *memComments) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	c.ID = int64(len(m.byTask[c.TaskID]) + 1)
	m.byTask[c.TaskID] = append(m.byTask[c.TaskID], c)
	return c, nil
}
func (m *memComments) ListByTask(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	return m.byTask[taskID], nil
}

type memMetrics struct {
	taskMetrics []*models.TaskMetric
	runs        []*models.WorkflowRun
}

func (m *memMetrics) RecordTaskMetric(ctx context.Context, tm *models.TaskMetric) (*models.TaskMetric, error) {
	tm.ID = int64(len(m.taskMetrics) + 1)
	m.taskMetrics = append(m.taskMetrics, tm)
	return tm, nil
}
func (m *memMetrics) ListTaskMetrics(ctx context.Context, taskID int64) ([]*models.TaskMetric, error) {
	var out []*models.TaskMetric
	for _, tm := range m.taskMetrics {
		if tm.TaskID == taskID {
			out = append(out, tm)
		}
	}
	return out, nil
}
func (m *memMetrics) RecordWorkflowRun(ctx context.Context, r *models.WorkflowRun) (*models.WorkflowRun, error) {
	r.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, r)
	return r, nil
}
func (m *memMetrics) ListRecentWorkflowRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	return m.runs, nil
}
func (m *memMetrics) ProjectProgress(ctx context.Context, projectID int64) (*models.ProjectProgress, error) {
	return &models.ProjectProgress{}, nil
}
func (m *memMetrics) TaskStatusCounts(ctx context.Context) (*models.WorkflowMetrics, error) {
	return &models.WorkflowMetrics{}, nil
}

type memAttachments struct {
	byID map[int64]*models.Attachment
}

func (m *memAttachments) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	a.ID = int64(len(m.byID) + 1)
	m.byID[a.ID] = a
	return a, nil
}
func (m *memAttachments) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}
func (m *memAttachments) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	var out []*models.Attachment
	for _, a := range m.byID {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memRepoManager struct {
	u  *memUsers
	r  *memRefresh
	p  *memProjects
	t  *memTasks
	c  *memComments
	m  *memMetrics
	at *memAttachments
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		u:  &memUsers{byName: map[string]*models.User{}},
		r:  &memRefresh{tokens: map[string]*models.RefreshToken{}},
		p:  &memProjects{byID: map[int64]*models.Project{}},
		t:  &memTasks{byID: map[int64]*models.Task{}},
		c:  &memComments{byTask: map[int64][]*models.Comment{}},
		m:  &memMetrics{},
		at: &memAttachments{byID: map[int64]*models.Attachment{}},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *memRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *memRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository           { return m.p }
func (m *memRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository                 { return m.t }
func (m *memRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository           { return m.c }
func (m *memRepoManager) Metrics(db dbx.DBTX) metricsrepo.Repository             { return m.m }
func (m *memRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository     { return m.at }

// --- server under test ---

func newTestServer(t *testing.T) (*httptest.Server, *memRepoManager) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// refresh token rotation runs in a transaction
	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}

	rm := newMemRepoManager()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	srv := NewHTTPServer(":0", logger,
		services.NewUserService(db, rm, cfg),
		services.NewProjectService(db, rm),
		services.NewTaskService(db, rm),
		services.NewAnalyticsService(db, rm),
		services.NewAttachmentService(db, rm, cfg),
		cfg.SecretKey,
	)

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts, rm
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func loginFor(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/register", "",
		registerRequest{Username: "worker", Password: "pw"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/login", "",
		loginRequest{Username: "worker", Password: "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %d", resp.StatusCode)
	}
	pair := decodeJSON[tokenPairResponse](t, resp)
	return pair.AccessToken
}

// --- tests ---

func TestPing_Public(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/v1/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/v1/tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status: %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/v1/tasks", "not-a-token", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status: %d, want 401", resp.StatusCode)
	}
}

func TestRegister_DuplicateConflict(t *testing.T) {
	ts, _ := newTestServer(t)

	body := registerRequest{Username: "alice", Password: "pw"}
	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/register", "", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status: %d", resp.StatusCode)
	}

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/register", "", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second register status: %d, want 409", resp.StatusCode)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/register", "",
		registerRequest{Username: "bob", Password: "pw"})
	resp.Body.Close()

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/login", "",
		loginRequest{Username: "bob", Password: "pw"})
	pair := decodeJSON[tokenPairResponse](t, resp)

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/refresh", "",
		refreshRequest{RefreshToken: pair.RefreshToken})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status: %d", resp.StatusCode)
	}
	fresh := decodeJSON[tokenPairResponse](t, resp)
	if fresh.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	// old token is gone
	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/refresh", "",
		refreshRequest{RefreshToken: pair.RefreshToken})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("stale refresh status: %d, want 401", resp.StatusCode)
	}
}

func TestProjectLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	token := loginFor(t, ts)

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/projects", token,
		projectPayload{Name: "Apollo", Status: models.ProjectStatusActive, Priority: 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", resp.StatusCode)
	}
	created := decodeJSON[projectPayload](t, resp)

	resp = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/v1/projects/9999", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get unknown status: %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, ts.Client(), http.MethodDelete, ts.URL+"/api/v1/projects/"+itoa(created.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %d", resp.StatusCode)
	}
}

func TestTaskStatusAndDependencies(t *testing.T) {
	ts, _ := newTestServer(t)
	token := loginFor(t, ts)

	mk := func(title string) taskPayload {
		resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/tasks", token,
			taskPayload{Title: title})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create task status: %d", resp.StatusCode)
		}
		return decodeJSON[taskPayload](t, resp)
	}
	t1 := mk("one")
	t2 := mk("two")

	if t1.Status != models.TaskStatusPending || t1.Priority != 3 {
		t.Fatalf("defaults not applied: %+v", t1)
	}

	// invalid status is a 400
	resp := doJSON(t, ts.Client(), http.MethodPatch, ts.URL+"/api/v1/tasks/"+itoa(t1.ID)+"/status", token,
		statusRequest{Status: "finished"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status code: %d, want 400", resp.StatusCode)
	}

	// completing stamps completed_at
	resp = doJSON(t, ts.Client(), http.MethodPatch, ts.URL+"/api/v1/tasks/"+itoa(t1.ID)+"/status", token,
		statusRequest{Status: models.TaskStatusCompleted})
	done := decodeJSON[taskPayload](t, resp)
	if done.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}

	// self-dependency is a 400
	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/tasks/"+itoa(t2.ID)+"/dependencies", token,
		dependencyPayload{DependsOnID: t2.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self-dep status: %d, want 400", resp.StatusCode)
	}

	// valid edge, then duplicate conflict
	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/tasks/"+itoa(t2.ID)+"/dependencies", token,
		dependencyPayload{DependsOnID: t1.ID})
	dep := decodeJSON[dependencyPayload](t, resp)
	if dep.DependencyType != models.DependencyTypeFinishToStart {
		t.Fatalf("default dependency type not applied: %q", dep.DependencyType)
	}

	resp = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/tasks/"+itoa(t2.ID)+"/dependencies", token,
		dependencyPayload{DependsOnID: t1.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate dep status: %d, want 409", resp.StatusCode)
	}
}

func TestWorkflowRunReporting(t *testing.T) {
	ts, rm := newTestServer(t)
	token := loginFor(t, ts)

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/analytics/workflow-runs", token,
		workflowRunPayload{
			FlowName:       "task-scheduler",
			RunID:          "run-1",
			StartTime:      time.Now(),
			Status:         "completed",
			TasksProcessed: 4,
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record run status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	if len(rm.m.runs) != 1 || rm.m.runs[0].FlowName != "task-scheduler" {
		t.Fatalf("run not stored: %+v", rm.m.runs)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
