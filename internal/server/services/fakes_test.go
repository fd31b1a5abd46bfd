package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	attachmentsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/attachments"
	commentsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/comments"
	metricsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/metrics"
	projectsrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/projects"
	refreshtokensrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/refreshtokens"
	tasksrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskforge/internal/server/repositories/users"
)

// --- shared test plumbing ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr error

	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return f.createErr
}
func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}
func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

type fakeProjectsRepo struct {
	createErr error
	getOut    *models.Project
	getErr    error
	listOut   []*models.Project
	listErr   error
	updateErr error
	deleteErr error
}

func (f *fakeProjectsRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return p, nil
}
func (f *fakeProjectsRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeProjectsRepo) List(ctx context.Context) ([]*models.Project, error) {
	return f.listOut, f.listErr
}
func (f *fakeProjectsRepo) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return p, nil
}
func (f *fakeProjectsRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}

type fakeTasksRepo struct {
	createErr error

	// tasks known to GetByID, keyed by ID
	byID map[int64]*models.Task

	listOut []*models.Task
	listErr error

	updateErr error

	setStatusOut *models.Task
	setStatusErr error

	deleteErr error

	addDepOut *models.TaskDependency
	addDepErr error

	listDepsOut []*models.TaskDependency
	listDepsErr error

	delDepErr error
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return t, nil
}
func (f *fakeTasksRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeTasksRepo) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	return f.listOut, f.listErr
}
func (f *fakeTasksRepo) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return t, nil
}
func (f *fakeTasksRepo) SetStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	if f.setStatusErr != nil {
		return nil, f.setStatusErr
	}
	return f.setStatusOut, nil
}
func (f *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}
func (f *fakeTasksRepo) AddDependency(ctx context.Context, dep *models.TaskDependency) (*models.TaskDependency, error) {
	if f.addDepErr != nil {
		return nil, f.addDepErr
	}
	if f.addDepOut != nil {
		return f.addDepOut, nil
	}
	return dep, nil
}
func (f *fakeTasksRepo) ListDependencies(ctx context.Context, taskID int64) ([]*models.TaskDependency, error) {
	return f.listDepsOut, f.listDepsErr
}
func (f *fakeTasksRepo) ListAllDependencies(ctx context.Context, taskIDs []int64) ([]*models.TaskDependency, error) {
	return f.listDepsOut, f.listDepsErr
}
func (f *fakeTasksRepo) DeleteDependency(ctx context.Context, taskID, depID int64) error {
	return f.delDepErr
}

type fakeCommentsRepo struct {
	createErr error
	listOut   []*models.Comment
	listErr   error
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return c, nil
}
func (f *fakeCommentsRepo) ListByTask(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	return f.listOut, f.listErr
}

type fakeMetricsRepo struct {
	recordMetricErr error
	listMetricsOut  []*models.TaskMetric
	listMetricsErr  error

	recordRunErr error

	recentRunsOut []*models.WorkflowRun
	recentRunsErr error

	progressOut *models.ProjectProgress
	progressErr error

	countsOut *models.WorkflowMetrics
	countsErr error
}

func (f *fakeMetricsRepo) RecordTaskMetric(ctx context.Context, m *models.TaskMetric) (*models.TaskMetric, error) {
	if f.recordMetricErr != nil {
		return nil, f.recordMetricErr
	}
	return m, nil
}
func (f *fakeMetricsRepo) ListTaskMetrics(ctx context.Context, taskID int64) ([]*models.TaskMetric, error) {
	return f.listMetricsOut, f.listMetricsErr
}
func (f *fakeMetricsRepo) RecordWorkflowRun(ctx context.Context, r *models.WorkflowRun) (*models.WorkflowRun, error) {
	if f.recordRunErr != nil {
		return nil, f.recordRunErr
	}
	return r, nil
}
func (f *fakeMetricsRepo) ListRecentWorkflowRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {
	return f.recentRunsOut, f.recentRunsErr
}
func (f *fakeMetricsRepo) ProjectProgress(ctx context.Context, projectID int64) (*models.ProjectProgress, error) {
	return f.progressOut, f.progressErr
}
func (f *fakeMetricsRepo) TaskStatusCounts(ctx context.Context) (*models.WorkflowMetrics, error) {
	return f.countsOut, f.countsErr
}

type fakeAttachmentsRepo struct {
	createErr error
	getOut    *models.Attachment
	getErr    error
	listOut   []*models.Attachment
	listErr   error
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return a, nil
}
func (f *fakeAttachmentsRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeAttachmentsRepo) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	return f.listOut, f.listErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	p  *fakeProjectsRepo
	t  *fakeTasksRepo
	c  *fakeCommentsRepo
	m  *fakeMetricsRepo
	at *fakeAttachmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository           { return m.p }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository                 { return m.t }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository           { return m.c }
func (m *fakeRepoManager) Metrics(db dbx.DBTX) metricsrepo.Repository             { return m.m }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository     { return m.at }
