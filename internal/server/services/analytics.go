package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/repomanager"
)

// recentRunLimit bounds the runs embedded in the workflow metrics response.
const recentRunLimit = 10

// AnalyticsService implements task metrics recording, project progress, and
// workflow run reporting.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

func validMetricType(mt string) bool {
	switch mt {
	case models.MetricComplexity, models.MetricUrgencyKeywords, models.MetricTimeEstimationFactor:
		return true
	}
	return false
}

// RecordTaskMetric stores one measurement against an existing task.
func (s *AnalyticsService) RecordTaskMetric(ctx context.Context, metric *models.TaskMetric) (*models.TaskMetric, error) {
	if !validMetricType(metric.MetricType) {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Tasks(s.db).GetByID(ctx, metric.TaskID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Metrics(s.db)
	m, err := repo.RecordTaskMetric(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("error recording metric: %v", err)
	}
	return m, nil
}

func (s *AnalyticsService) ListTaskMetrics(ctx context.Context, taskID int64) ([]*models.TaskMetric, error) {
	repo := s.repomanager.Metrics(s.db)
	return repo.ListTaskMetrics(ctx, taskID)
}

// RecordWorkflowRun stores the outcome of one worker run.
func (s *AnalyticsService) RecordWorkflowRun(ctx context.Context, run *models.WorkflowRun) (*models.WorkflowRun, error) {
	if run.FlowName == "" || run.RunID == "" {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Metrics(s.db)
	r, err := repo.RecordWorkflowRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("error recording workflow run: %v", err)
	}
	return r, nil
}

// ProjectProgress reports completion over the tasks of one project.
func (s *AnalyticsService) ProjectProgress(ctx context.Context, projectID int64) (*models.ProjectProgress, error) {
	if _, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Metrics(s.db)
	return repo.ProjectProgress(ctx, projectID)
}

// WorkflowMetrics reports overall task status counts plus the latest runs.
func (s *AnalyticsService) WorkflowMetrics(ctx context.Context) (*models.WorkflowMetrics, error) {
	repo := s.repomanager.Metrics(s.db)

	wm, err := repo.TaskStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := repo.ListRecentWorkflowRuns(ctx, recentRunLimit)
	if err != nil {
		return nil, err
	}
	wm.RecentRuns = runs
	return wm, nil
}
