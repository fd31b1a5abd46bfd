// Package metrics declares the repository contract for task metrics,
// workflow run records, and the aggregates behind the analytics endpoints.
package metrics

import (
	"context"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type Repository interface {
	// RecordTaskMetric stores one measurement for a task.
	RecordTaskMetric(ctx context.Context, metric *models.TaskMetric) (*models.TaskMetric, error)

	// ListTaskMetrics returns a task's measurements newest first.
	ListTaskMetrics(ctx context.Context, taskID int64) ([]*models.TaskMetric, error)

	// RecordWorkflowRun stores the outcome of one worker run.
	RecordWorkflowRun(ctx context.Context, run *models.WorkflowRun) (*models.WorkflowRun, error)

	// ListRecentWorkflowRuns returns the latest runs, newest first.
	ListRecentWorkflowRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error)

	// ProjectProgress counts completed vs total tasks of a project.
	ProjectProgress(ctx context.Context, projectID int64) (*models.ProjectProgress, error)

	// TaskStatusCounts returns total / completed / pending / in-progress counts.
	TaskStatusCounts(ctx context.Context) (*models.WorkflowMetrics, error)
}
