package metrics

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) RecordTaskMetric(ctx context.Context, metric *models.TaskMetric) (*models.TaskMetric, error) {

	query :=
		`INSERT INTO task_metrics (task_id, metric_type, value)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		metric.TaskID, metric.MetricType, metric.Value).Scan(&metric.ID, &metric.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return metric, nil
}

func (r *PostgresRepository) ListTaskMetrics(ctx context.Context, taskID int64) ([]*models.TaskMetric, error) {

	query :=
		`SELECT id, task_id, metric_type, value, created_at FROM task_metrics
		 WHERE task_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.TaskMetric
	for rows.Next() {
		m := &models.TaskMetric{}
		if err := rows.Scan(&m.ID, &m.TaskID, &m.MetricType, &m.Value, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) RecordWorkflowRun(ctx context.Context, run *models.WorkflowRun) (*models.WorkflowRun, error) {

	query :=
		`INSERT INTO workflow_runs (flow_name, run_id, start_time, end_time, status,
		                            tasks_processed, errors)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		run.FlowName, run.RunID, run.StartTime, run.EndTime, run.Status,
		run.TasksProcessed, run.Errors).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return run, nil
}

func (r *PostgresRepository) ListRecentWorkflowRuns(ctx context.Context, limit int) ([]*models.WorkflowRun, error) {

	query :=
		`SELECT id, flow_name, run_id, start_time, end_time, status, tasks_processed, errors, created_at
		 FROM workflow_runs
		 ORDER BY start_time DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.WorkflowRun
	for rows.Next() {
		run := &models.WorkflowRun{}
		if err := rows.Scan(&run.ID, &run.FlowName, &run.RunID, &run.StartTime,
			&run.EndTime, &run.Status, &run.TasksProcessed, &run.Errors, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ProjectProgress(ctx context.Context, projectID int64) (*models.ProjectProgress, error) {

	query :=
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'completed')
		 FROM tasks
		 WHERE project_id = $1
		 `

	p := &models.ProjectProgress{}
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&p.Total, &p.Completed); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if p.Total > 0 {
		p.Progress = float64(p.Completed) / float64(p.Total) * 100
	}

	return p, nil
}

func (r *PostgresRepository) TaskStatusCounts(ctx context.Context) (*models.WorkflowMetrics, error) {

	query :=
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'completed'),
		        count(*) FILTER (WHERE status = 'pending'),
		        count(*) FILTER (WHERE status = 'in_progress')
		 FROM tasks
		 `

	m := &models.WorkflowMetrics{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&m.TotalTasks, &m.CompletedTasks, &m.PendingTasks, &m.InProgressTasks)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}
