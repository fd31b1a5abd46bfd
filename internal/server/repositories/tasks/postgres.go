package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, project_id, title, description, status, priority, assigned_to,
	 due_date, completed_at, estimated_hours, actual_hours, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&t.Priority, &t.AssignedTo, &t.DueDate, &t.CompletedAt,
		&t.EstimatedHours, &t.ActualHours, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (project_id, title, description, status, priority,
		                    assigned_to, due_date, estimated_hours)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.ProjectID, task.Title, task.Description, task.Status,
		task.Priority, task.AssignedTo, task.DueDate, task.EstimatedHours)

	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {

	query := `SELECT ` + taskColumns + ` FROM tasks`

	var conds []string
	var args []any
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`UPDATE tasks
		 SET project_id = $2, title = $3, description = $4, status = $5,
		     priority = $6, assigned_to = $7, due_date = $8,
		     completed_at = $9, estimated_hours = $10, actual_hours = $11,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.ID, task.ProjectID, task.Title, task.Description, task.Status,
		task.Priority, task.AssignedTo, task.DueDate, task.CompletedAt,
		task.EstimatedHours, task.ActualHours)

	updated, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status string) (*models.Task, error) {

	query :=
		`UPDATE tasks
		 SET status = $2,
		     completed_at = CASE WHEN $2 = 'completed' THEN now() ELSE NULL END,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + taskColumns

	updated, err := scanTask(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {

	query := `DELETE FROM tasks WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) AddDependency(ctx context.Context, dep *models.TaskDependency) (*models.TaskDependency, error) {

	query :=
		`INSERT INTO task_dependencies (task_id, depends_on_id, dependency_type)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		dep.TaskID, dep.DependsOnID, dep.DependencyType).Scan(&dep.ID, &dep.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return dep, nil
}

func (r *PostgresRepository) ListDependencies(ctx context.Context, taskID int64) ([]*models.TaskDependency, error) {

	query :=
		`SELECT id, task_id, depends_on_id, dependency_type, created_at
		 FROM task_dependencies
		 WHERE task_id = $1
		 ORDER BY id
		 `

	return r.queryDependencies(ctx, query, taskID)
}

func (r *PostgresRepository) ListAllDependencies(ctx context.Context, taskIDs []int64) ([]*models.TaskDependency, error) {

	if len(taskIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(taskIDs))
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	in := strings.Join(placeholders, ", ")

	query := fmt.Sprintf(
		`SELECT id, task_id, depends_on_id, dependency_type, created_at
		 FROM task_dependencies
		 WHERE task_id IN (%s)
		 ORDER BY id
		 `, in)

	return r.queryDependencies(ctx, query, args...)
}

func (r *PostgresRepository) queryDependencies(ctx context.Context, query string, args ...any) ([]*models.TaskDependency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.TaskDependency
	for rows.Next() {
		dep := &models.TaskDependency{}
		if err := rows.Scan(&dep.ID, &dep.TaskID, &dep.DependsOnID, &dep.DependencyType, &dep.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteDependency(ctx context.Context, taskID, depID int64) error {

	query := `DELETE FROM task_dependencies WHERE id = $1 AND task_id = $2`

	res, err := r.db.ExecContext(ctx, query, depID, taskID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
