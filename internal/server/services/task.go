package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/repomanager"
)

// TaskService implements task CRUD, status transitions, dependency edges,
// and comments.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func validTaskStatus(status string) bool {
	switch status {
	case models.TaskStatusPending, models.TaskStatusInProgress,
		models.TaskStatusCompleted, models.TaskStatusBlocked,
		models.TaskStatusCancelled:
		return true
	}
	return false
}

func (s *TaskService) validate(task *models.Task) error {
	if task.Title == "" {
		return common.ErrorValidation
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if !validTaskStatus(task.Status) {
		return common.ErrorValidation
	}
	if task.Priority == 0 {
		task.Priority = 3
	}
	if !validPriority(task.Priority) {
		return common.ErrorValidation
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := s.validate(task); err != nil {
		return nil, err
	}
	if task.ProjectID != nil {
		// reject tasks pointing at absent projects up front
		if _, err := s.repomanager.Projects(s.db).GetByID(ctx, *task.ProjectID); err != nil {
			return nil, err
		}
	}
	repo := s.repomanager.Tasks(s.db)
	t, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %v", err)
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.GetByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.Status != nil && !validTaskStatus(*filter.Status) {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.List(ctx, filter)
}

func (s *TaskService) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := s.validate(task); err != nil {
		return nil, err
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.Update(ctx, task)
}

// SetStatus changes only the task's status. The repository stamps
// completed_at when status becomes "completed" and clears it otherwise.
func (s *TaskService) SetStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	if !validTaskStatus(status) {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.SetStatus(ctx, id, status)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Tasks(s.db)
	return repo.Delete(ctx, id)
}

// AddDependency records that taskID depends on dependsOnID. Both endpoints
// must exist, a task may not depend on itself, and duplicate edges are
// rejected by the store.
func (s *TaskService) AddDependency(ctx context.Context, taskID, dependsOnID int64, depType string) (*models.TaskDependency, error) {
	if taskID == dependsOnID {
		return nil, common.ErrorSelfDependency
	}
	if depType == "" {
		depType = models.DependencyTypeFinishToStart
	}

	repo := s.repomanager.Tasks(s.db)
	if _, err := repo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	if _, err := repo.GetByID(ctx, dependsOnID); err != nil {
		return nil, err
	}

	dep := &models.TaskDependency{TaskID: taskID, DependsOnID: dependsOnID, DependencyType: depType}
	return repo.AddDependency(ctx, dep)
}

func (s *TaskService) ListDependencies(ctx context.Context, taskID int64) ([]*models.TaskDependency, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.ListDependencies(ctx, taskID)
}

// ListAllDependencies returns every edge among the given tasks.
func (s *TaskService) ListAllDependencies(ctx context.Context, taskIDs []int64) ([]*models.TaskDependency, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.ListAllDependencies(ctx, taskIDs)
}

func (s *TaskService) DeleteDependency(ctx context.Context, taskID, depID int64) error {
	repo := s.repomanager.Tasks(s.db)
	return repo.DeleteDependency(ctx, taskID, depID)
}

// AddComment stores a comment on an existing task.
func (s *TaskService) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.Content == "" {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Tasks(s.db).GetByID(ctx, comment.TaskID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Comments(s.db)
	c, err := repo.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %v", err)
	}
	return c, nil
}

func (s *TaskService) ListComments(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	repo := s.repomanager.Comments(s.db)
	return repo.ListByTask(ctx, taskID)
}
