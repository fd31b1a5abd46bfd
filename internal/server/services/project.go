package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskforge/internal/common"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskforge/internal/textan"
)

// ProjectService implements project CRUD with field validation.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, repomanager: m}
}

func validProjectStatus(status string) bool {
	switch status {
	case models.ProjectStatusActive, models.ProjectStatusOnHold,
		models.ProjectStatusCompleted, models.ProjectStatusArchived:
		return true
	}
	return false
}

func validPriority(p int) bool {
	return p >= textan.PriorityMin && p <= textan.PriorityMax
}

func (s *ProjectService) validate(project *models.Project) error {
	if project.Name == "" {
		return common.ErrorValidation
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	if !validProjectStatus(project.Status) {
		return common.ErrorValidation
	}
	if project.Priority == 0 {
		project.Priority = textan.PriorityMin
	}
	if !validPriority(project.Priority) {
		return common.ErrorValidation
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := s.validate(project); err != nil {
		return nil, err
	}
	repo := s.repomanager.Projects(s.db)
	p, err := repo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("error creating project: %v", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	return repo.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	return repo.List(ctx)
}

// Update applies the mutable fields of project to the stored row identified
// by project.ID.
func (s *ProjectService) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := s.validate(project); err != nil {
		return nil, err
	}
	repo := s.repomanager.Projects(s.db)
	return repo.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Projects(s.db)
	return repo.Delete(ctx, id)
}
