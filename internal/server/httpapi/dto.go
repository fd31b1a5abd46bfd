package httpapi

import (
	"time"

	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/server/services"
)

// Wire DTOs. Storage models carry no JSON tags, so the HTTP layer owns the
// request/response shapes.

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toTokenPairResponse(p *services.TokenPair) tokenPairResponse {
	return tokenPairResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type projectPayload struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

func (p *projectPayload) toModel() *models.Project {
	m := &models.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		EndDate:     p.EndDate,
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	return m
}

func toProjectPayload(m *models.Project) projectPayload {
	start := m.StartDate
	return projectPayload{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Status:      m.Status,
		Priority:    m.Priority,
		StartDate:   &start,
		EndDate:     m.EndDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type taskPayload struct {
	ID             int64      `json:"id,omitempty"`
	ProjectID      *int64     `json:"project_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

func (p *taskPayload) toModel() *models.Task {
	return &models.Task{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		Title:          p.Title,
		Description:    p.Description,
		Status:         p.Status,
		Priority:       p.Priority,
		AssignedTo:     p.AssignedTo,
		DueDate:        p.DueDate,
		EstimatedHours: p.EstimatedHours,
		ActualHours:    p.ActualHours,
	}
}

func toTaskPayload(m *models.Task) taskPayload {
	return taskPayload{
		ID:             m.ID,
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		Status:         m.Status,
		Priority:       m.Priority,
		AssignedTo:     m.AssignedTo,
		DueDate:        m.DueDate,
		CompletedAt:    m.CompletedAt,
		EstimatedHours: m.EstimatedHours,
		ActualHours:    m.ActualHours,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type dependencyPayload struct {
	ID             int64     `json:"id,omitempty"`
	TaskID         int64     `json:"task_id,omitempty"`
	DependsOnID    int64     `json:"depends_on_id"`
	DependencyType string    `json:"dependency_type,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

func toDependencyPayload(m *models.TaskDependency) dependencyPayload {
	return dependencyPayload{
		ID:             m.ID,
		TaskID:         m.TaskID,
		DependsOnID:    m.DependsOnID,
		DependencyType: m.DependencyType,
		CreatedAt:      m.CreatedAt,
	}
}

type commentPayload struct {
	ID        int64     `json:"id,omitempty"`
	TaskID    int64     `json:"task_id,omitempty"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func toCommentPayload(m *models.Comment) commentPayload {
	return commentPayload{
		ID:        m.ID,
		TaskID:    m.TaskID,
		Author:    m.Author,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

type metricPayload struct {
	ID         int64     `json:"id,omitempty"`
	TaskID     int64     `json:"task_id,omitempty"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func toMetricPayload(m *models.TaskMetric) metricPayload {
	return metricPayload{
		ID:         m.ID,
		TaskID:     m.TaskID,
		MetricType: m.MetricType,
		Value:      m.Value,
		CreatedAt:  m.CreatedAt,
	}
}

type workflowRunPayload struct {
	ID             int64      `json:"id,omitempty"`
	FlowName       string     `json:"flow_name"`
	RunID          string     `json:"run_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Status         string     `json:"status"`
	TasksProcessed int        `json:"tasks_processed"`
	Errors         int        `json:"errors"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
}

func (p *workflowRunPayload) toModel() *models.WorkflowRun {
	return &models.WorkflowRun{
		FlowName:       p.FlowName,
		RunID:          p.RunID,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		Status:         p.Status,
		TasksProcessed: p.TasksProcessed,
		Errors:         p.Errors,
	}
}

func toWorkflowRunPayload(m *models.WorkflowRun) workflowRunPayload {
	return workflowRunPayload{
		ID:             m.ID,
		FlowName:       m.FlowName,
		RunID:          m.RunID,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         m.Status,
		TasksProcessed: m.TasksProcessed,
		Errors:         m.Errors,
		CreatedAt:      m.CreatedAt,
	}
}

type projectProgressResponse struct {
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
}

type workflowMetricsResponse struct {
	TotalTasks      int                  `json:"total_tasks"`
	CompletedTasks  int                  `json:"completed_tasks"`
	PendingTasks    int                  `json:"pending_tasks"`
	InProgressTasks int                  `json:"in_progress_tasks"`
	RecentRuns      []workflowRunPayload `json:"recent_runs"`
}

type attachmentPayload struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAttachmentPayload(m *models.Attachment) attachmentPayload {
	return attachmentPayload{
		ID:         m.ID,
		TaskID:     m.TaskID,
		FileName:   m.FileName,
		StorageKey: m.StorageKey,
		Size:       m.Size,
		CreatedAt:  m.CreatedAt,
	}
}

type attachmentCreateRequest struct {
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
}

type attachmentTicketResponse struct {
	Attachment attachmentPayload `json:"attachment"`
	UploadURL  string            `json:"upload_url"`
}

type attachmentURLResponse struct {
	URL string `json:"url"`
}
