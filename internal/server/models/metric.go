package models

import "time"

// Metric types recorded against tasks by the worker's text analysis.
const (
	MetricComplexity           = "complexity"
	MetricUrgencyKeywords      = "urgency_keywords"
	MetricTimeEstimationFactor = "time_estimation_factor"
)

// TaskMetric is a single named measurement for a task.
type TaskMetric struct {
	ID         int64
	TaskID     int64
	MetricType string
	Value      float64
	CreatedAt  time.Time
}

// WorkflowRun records one execution of the background processing flow.
type WorkflowRun struct {
	ID             int64
	FlowName       string
	RunID          string
	StartTime      time.Time
	EndTime        *time.Time
	Status         string
	TasksProcessed int
	Errors         int
	CreatedAt      time.Time
}

// ProjectProgress aggregates completion over a project's tasks.
type ProjectProgress struct {
	Progress  float64
	Completed int
	Total     int
}

// WorkflowMetrics aggregates task status counts plus recent runs for the
// analytics endpoint.
type WorkflowMetrics struct {
	TotalTasks      int
	CompletedTasks  int
	PendingTasks    int
	InProgressTasks int
	RecentRuns      []*WorkflowRun
}
