// Package api is the worker's client for the TaskForge REST API.
//
// Every call retries transient failures with exponential backoff and
// re-authenticates once when the cached access token is rejected.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/taskforge/internal/common"
)

const retryBase = 500 * time.Millisecond

// Task is the wire shape of a task as served by the API. It carries every
// mutable field so a full-task PUT round-trips without clearing columns.
type Task struct {
	ID             int64      `json:"id"`
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
}

// Dependency is the wire shape of a dependency edge.
type Dependency struct {
	ID          int64 `json:"id"`
	TaskID      int64 `json:"task_id"`
	DependsOnID int64 `json:"depends_on_id"`
}

// Metric is one measurement reported against a task.
type Metric struct {
	MetricType string  `json:"metric_type"`
	Value      float64 `json:"value"`
}

// WorkflowRun reports the outcome of one worker pass.
type WorkflowRun struct {
	FlowName       string     `json:"flow_name"`
	RunID          string     `json:"run_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Status         string     `json:"status"`
	TasksProcessed int        `json:"tasks_processed"`
	Errors         int        `json:"errors"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Client talks to the TaskForge API as the worker's service account.
type Client struct {
	baseURL     string
	user        string
	password    string
	maxAttempts int
	httpClient  *http.Client

	accessToken string
}

func NewClient(baseURL, user, password string, maxAttempts int) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		user:        user,
		password:    password,
		maxAttempts: maxAttempts,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// login obtains a fresh access token, registering the service account first
// if it does not exist yet.
func (c *Client) login(ctx context.Context) error {
	creds := map[string]string{"username": c.user, "password": c.password}

	var pair tokenPair
	status, err := c.postJSON(ctx, "/api/v1/auth/login", "", creds, &pair)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// first run against a fresh database
		if status, err = c.postJSON(ctx, "/api/v1/auth/register", "", creds, nil); err != nil {
			return err
		}
		if status != http.StatusCreated && status != http.StatusConflict {
			return fmt.Errorf("register failed: status %d", status)
		}
		if status, err = c.postJSON(ctx, "/api/v1/auth/login", "", creds, &pair); err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("login failed: status %d", status)
	}

	c.accessToken = pair.AccessToken
	return nil
}

// FetchPendingTasks returns tasks with status "pending".
func (c *Client) FetchPendingTasks(ctx context.Context) ([]*Task, error) {
	var out []*Task
	err := c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.getJSON(ctx, "/api/v1/tasks?status=pending", token, &out)
	})
	return out, err
}

// FetchDependencies returns every edge among the given tasks.
func (c *Client) FetchDependencies(ctx context.Context, taskIDs []int64) ([]*Dependency, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(taskIDs))
	for _, id := range taskIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	path := "/api/v1/tasks/dependencies?ids=" + strings.Join(parts, ",")

	var out []*Dependency
	err := c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.getJSON(ctx, path, token, &out)
	})
	return out, err
}

// GetTask returns one task by ID.
func (c *Client) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	path := fmt.Sprintf("/api/v1/tasks/%d", taskID)
	var out Task
	err := c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.getJSON(ctx, path, token, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTaskStatus transitions a task.
func (c *Client) SetTaskStatus(ctx context.Context, taskID int64, status string) error {
	path := fmt.Sprintf("/api/v1/tasks/%d/status", taskID)
	body := map[string]string{"status": status}
	return c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.doJSON(ctx, http.MethodPatch, path, token, body, nil)
	})
}

// UpdateTaskPriority rewrites the task with a new priority. The PUT carries
// the whole task: the server's update replaces every column, so a partial
// body would null out assignee, due date, and hour estimates.
func (c *Client) UpdateTaskPriority(ctx context.Context, task *Task, priority int) error {
	path := fmt.Sprintf("/api/v1/tasks/%d", task.ID)
	body := *task
	body.Priority = priority
	return c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.doJSON(ctx, http.MethodPut, path, token, &body, nil)
	})
}

// RecordMetric stores one measurement for a task.
func (c *Client) RecordMetric(ctx context.Context, taskID int64, m Metric) error {
	path := fmt.Sprintf("/api/v1/tasks/%d/metrics", taskID)
	return c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.doJSON(ctx, http.MethodPost, path, token, m, nil)
	})
}

// RecordWorkflowRun reports the outcome of one pass.
func (c *Client) RecordWorkflowRun(ctx context.Context, run *WorkflowRun) error {
	return c.authed(ctx, func(ctx context.Context, token string) (int, error) {
		return c.doJSON(ctx, http.MethodPost, "/api/v1/analytics/workflow-runs", token, run, nil)
	})
}

// --- plumbing ---

// authed runs call with a valid token, logging in on demand, retrying once
// after a 401, and retrying transport failures with backoff.
func (c *Client) authed(ctx context.Context, call func(ctx context.Context, token string) (int, error)) error {
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if c.accessToken == "" {
			if err := c.login(ctx); err != nil {
				return retry.RetryableError(err)
			}
		}

		status, err := call(ctx, c.accessToken)
		if err != nil {
			return retry.RetryableError(err)
		}

		if status == http.StatusUnauthorized {
			// token expired; drop it and retry with a fresh login
			c.accessToken = ""
			return retry.RetryableError(fmt.Errorf("token rejected"))
		}
		if status >= 500 {
			return retry.RetryableError(fmt.Errorf("server error: status %d", status))
		}
		if status >= 400 {
			return fmt.Errorf("api error: status %d", status)
		}

		return nil
	})
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) (int, error) {
	return c.doJSON(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) (int, error) {
	return c.doJSON(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}

	return resp.StatusCode, nil
}
