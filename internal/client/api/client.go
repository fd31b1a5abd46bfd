// Package api is the HTTP client the CLI uses to talk to the TaskForge API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/common"
)

// Task is the wire shape of a task as served by the API.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   *int64     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// Comment is one comment on a task.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment describes a stored file belonging to a task.
type Attachment struct {
	ID       int64  `json:"id"`
	TaskID   int64  `json:"task_id"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
}

// AttachmentTicket is the server's answer to an upload request: the recorded
// attachment plus a presigned URL the file bytes go to.
type AttachmentTicket struct {
	Attachment Attachment `json:"attachment"`
	UploadURL  string     `json:"upload_url"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// apiError carries the HTTP status of a failed call so auth handling can
// distinguish a stale token from a real error.
type apiError struct {
	Status int
	Msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Msg)
}

func isUnauthorized(err error) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// Client is a stateful API client holding the current token pair. It is not
// safe for concurrent use; the CLI drives it from a single REPL loop.
type Client struct {
	baseURL    string
	httpClient *http.Client

	accessToken  string
	refreshToken string
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsAuthenticated reports whether a login produced a usable token pair.
func (c *Client) IsAuthenticated() bool {
	return c.accessToken != ""
}

// Logout drops the stored token pair.
func (c *Client) Logout() {
	c.accessToken = ""
	c.refreshToken = ""
}

// Register creates a new account. The password slice is not retained.
func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

// Login authenticates and stores the returned token pair on the client.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}
	var pair tokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", body, &pair); err != nil {
		return err
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return nil
}

// ListTasks fetches tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]*Task, error) {
	path := "/api/v1/tasks"
	if status != "" {
		path += "?status=" + status
	}
	var tasks []*Task
	if err := c.authed(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	var task Task
	if err := c.authed(ctx, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask records a new task and returns it with server-assigned fields.
func (c *Client) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	var created Task
	if err := c.authed(ctx, http.MethodPost, "/api/v1/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetTaskStatus moves a task into the given status.
func (c *Client) SetTaskStatus(ctx context.Context, id int64, status string) (*Task, error) {
	var updated Task
	path := fmt.Sprintf("/api/v1/tasks/%d/status", id)
	if err := c.authed(ctx, http.MethodPatch, path, map[string]string{"status": status}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListComments fetches the comments of a task.
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]*Comment, error) {
	var comments []*Comment
	path := fmt.Sprintf("/api/v1/tasks/%d/comments", taskID)
	if err := c.authed(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID int64, author, content string) error {
	path := fmt.Sprintf("/api/v1/tasks/%d/comments", taskID)
	body := map[string]string{"author": author, "content": content}
	return c.authed(ctx, http.MethodPost, path, body, nil)
}

// ListAttachments fetches attachment metadata for a task.
func (c *Client) ListAttachments(ctx context.Context, taskID int64) ([]*Attachment, error) {
	var attachments []*Attachment
	path := fmt.Sprintf("/api/v1/tasks/%d/attachments", taskID)
	if err := c.authed(ctx, http.MethodGet, path, nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// CreateAttachmentTicket registers an upload and returns the presigned PUT URL
// together with the recorded attachment.
func (c *Client) CreateAttachmentTicket(ctx context.Context, taskID int64, fileName string, size int64) (*AttachmentTicket, error) {
	var ticket AttachmentTicket
	path := fmt.Sprintf("/api/v1/tasks/%d/attachments", taskID)
	body := map[string]any{"file_name": fileName, "size": size}
	if err := c.authed(ctx, http.MethodPost, path, body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// authed performs a request with the bearer token. On a 401 it refreshes the
// token pair once and retries; a second 401 surfaces as ErrorUnauthorized.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	err := c.doJSON(ctx, method, path, body, out)
	if err == nil || !isUnauthorized(err) {
		return err
	}

	if c.refreshToken == "" {
		return common.ErrorUnauthorized
	}
	if err := c.refresh(ctx); err != nil {
		return common.ErrorUnauthorized
	}

	if err := c.doJSON(ctx, method, path, body, out); err != nil {
		if isUnauthorized(err) {
			return common.ErrorUnauthorized
		}
		return err
	}
	return nil
}

// refresh rotates the stored token pair using the refresh token.
func (c *Client) refresh(ctx context.Context) error {
	body := map[string]string{"refresh_token": c.refreshToken}
	var pair tokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/refresh", body, &pair); err != nil {
		return err
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			msg = body.Error
		}
		return &apiError{Status: resp.StatusCode, Msg: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
