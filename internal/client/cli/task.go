package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmitrijs2005/taskforge/internal/client/api"
)

// promptID asks for a numeric identifier.
func (a *App) promptID(prompt string) (int64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return id, nil
}

// List prints a short line per task. An optional status filter is prompted
// for; an empty answer lists everything.
func (a *App) List(ctx context.Context) error {
	status, err := getSimpleText(a.reader, "Status filter (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	tasks, err := a.api.ListTasks(ctx, status)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Printf("[%d] %s (%s, priority %d)\n", t.ID, t.Title, t.Status, t.Priority)
	}
	return nil
}

// Show fetches and displays a single task by ID, together with its comments
// and attachment metadata.
func (a *App) Show(ctx context.Context) error {
	id, err := a.promptID("Enter task id to show")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("[%d] %s\n", task.ID, task.Title)
	fmt.Printf("Status: %s, priority %d\n", task.Status, task.Priority)
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	if task.ProjectID != nil {
		fmt.Printf("Project: %d\n", *task.ProjectID)
	}
	if task.CompletedAt != nil {
		fmt.Printf("Completed at: %s\n", task.CompletedAt.Format("2006-01-02 15:04"))
	}

	comments, err := a.api.ListComments(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, c := range comments {
		fmt.Printf("  %s: %s\n", c.Author, c.Content)
	}

	attachments, err := a.api.ListAttachments(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, at := range attachments {
		fmt.Printf("  file: %s (%d bytes)\n", at.FileName, at.Size)
	}
	return nil
}

// Add collects task fields interactively and creates the task. Title is
// required; description, priority, and project are optional and fall back
// to server defaults.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		log.Printf("error: title is required")
		return fmt.Errorf("title is required")
	}

	description, err := GetMultiline(a.reader, "Enter description (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}

	task := &api.Task{Title: title, Description: description}

	priorityStr, err := getSimpleText(a.reader, "Priority 1-5 (empty for default)", os.Stdout)
	if err != nil {
		return err
	}
	if priorityStr != "" {
		priority, err := strconv.Atoi(priorityStr)
		if err != nil {
			log.Printf("error: not a number: %q", priorityStr)
			return err
		}
		task.Priority = priority
	}

	projectStr, err := getSimpleText(a.reader, "Project id (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if projectStr != "" {
		projectID, err := strconv.ParseInt(projectStr, 10, 64)
		if err != nil {
			log.Printf("error: not a number: %q", projectStr)
			return err
		}
		task.ProjectID = &projectID
	}

	created, err := a.api.CreateTask(ctx, task)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Created task %d\n", created.ID)
	return nil
}

// Complete marks a task as completed.
func (a *App) Complete(ctx context.Context) error {
	id, err := a.promptID("Enter task id to complete")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	task, err := a.api.SetTaskStatus(ctx, id, "completed")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Task %d completed\n", task.ID)
	return nil
}

// Comment posts a comment to a task under the logged-in user's name.
func (a *App) Comment(ctx context.Context) error {
	id, err := a.promptID("Enter task id to comment on")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	content, err := GetMultiline(a.reader, "Enter comment (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.AddComment(ctx, id, a.userName, content); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Comment added")
	return nil
}
