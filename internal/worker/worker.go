// Package worker implements the background processing flow: every poll
// interval it fetches pending tasks, orders them by their dependency graph,
// re-analyzes priorities from description text, runs each task through a
// validated state machine, and reports metrics back to the API.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskforge/internal/logging"
	"github.com/dmitrijs2005/taskforge/internal/server/models"
	"github.com/dmitrijs2005/taskforge/internal/textan"
	"github.com/dmitrijs2005/taskforge/internal/worker/api"
	"github.com/dmitrijs2005/taskforge/internal/worker/config"
	"github.com/dmitrijs2005/taskforge/internal/worker/dag"
)

const flowName = "task-scheduler"

type Worker struct {
	config *config.Config
	logger logging.Logger
	client *api.Client

	// processDelay simulates task execution between the in_progress and
	// completed transitions; tests set it to zero.
	processDelay time.Duration
}

func New(cfg *config.Config, l logging.Logger) *Worker {
	return &Worker{
		config:       cfg,
		logger:       l.With("module", "worker"),
		client:       api.NewClient(cfg.APIBaseURL, cfg.ServiceUser, cfg.ServicePassword, cfg.MaxAttempts),
		processDelay: 100 * time.Millisecond,
	}
}

// Run executes processing passes until ctx is cancelled. With Once set, a
// single pass runs and Run returns.
func (w *Worker) Run(ctx context.Context) error {
	if w.config.Once {
		return w.RunOnce(ctx)
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error(ctx, "run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs one full processing pass and reports it as a WorkflowRun.
func (w *Worker) RunOnce(ctx context.Context) error {
	run := &api.WorkflowRun{
		FlowName:  flowName,
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	w.logger.Info(ctx, "starting run", "run_id", run.RunID)

	processed, errCount, err := w.processPendingTasks(ctx)
	run.TasksProcessed = processed
	run.Errors = errCount

	end := time.Now()
	run.EndTime = &end
	if err != nil || errCount > 0 {
		run.Status = "failed"
	} else {
		run.Status = "completed"
	}

	if recErr := w.client.RecordWorkflowRun(ctx, run); recErr != nil {
		w.logger.Error(ctx, "recording run failed", "error", recErr)
		if err == nil {
			err = recErr
		}
	}

	w.logger.Info(ctx, "run finished",
		"run_id", run.RunID, "status", run.Status,
		"processed", processed, "errors", errCount)
	return err
}

func (w *Worker) processPendingTasks(ctx context.Context) (processed, errCount int, err error) {
	tasks, err := w.client.FetchPendingTasks(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(tasks) == 0 {
		w.logger.Info(ctx, "no pending tasks")
		return 0, 0, nil
	}

	byID := make(map[int64]*api.Task, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	deps, err := w.client.FetchDependencies(ctx, ids)
	if err != nil {
		return 0, 0, err
	}

	// Split edges: those inside the pending set shape the run graph; a
	// prerequisite outside the set blocks its dependent unless it is
	// already completed.
	var edges []dag.Edge
	external := make(map[int64][]int64)
	for _, d := range deps {
		if _, in := byID[d.DependsOnID]; in {
			edges = append(edges, dag.Edge{From: d.DependsOnID, To: d.TaskID})
		} else {
			external[d.TaskID] = append(external[d.TaskID], d.DependsOnID)
		}
	}

	graph, err := dag.NewGraph(ids, edges)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range graph.DroppedEdges() {
		w.logger.Warn(ctx, "dependency cycle broken", "from", e.From, "to", e.To)
	}

	state := dag.NewExecutionState(graph)

	// Tasks waiting on unfinished work outside this batch sit out this run.
	for taskID, prereqs := range external {
		for _, prereqID := range prereqs {
			prereq, err := w.client.GetTask(ctx, prereqID)
			if err != nil || prereq.Status != models.TaskStatusCompleted {
				w.logger.Info(ctx, "task blocked by incomplete dependency",
					"task_id", taskID, "depends_on", prereqID)
				_ = dag.Transition(state, taskID, dag.TaskPending, dag.TaskSkipped)
				break
			}
		}
	}

	for {
		ready := dag.GetReadyTasks(graph, state)
		if len(ready) == 0 {
			break
		}

		for _, id := range ready {
			if err := w.processTask(ctx, byID[id], graph, state); err != nil {
				w.logger.Error(ctx, "task failed", "task_id", id, "error", err)
				errCount++
				continue
			}
			processed++
		}
	}

	return processed, errCount, nil
}

// processTask runs a single ready task: re-analyze priority, move it to
// in_progress, record text metrics, and complete it. Failures propagate to
// dependents via the state machine.
func (w *Worker) processTask(ctx context.Context, task *api.Task, graph *dag.Graph, state dag.ExecutionState) error {
	if err := dag.Transition(state, task.ID, dag.TaskPending, dag.TaskRunning); err != nil {
		return err
	}

	fail := func(err error) error {
		if perr := dag.FailAndPropagate(graph, state, task.ID); perr != nil {
			w.logger.Error(ctx, "failure propagation error", "task_id", task.ID, "error", perr)
		}
		return err
	}

	if suggested := textan.SuggestPriority(task.Description, task.Priority); suggested != task.Priority {
		w.logger.Info(ctx, "priority adjusted",
			"task_id", task.ID, "old", task.Priority, "new", suggested)
		if err := w.client.UpdateTaskPriority(ctx, task, suggested); err != nil {
			return fail(err)
		}
		task.Priority = suggested
	}

	if err := w.client.SetTaskStatus(ctx, task.ID, models.TaskStatusInProgress); err != nil {
		return fail(err)
	}

	if w.processDelay > 0 {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		case <-time.After(w.processDelay):
		}
	}

	complexity := textan.Complexity(task.Description)
	keywords := textan.UrgencyKeywords(task.Description)
	metrics := []api.Metric{
		{MetricType: models.MetricComplexity, Value: complexity},
		{MetricType: models.MetricUrgencyKeywords, Value: float64(keywords)},
		{MetricType: models.MetricTimeEstimationFactor, Value: textan.TimeEstimationFactor(complexity, keywords)},
	}
	for _, m := range metrics {
		if err := w.client.RecordMetric(ctx, task.ID, m); err != nil {
			return fail(err)
		}
	}

	if err := w.client.SetTaskStatus(ctx, task.ID, models.TaskStatusCompleted); err != nil {
		return fail(err)
	}

	return dag.Transition(state, task.ID, dag.TaskRunning, dag.TaskCompleted)
}
