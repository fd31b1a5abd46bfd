package dag

import (
	"fmt"
	"sort"
)

// TaskState is the runtime execution state of a node during one worker run.
type TaskState string

const (
	TaskPending   TaskState = "PENDING"
	TaskRunning   TaskState = "RUNNING"
	TaskCompleted TaskState = "COMPLETED"
	TaskFailed    TaskState = "FAILED"
	TaskSkipped   TaskState = "SKIPPED"
)

// ExecutionState maps task ID to its current TaskState.
//
// It is intentionally a plain map so the scheduling helpers can remain pure
// functions without coupling to the worker loop.
type ExecutionState map[int64]TaskState

// NewExecutionState marks every node of the graph PENDING.
func NewExecutionState(g *Graph) ExecutionState {
	state := make(ExecutionState, len(g.nodes))
	for _, id := range g.nodes {
		state[id] = TaskPending
	}
	return state
}

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s TaskState) bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskSkipped:
		return true
	default:
		return false
	}
}

// GetReadyTasks returns the ascending list of task IDs eligible to run.
//
// A task is ready iff it is PENDING and all its prerequisites are COMPLETED.
// This function is pure: it does not mutate graph or state.
func GetReadyTasks(g *Graph, state ExecutionState) []int64 {
	if g == nil {
		return nil
	}

	ready := make([]int64, 0)
	for i, id := range g.nodes {
		st, ok := state[id]
		if !ok || st != TaskPending {
			continue
		}

		depsOK := true
		for _, p := range g.in[i] {
			pst, ok := state[g.nodes[p]]
			if !ok || pst != TaskCompleted {
				depsOK = false
				break
			}
		}
		if depsOK {
			ready = append(ready, id)
		}
	}

	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
	return ready
}

// Transition performs an atomic validated transition for a single task.
//
// The caller supplies the expected prior state (from) to make races
// observable. The state map is mutated iff the transition is valid.
func Transition(state ExecutionState, id int64, from, to TaskState) error {
	cur, ok := state[id]
	if !ok {
		return fmt.Errorf("unknown task in state: %d", id)
	}
	if cur != from {
		return fmt.Errorf("invalid transition for %d: expected %s, got %s", id, from, cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition for %d: %s -> %s", id, from, to)
	}
	state[id] = to
	return nil
}

func isAllowedTransition(from, to TaskState) bool {
	switch from {
	case TaskPending:
		return to == TaskRunning || to == TaskSkipped
	case TaskRunning:
		return to == TaskCompleted || to == TaskFailed
	default:
		return false
	}
}

// FailAndPropagate transitions id from RUNNING to FAILED and transitively
// marks all downstream PENDING dependents as SKIPPED.
func FailAndPropagate(g *Graph, state ExecutionState, id int64) error {
	if g == nil {
		return fmt.Errorf("nil graph")
	}
	start, ok := g.index[id]
	if !ok {
		return fmt.Errorf("unknown task: %d", id)
	}

	cur, ok := state[id]
	if !ok {
		return fmt.Errorf("unknown task in state: %d", id)
	}
	if cur != TaskRunning && cur != TaskFailed {
		return fmt.Errorf("cannot fail %d from state %s", id, cur)
	}
	state[id] = TaskFailed

	visited := make([]bool, len(g.nodes))
	visited[start] = true
	queue := append([]int(nil), g.out[start]...)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}
		visited[u] = true

		name := g.nodes[u]
		if state[name] == TaskPending {
			state[name] = TaskSkipped
		}

		queue = append(queue, g.out[u]...)
	}

	return nil
}
