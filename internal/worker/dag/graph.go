// Package dag builds the per-run dependency graph for the worker.
//
// Unlike the server, which only rejects self-dependencies, this package must
// tolerate whatever edge set is stored: cycles are broken by dropping the
// closing edge, and the remaining acyclic graph drives execution order.
package dag

import (
	"fmt"
	"sort"
)

// Edge is a dependency edge: To depends on From, so From runs first.
type Edge struct {
	From int64
	To   int64
}

// Graph is an immutable, acyclic dependency graph over task IDs.
type Graph struct {
	nodes   []int64 // canonical ascending order
	index   map[int64]int
	edges   []Edge // kept edges, canonical order
	out     [][]int
	in      [][]int
	dropped []Edge // edges removed to break cycles
}

// NewGraph builds a Graph from task IDs and raw dependency edges.
//
// Edges whose endpoints are not in the task set, self-loops, and duplicates
// are discarded silently. Cycles are broken by dropping the edge that closes
// each cycle; the dropped edges are reported via DroppedEdges.
func NewGraph(taskIDs []int64, edges []Edge) (*Graph, error) {
	if len(taskIDs) == 0 {
		return nil, fmt.Errorf("no tasks")
	}

	nodes := make([]int64, 0, len(taskIDs))
	index := make(map[int64]int, len(taskIDs))
	for _, id := range taskIDs {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = 0 // placeholder, fixed after sort
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	for i, id := range nodes {
		index[id] = i
	}

	// Canonicalize edges.
	type pair struct{ from, to int }
	seen := make(map[pair]struct{}, len(edges))
	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		fi, okFrom := index[e.From]
		ti, okTo := index[e.To]
		if !okFrom || !okTo || fi == ti {
			continue
		}
		p := pair{from: fi, to: ti}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	g := &Graph{nodes: nodes, index: index}
	g.edges, g.dropped = breakCycles(nodes, index, kept)

	g.out = make([][]int, len(nodes))
	g.in = make([][]int, len(nodes))
	for _, e := range g.edges {
		fi, ti := index[e.From], index[e.To]
		g.out[fi] = append(g.out[fi], ti)
		g.in[ti] = append(g.in[ti], fi)
	}
	for i := range g.out {
		sort.Ints(g.out[i])
	}
	for i := range g.in {
		sort.Ints(g.in[i])
	}

	return g, nil
}

// breakCycles removes edges that close a cycle, found by DFS back-edge
// detection in canonical order, and returns the kept and dropped sets.
func breakCycles(nodes []int64, index map[int64]int, edges []Edge) (kept, dropped []Edge) {
	out := make([][]int, len(nodes))
	edgeAt := make(map[[2]int]Edge, len(edges))
	for _, e := range edges {
		fi, ti := index[e.From], index[e.To]
		out[fi] = append(out[fi], ti)
		edgeAt[[2]int{fi, ti}] = e
	}
	for i := range out {
		sort.Ints(out[i])
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(nodes))
	droppedSet := make(map[[2]int]struct{})

	var visit func(u int)
	visit = func(u int) {
		color[u] = gray
		for _, v := range out[u] {
			if _, gone := droppedSet[[2]int{u, v}]; gone {
				continue
			}
			switch color[v] {
			case white:
				visit(v)
			case gray:
				// back edge closes a cycle; drop it
				droppedSet[[2]int{u, v}] = struct{}{}
			}
		}
		color[u] = black
	}

	for i := range nodes {
		if color[i] == white {
			visit(i)
		}
	}

	for _, e := range edges {
		key := [2]int{index[e.From], index[e.To]}
		if _, gone := droppedSet[key]; gone {
			dropped = append(dropped, e)
		} else {
			kept = append(kept, e)
		}
	}
	return kept, dropped
}

// Nodes returns the task IDs in canonical ascending order.
func (g *Graph) Nodes() []int64 {
	out := make([]int64, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the kept dependency edges.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// DroppedEdges returns the edges removed to break cycles.
func (g *Graph) DroppedEdges() []Edge {
	out := make([]Edge, len(g.dropped))
	copy(out, g.dropped)
	return out
}

// Dependencies returns the direct prerequisites of a task.
func (g *Graph) Dependencies(id int64) []int64 {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(g.in[i]))
	for _, p := range g.in[i] {
		out = append(out, g.nodes[p])
	}
	return out
}

// TopoOrder returns the task IDs in dependency order. Among tasks whose
// prerequisites are satisfied, lower IDs come first, so the order is
// deterministic for a given graph.
func (g *Graph) TopoOrder() []int64 {
	indeg := make([]int, len(g.nodes))
	for _, e := range g.edges {
		indeg[g.index[e.To]]++
	}

	// ready queue as a sorted list; graphs here are worker-batch sized
	var ready []int
	for i, d := range indeg {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	order := make([]int64, 0, len(g.nodes))
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		order = append(order, g.nodes[u])

		for _, v := range g.out[u] {
			indeg[v]--
			if indeg[v] == 0 {
				ready = append(ready, v)
				sort.Ints(ready)
			}
		}
	}

	return order
}
