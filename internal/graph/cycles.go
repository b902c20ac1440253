package graph

import (
	"sort"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// tarjan holds the bookkeeping of Tarjan's strongly connected components
type tarjan struct {
	g       *models.DependencyGraph
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	next    int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.Nodes[v].Direct {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var scc []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

// DetectCycles reports every strongly connected component of more than one
// package, and every self-loop, as a single *models.DependencyCycleError.
func DetectCycles(g *models.DependencyGraph) error {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int, len(g.Nodes)),
		lowlink: make(map[string]int, len(g.Nodes)),
		onStack: make(map[string]bool, len(g.Nodes)),
	}
	for _, id := range g.IDs() {
		if _, seen := t.index[id]; !seen {
			t.strongConnect(id)
		}
	}

	var cycles []models.Cycle
	for _, scc := range t.sccs {
		if len(scc) == 1 && !hasSelfLoop(g, scc[0]) {
			continue
		}
		sort.Strings(scc)
		cycles = append(cycles, models.Cycle{
			Members: scc,
			Path:    witness(g, scc),
		})
	}
	if len(cycles) == 0 {
		return nil
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Members[0] < cycles[j].Members[0] })
	return &models.DependencyCycleError{Cycles: cycles}
}

func hasSelfLoop(g *models.DependencyGraph, id string) bool {
	for _, d := range g.Nodes[id].Direct {
		if d == id {
			return true
		}
	}
	return false
}

// witness finds a simple cycle through the smallest member of scc by a
// depth-first walk restricted to the component, neighbours in sorted order.
func witness(g *models.DependencyGraph, scc []string) []string {
	start := scc[0]
	member := make(map[string]bool, len(scc))
	for _, id := range scc {
		member[id] = true
	}

	visited := make(map[string]bool)
	var path []string
	var walk func(v string) bool
	walk = func(v string) bool {
		visited[v] = true
		path = append(path, v)
		for _, w := range g.Nodes[v].Direct {
			if w == start {
				return true
			}
			if member[w] && !visited[w] && walk(w) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if !walk(start) {
		return []string{start}
	}
	return path
}
