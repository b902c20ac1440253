package graph

import (
	"container/heap"
	"fmt"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// readyQueue is a min-heap of package ids
type readyQueue []string

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(string)) }
func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Order returns a build order in which every package follows all of its
// dependencies. Among packages whose dependencies are all placed, the
// lexicographically smallest id goes first.
func Order(g *models.DependencyGraph) ([]string, error) {
	pending := make(map[string]int, len(g.Nodes))
	dependents := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		pending[e.From]++
		dependents[e.To] = append(dependents[e.To], e.From)
	}

	ready := &readyQueue{}
	for _, id := range g.IDs() {
		if pending[id] == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.Nodes))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for _, d := range dependents[id] {
			pending[d]--
			if pending[d] == 0 {
				heap.Push(ready, d)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("build order incomplete: %d of %d packages placed", len(order), len(g.Nodes))
	}
	return order, nil
}
