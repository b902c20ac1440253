package graph

import (
	"sort"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// ClosureResolver computes transitive dependencies over a validated,
// acyclic graph. Each package is computed once; a changed graph needs a
// new resolver.
type ClosureResolver struct {
	g        *models.DependencyGraph
	position map[string]int
	own      map[string][]string
	memo     map[string]map[string]bool
}

// NewClosureResolver prepares a resolver for g. order must be the build
// order returned by Order.
func NewClosureResolver(g *models.DependencyGraph, order []string) *ClosureResolver {
	r := &ClosureResolver{
		g:        g,
		position: make(map[string]int, len(order)),
		own:      make(map[string][]string, len(g.Nodes)),
		memo:     make(map[string]map[string]bool, len(g.Nodes)),
	}
	for i, id := range order {
		r.position[id] = i
	}
	for id, n := range g.Nodes {
		r.own[id] = n.Toolchain
	}
	return r
}

func (r *ClosureResolver) closure(id string) map[string]bool {
	if set, ok := r.memo[id]; ok {
		return set
	}
	set := make(map[string]bool)
	for _, dep := range r.g.Nodes[id].Direct {
		set[dep] = true
		for t := range r.closure(dep) {
			set[t] = true
		}
	}
	r.memo[id] = set
	return set
}

// Transitive returns every direct and indirect dependency of id, with
// dependencies before dependents.
func (r *ClosureResolver) Transitive(id string) []string {
	set := r.closure(id)
	out := make([]string, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return r.position[out[i]] < r.position[out[j]] })
	return out
}

// Toolchain returns the toolchain references of id and of everything it
// depends on, as a sorted flat set.
func (r *ClosureResolver) Toolchain(id string) []string {
	set := make(map[string]bool)
	for _, h := range r.own[id] {
		set[h] = true
	}
	for dep := range r.closure(id) {
		for _, h := range r.own[dep] {
			set[h] = true
		}
	}
	return sortedKeys(set)
}

// Apply stores the transitive list and toolchain set on every node
func (r *ClosureResolver) Apply() {
	for id, n := range r.g.Nodes {
		n.Transitive = r.Transitive(id)
		n.Toolchain = r.Toolchain(id)
	}
}
