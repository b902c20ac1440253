package models

import "sort"

// EdgeReference is one raw reference that contributed to an edge
type EdgeReference struct {
	Module     string     `json:"module"`
	Raw        string     `json:"raw"`
	Provenance Provenance `json:"provenance"`
}

// ResolvedEdge is a package-level depends-on edge. All raw references
// between the same package pair collapse into one edge.
type ResolvedEdge struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Provenance Provenance      `json:"provenance"`
	References []EdgeReference `json:"references"`
}

// PackageNode is a build target in the dependency graph
type PackageNode struct {
	ID      string
	Kind    PackageKind
	Root    bool
	Modules []string

	Direct     []string // Sorted package ids
	Transitive []string // Dependencies before dependents
	Toolchain  []string // Flat sorted set, own and inherited
}

// DependencyGraph is the validated package graph. It is never modified
// after validation succeeds.
type DependencyGraph struct {
	Nodes map[string]*PackageNode
	Edges []ResolvedEdge // Sorted by (From, To)
	Order []string       // Deterministic build order
}

// IDs returns the package ids in lexicographic order
func (g *DependencyGraph) IDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Node returns the node for id
func (g *DependencyGraph) Node(id string) (*PackageNode, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}
