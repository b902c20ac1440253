// Package graph turns scanned modules into a validated, ordered package graph.
//
// The phases run strictly in sequence over in-memory data:
//
//	Build    classified file references -> package nodes and edges
//	Detect   Tarjan strongly connected components, zero tolerance
//	Order    Kahn's algorithm, smallest ready id first
//	Closure  memoized transitive dependencies in build order
package graph

import (
	"fmt"
	"sort"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// Classifier assigns a provenance to a reference found in a module
type Classifier interface {
	Classify(from string, ref models.DependencyReference) models.Classification
}

// Builder aggregates file-level references into package-level edges
type Builder struct {
	classifier Classifier
}

// NewBuilder creates a builder using c for every reference
func NewBuilder(c Classifier) *Builder {
	return &Builder{classifier: c}
}

// BuildOutput is a frozen, not yet validated graph plus the references that
// could not be classified.
type BuildOutput struct {
	Graph      *models.DependencyGraph
	Unresolved []models.UnresolvedReferenceError
}

type edgeKey struct{ from, to string }

// Build creates one node per declared package and one edge per depending
// package pair. Modules are processed in canonical path order, so the
// result does not depend on the order they were scanned in.
func (b *Builder) Build(project *models.Project, modules []models.SourceModule) (*BuildOutput, error) {
	membership := project.Membership()

	sorted := append([]models.SourceModule(nil), modules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	g := &models.DependencyGraph{Nodes: make(map[string]*models.PackageNode, len(project.Packages))}
	for _, spec := range project.Packages {
		g.Nodes[spec.Name] = &models.PackageNode{
			ID:      spec.Name,
			Kind:    spec.Kind,
			Root:    spec.Root,
			Modules: append([]string(nil), spec.Modules...),
		}
	}

	out := &BuildOutput{Graph: g}
	edges := make(map[edgeKey]*models.ResolvedEdge)
	toolchain := make(map[string]map[string]bool)

	for _, mod := range sorted {
		from, ok := membership[mod.Path]
		if !ok {
			return nil, fmt.Errorf("module %s is not a member of any package", mod.Path)
		}
		spec, _ := project.Package(from)

		for _, ref := range mod.References {
			cls := b.classifier.Classify(mod.Path, ref)

			if cls.Provenance == models.ProvenanceToolchain {
				if toolchain[from] == nil {
					toolchain[from] = make(map[string]bool)
				}
				toolchain[from][ref.Raw] = true
				continue
			}
			if !cls.Resolved() {
				out.Unresolved = append(out.Unresolved, models.UnresolvedReferenceError{
					Module:   mod.Path,
					Raw:      ref.Raw,
					Form:     ref.Form,
					Line:     ref.Line,
					Optional: spec.IsOptional(mod.Path),
				})
				continue
			}

			to := cls.Package
			if to == from {
				continue
			}
			if _, ok := g.Nodes[to]; !ok {
				return nil, fmt.Errorf("reference %q in %s resolved to undeclared package %s", ref.Raw, mod.Path, to)
			}

			key := edgeKey{from, to}
			e, ok := edges[key]
			if !ok {
				e = &models.ResolvedEdge{From: from, To: to, Provenance: models.ProvenanceInternal}
				edges[key] = e
			}
			if cls.Provenance == models.ProvenanceThirdParty {
				e.Provenance = models.ProvenanceThirdParty
			}
			e.References = append(e.References, models.EdgeReference{
				Module:     mod.Path,
				Raw:        ref.Raw,
				Provenance: cls.Provenance,
			})
		}
	}

	g.Edges = make([]models.ResolvedEdge, 0, len(edges))
	for _, e := range edges {
		g.Edges = append(g.Edges, *e)
	}
	sortEdges(g.Edges)

	for _, e := range g.Edges {
		n := g.Nodes[e.From]
		n.Direct = append(n.Direct, e.To)
	}
	for id, set := range toolchain {
		g.Nodes[id].Toolchain = sortedKeys(set)
	}

	return out, nil
}

func sortEdges(edges []models.ResolvedEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
