package graph

import (
	"sort"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// fakeClassifier resolves references by raw token
type fakeClassifier map[string]models.Classification

func (f fakeClassifier) Classify(_ string, ref models.DependencyReference) models.Classification {
	if c, ok := f[ref.Raw]; ok {
		return c
	}
	return models.Classification{Provenance: models.ProvenanceUnresolved}
}

func internalPkg(pkg string) models.Classification {
	return models.Classification{Provenance: models.ProvenanceInternal, Package: pkg}
}

func thirdPartyPkg(pkg string) models.Classification {
	return models.Classification{Provenance: models.ProvenanceThirdParty, Package: pkg}
}

func toolchainRef() models.Classification {
	return models.Classification{Provenance: models.ProvenanceToolchain}
}

func refs(raw ...string) []models.DependencyReference {
	out := make([]models.DependencyReference, 0, len(raw))
	for i, r := range raw {
		out = append(out, models.DependencyReference{Raw: r, Form: models.FormQuoted, Line: i + 1})
	}
	return out
}

// edgeGraph builds a graph straight from "from->to" pairs
func edgeGraph(ids []string, pairs ...[2]string) *models.DependencyGraph {
	g := &models.DependencyGraph{Nodes: make(map[string]*models.PackageNode)}
	for _, id := range ids {
		g.Nodes[id] = &models.PackageNode{ID: id, Kind: models.KindInternalLibrary}
	}
	for _, p := range pairs {
		g.Edges = append(g.Edges, models.ResolvedEdge{From: p[0], To: p[1], Provenance: models.ProvenanceInternal})
	}
	sortEdges(g.Edges)
	for _, e := range g.Edges {
		g.Nodes[e.From].Direct = append(g.Nodes[e.From].Direct, e.To)
	}
	for _, n := range g.Nodes {
		sort.Strings(n.Direct)
	}
	return g
}
