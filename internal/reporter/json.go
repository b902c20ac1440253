package reporter

import (
	"encoding/json"
	"errors"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// JSONReporter outputs the canonical graph artifact. Identical results
// always serialize to identical bytes.
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	Project      jsonProject     `json:"project"`
	OK           bool            `json:"ok"`
	BuildOrder   []string        `json:"build_order"`
	Packages     []jsonPackage   `json:"packages"`
	Edges        []jsonEdge      `json:"edges"`
	Applications []string        `json:"applications"`
	Tests        []string        `json:"tests"`
	Diagnostics  jsonDiagnostics `json:"diagnostics"`
}

type jsonProject struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type jsonPackage struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Modules    []string `json:"modules"`
	Direct     []string `json:"direct"`
	Transitive []string `json:"transitive"`
	Toolchain  []string `json:"toolchain"`
}

type jsonEdge struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Provenance string          `json:"provenance"`
	References []jsonReference `json:"references"`
}

type jsonReference struct {
	Module string `json:"module"`
	Raw    string `json:"raw"`
}

type jsonDiagnostics struct {
	Warnings   []jsonWarning                     `json:"warnings"`
	Unresolved []models.UnresolvedReferenceError `json:"unresolved"`
	Errors     []jsonError                       `json:"errors"`
}

type jsonWarning struct {
	Kind    string `json:"kind"`
	Module  string `json:"module,omitempty"`
	Line    int    `json:"line,omitempty"`
	Package string `json:"package,omitempty"`
	Message string `json:"message"`
}

type jsonError struct {
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Cycles  []jsonCycle `json:"cycles,omitempty"`
}

type jsonCycle struct {
	Members []string `json:"members"`
	Path    []string `json:"path"`
}

// Report generates the JSON artifact for result
func (r *JSONReporter) Report(result *models.Result) ([]byte, error) {
	output := jsonOutput{
		Project:      jsonProject{Name: result.Project.Name, Version: result.Project.Version},
		OK:           result.OK(),
		BuildOrder:   []string{},
		Packages:     []jsonPackage{},
		Edges:        []jsonEdge{},
		Applications: orEmpty(result.Applications),
		Tests:        orEmpty(result.Tests),
		Diagnostics:  buildDiagnostics(&result.Diagnostics),
	}

	if g := result.Graph; g != nil {
		output.BuildOrder = orEmpty(g.Order)
		for _, id := range g.IDs() {
			n := g.Nodes[id]
			output.Packages = append(output.Packages, jsonPackage{
				ID:         n.ID,
				Kind:       string(n.Kind),
				Modules:    orEmpty(n.Modules),
				Direct:     orEmpty(n.Direct),
				Transitive: orEmpty(n.Transitive),
				Toolchain:  orEmpty(n.Toolchain),
			})
		}
		for _, e := range g.Edges {
			je := jsonEdge{
				From:       e.From,
				To:         e.To,
				Provenance: string(e.Provenance),
				References: make([]jsonReference, 0, len(e.References)),
			}
			for _, ref := range e.References {
				je.References = append(je.References, jsonReference{Module: ref.Module, Raw: ref.Raw})
			}
			output.Edges = append(output.Edges, je)
		}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func buildDiagnostics(d *models.Diagnostics) jsonDiagnostics {
	out := jsonDiagnostics{
		Warnings:   []jsonWarning{},
		Unresolved: []models.UnresolvedReferenceError{},
		Errors:     []jsonError{},
	}

	for _, w := range d.Malformed {
		out.Warnings = append(out.Warnings, jsonWarning{
			Kind:    "MalformedReferenceWarning",
			Module:  w.Module,
			Line:    w.Line,
			Message: w.Reason + ": " + w.Text,
		})
	}
	for _, w := range d.Unreachable {
		out.Warnings = append(out.Warnings, jsonWarning{
			Kind:    "UnreachablePackageWarning",
			Package: w.Package,
			Message: w.String(),
		})
	}
	out.Unresolved = append(out.Unresolved, d.Unresolved...)

	for _, err := range d.Errors {
		je := jsonError{Kind: models.ErrorKind(err), Message: err.Error()}
		var cycleErr *models.DependencyCycleError
		if errors.As(err, &cycleErr) {
			for _, c := range cycleErr.Cycles {
				je.Cycles = append(je.Cycles, jsonCycle{Members: c.Members, Path: c.Path})
			}
		}
		out.Errors = append(out.Errors, je)
	}
	return out
}
