package reporter

import (
	"fmt"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// TerminalReporter outputs a human-readable summary of the resolution
type TerminalReporter struct{}

// Report generates terminal output for result
func (r *TerminalReporter) Report(result *models.Result) ([]byte, error) {
	var sb strings.Builder

	title := result.Project.Name
	if result.Project.Version != "" {
		title += " " + result.Project.Version
	}
	sb.WriteString(fmt.Sprintf("\n%s\n", title))
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	if g := result.Graph; g != nil {
		sb.WriteString(fmt.Sprintf("✅ Resolved %d packages and %d edges\n\n", len(g.Nodes), len(g.Edges)))
		writeOrder(&sb, g)
		writePackages(&sb, g)
		if len(result.Applications) > 0 {
			sb.WriteString(fmt.Sprintf("Applications: %s\n", strings.Join(result.Applications, ", ")))
		}
		if len(result.Tests) > 0 {
			sb.WriteString(fmt.Sprintf("Tests:        %s\n", strings.Join(result.Tests, ", ")))
		}
	} else {
		sb.WriteString("❌ RESOLUTION FAILED, no graph produced\n")
	}

	writeDiagnostics(&sb, &result.Diagnostics)
	return []byte(sb.String()), nil
}

func writeOrder(sb *strings.Builder, g *models.DependencyGraph) {
	width := 0
	for _, id := range g.Order {
		width = max(width, len(id))
	}

	sb.WriteString("Build order:\n")
	for i, id := range g.Order {
		sb.WriteString(fmt.Sprintf("  %2d. %-*s  (%s)\n", i+1, width, id, g.Nodes[id].Kind))
	}
	sb.WriteString("\n")
}

func writePackages(sb *strings.Builder, g *models.DependencyGraph) {
	for _, id := range g.IDs() {
		n := g.Nodes[id]
		sb.WriteString(fmt.Sprintf("📦 %s [%s] %d modules\n", n.ID, n.Kind, len(n.Modules)))
		sb.WriteString(fmt.Sprintf("   direct:     %s\n", listOrDash(n.Direct)))
		sb.WriteString(fmt.Sprintf("   transitive: %s\n", listOrDash(n.Transitive)))
		if len(n.Toolchain) > 0 {
			sb.WriteString(fmt.Sprintf("   toolchain:  %s\n", strings.Join(n.Toolchain, ", ")))
		}
	}
	sb.WriteString("\n")
}

func writeDiagnostics(sb *strings.Builder, d *models.Diagnostics) {
	if len(d.Malformed) > 0 || len(d.Unreachable) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️  %d warnings\n", len(d.Malformed)+len(d.Unreachable)))
		for _, w := range d.Malformed {
			sb.WriteString("   " + w.String() + "\n")
		}
		for _, w := range d.Unreachable {
			sb.WriteString("   " + w.String() + "\n")
		}
	}

	if len(d.Unresolved) > 0 {
		sb.WriteString(fmt.Sprintf("\n🔴 %d unresolved references\n", len(d.Unresolved)))
		for _, u := range d.Unresolved {
			line := "   " + u.Error()
			if u.Optional {
				line += " (optional)"
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(d.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("\n🚨 %d errors\n", len(d.Errors)))
		for _, err := range d.Errors {
			sb.WriteString(fmt.Sprintf("   %s: %v\n", models.ErrorKind(err), err))
		}
	}
}

func listOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
