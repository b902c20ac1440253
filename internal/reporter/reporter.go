package reporter

import "github.com/ethanolivertroy/incgraph/internal/models"

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given resolution result
	Report(result *models.Result) ([]byte, error)
}

// Formats lists the accepted --format values
var Formats = []string{"json", "terminal", "sarif"}

// Valid reports whether format names a reporter
func Valid(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Get returns a reporter for the specified format
func Get(format string) Reporter {
	switch format {
	case "terminal":
		return &TerminalReporter{}
	case "sarif":
		return &SARIFReporter{}
	default:
		return &JSONReporter{}
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
