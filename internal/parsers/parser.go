package parsers

import "github.com/ethanolivertroy/incgraph/internal/models"

// Parser is the interface for reference scanners
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts dependency references from the file content in
	// first-occurrence order. Malformed directives become warnings and
	// never stop the scan.
	Parse(path string, content []byte) ([]models.DependencyReference, []models.MalformedReferenceWarning)
}

// GetAllParsers returns all available parsers
func GetAllParsers() []Parser {
	return []Parser{
		&IncludeParser{},
	}
}

// ForFile returns the first parser accepting filename
func ForFile(parsers []Parser, filename string) (Parser, bool) {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p, true
		}
	}
	return nil, false
}
