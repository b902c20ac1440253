package models

// Form is the syntactic form of an inclusion directive
type Form string

const (
	FormAngle  Form = "angle"  // #include <path>
	FormQuoted Form = "quoted" // #include "path"
)

// DependencyReference is a raw inclusion token extracted from a module.
// Form drives search order during classification but never resolves
// provenance on its own.
type DependencyReference struct {
	Raw  string `json:"raw"`
	Form Form   `json:"form"`
	Line int    `json:"line"` // Line of first occurrence
}

// String returns the reference as it would be written in a directive
func (r DependencyReference) String() string {
	if r.Form == FormAngle {
		return "<" + r.Raw + ">"
	}
	return `"` + r.Raw + `"`
}

// SourceModule is one scanned source file. Values are produced by the scan
// phase and not modified afterwards.
type SourceModule struct {
	Path       string                      `json:"path"` // Canonical, slash-separated, project-relative
	Package    string                      `json:"package"`
	References []DependencyReference       `json:"references"`
	Warnings   []MalformedReferenceWarning `json:"warnings,omitempty"`
}

// Provenance is the classification of a dependency reference
type Provenance string

const (
	ProvenanceToolchain  Provenance = "toolchain"
	ProvenanceThirdParty Provenance = "third-party"
	ProvenanceInternal   Provenance = "internal"
	ProvenanceUnresolved Provenance = "unresolved"
)

// Classification is the outcome of classifying a single reference.
// Package is empty for toolchain and unresolved references.
type Classification struct {
	Provenance Provenance
	Package    string
}

// Resolved reports whether the reference matched any provenance rule
func (c Classification) Resolved() bool {
	return c.Provenance != ProvenanceUnresolved && c.Provenance != ""
}
