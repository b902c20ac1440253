package models

import "fmt"

// PackageKind is the role a package plays in the build
type PackageKind string

const (
	KindApplication     PackageKind = "application"
	KindInternalLibrary PackageKind = "internal-library"
	KindThirdParty      PackageKind = "third-party"
)

// ParseKind accepts the canonical kind names plus a few short aliases
func ParseKind(s string) (PackageKind, error) {
	switch s {
	case "application", "app":
		return KindApplication, nil
	case "internal-library", "library", "lib", "":
		return KindInternalLibrary, nil
	case "third-party", "vendor":
		return KindThirdParty, nil
	}
	return "", fmt.Errorf("unknown package kind %q", s)
}

// PackageSpec is one pre-declared package of the membership map
type PackageSpec struct {
	Name    string
	Kind    PackageKind
	Modules []string // Canonical module paths, sorted
	Dirs    []string // Canonical directories owned by the package

	// Generated lists directories whose headers are produced by the build
	// and may be absent when the tree is scanned.
	Generated []string

	// Root marks a library that need not be reachable from an application
	Root bool

	// Optional relaxes unresolved references for every module of the package
	Optional        bool
	OptionalModules []string
}

// IsOptional reports whether unresolved references in module are tolerated
func (p *PackageSpec) IsOptional(module string) bool {
	if p.Optional {
		return true
	}
	for _, m := range p.OptionalModules {
		if m == module {
			return true
		}
	}
	return false
}

// ThirdPartyRoot maps an inclusion-path prefix to the package that owns it
type ThirdPartyRoot struct {
	Prefix  string
	Package string
}

// ResolutionConfig drives the provenance classifier
type ResolutionConfig struct {
	Toolchain       []string // Exact allowlist
	StandardHeaders bool     // Extend Toolchain with the C and C++ standard headers

	ThirdParty    []ThirdPartyRoot // Declaration order is kept
	InternalRoots []string         // Canonical search directories

	// AllowUnreachable downgrades packages no entry point reaches from
	// errors to warnings.
	AllowUnreachable bool
}

// Project is a validated project description: the package membership map
// plus the resolution configuration.
type Project struct {
	Name    string
	Version string
	Root    string // Absolute directory module paths are relative to

	Packages   []*PackageSpec // Sorted by name
	Resolution ResolutionConfig
}

// Package returns the package with the given name
func (p *Project) Package(name string) (*PackageSpec, bool) {
	for _, pkg := range p.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return nil, false
}

// Membership returns the module path -> package id map
func (p *Project) Membership() map[string]string {
	m := make(map[string]string)
	for _, pkg := range p.Packages {
		for _, mod := range pkg.Modules {
			m[mod] = pkg.Name
		}
	}
	return m
}
