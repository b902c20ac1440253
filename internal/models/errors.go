package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrResolutionFailed wraps every fatal outcome of a resolution run
var ErrResolutionFailed = errors.New("resolution failed")

// ScanIOError reports a module that could not be read. It aborts the run.
type ScanIOError struct {
	Path string
	Err  error
}

func (e *ScanIOError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanIOError) Unwrap() error { return e.Err }

// MalformedReferenceWarning is a directive the scanner could not make sense of.
// It never blocks graph emission.
type MalformedReferenceWarning struct {
	Module string `json:"module"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (w MalformedReferenceWarning) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", w.Module, w.Line, w.Reason, w.Text)
}

// UnresolvedReferenceError is a reference matching no toolchain, third-party
// or internal root. Optional marks references from optional modules, which
// are reported but not fatal.
type UnresolvedReferenceError struct {
	Module   string `json:"module"`
	Raw      string `json:"raw"`
	Form     Form   `json:"form"`
	Line     int    `json:"line"`
	Optional bool   `json:"optional,omitempty"`
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s:%d: unresolved reference %q", e.Module, e.Line, e.Raw)
}

// Cycle is one strongly connected component of the package graph
type Cycle struct {
	Members []string // Sorted membership
	Path    []string // A witness cycle in edge order, starting at Members[0]
}

// DependencyCycleError lists every package-level cycle
type DependencyCycleError struct {
	Cycles []Cycle
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		walk := append(append([]string{}, c.Path...), c.Path[0])
		parts = append(parts, fmt.Sprintf("{%s}: %s", strings.Join(c.Members, ", "), strings.Join(walk, " -> ")))
	}
	return "dependency cycle " + strings.Join(parts, "; ")
}

// Packages returns every package taking part in a cycle, sorted
func (e *DependencyCycleError) Packages() []string {
	var out []string
	for _, c := range e.Cycles {
		out = append(out, c.Members...)
	}
	sort.Strings(out)
	return out
}

// DuplicatePackageDefinitionError is a module claimed by more than one package
type DuplicatePackageDefinitionError struct {
	Module   string
	Packages []string
}

func (e *DuplicatePackageDefinitionError) Error() string {
	return fmt.Sprintf("module %s claimed by packages %s", e.Module, strings.Join(e.Packages, ", "))
}

// ConfigError is an invalid project description
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// UnreachablePackageWarning is a package no application or root reaches
type UnreachablePackageWarning struct {
	Package string `json:"package"`
}

func (w UnreachablePackageWarning) String() string {
	return fmt.Sprintf("package %s is not reachable from any application or root", w.Package)
}

// UnreachablePackageError fails resolution when packages are unreachable and
// allow_unreachable is not set.
type UnreachablePackageError struct {
	Packages []string
}

func (e *UnreachablePackageError) Error() string {
	return "unreachable packages: " + strings.Join(e.Packages, ", ")
}

// ErrorKind names the taxonomy entry of err for serialized diagnostics
func ErrorKind(err error) string {
	var (
		scanErr   *ScanIOError
		unres     *UnresolvedReferenceError
		cycle     *DependencyCycleError
		dup       *DuplicatePackageDefinitionError
		cfg       *ConfigError
		unreached *UnreachablePackageError
	)
	switch {
	case errors.As(err, &scanErr):
		return "ScanIOError"
	case errors.As(err, &unres):
		return "UnresolvedReferenceError"
	case errors.As(err, &cycle):
		return "DependencyCycleError"
	case errors.As(err, &dup):
		return "DuplicatePackageDefinitionError"
	case errors.As(err, &cfg):
		return "ConfigError"
	case errors.As(err, &unreached):
		return "UnreachablePackageError"
	}
	return "Error"
}
