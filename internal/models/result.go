package models

import (
	"errors"
	"fmt"
)

// ProjectInfo identifies the resolved project in the artifact
type ProjectInfo struct {
	Name    string
	Version string
}

// Diagnostics collects everything reported alongside (or instead of) a graph
type Diagnostics struct {
	Malformed   []MalformedReferenceWarning
	Unreachable []UnreachablePackageWarning
	Unresolved  []UnresolvedReferenceError
	Errors      []error
}

// HasWarnings reports whether any non-fatal diagnostic was recorded
func (d *Diagnostics) HasWarnings() bool {
	if len(d.Malformed) > 0 || len(d.Unreachable) > 0 {
		return true
	}
	for _, u := range d.Unresolved {
		if u.Optional {
			return true
		}
	}
	return false
}

// Result is the outcome of one resolution run. Graph is nil whenever a fatal
// error was recorded; a non-nil Graph is always validated and acyclic.
type Result struct {
	Project      ProjectInfo
	Graph        *DependencyGraph
	Applications []string
	Tests        []string
	Diagnostics  Diagnostics
}

// OK reports whether a graph was produced
func (r *Result) OK() bool {
	return r.Graph != nil
}

// Err returns nil on success or every fatal error wrapped in ErrResolutionFailed
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	if len(r.Diagnostics.Errors) == 0 {
		return ErrResolutionFailed
	}
	return fmt.Errorf("%w: %w", ErrResolutionFailed, errors.Join(r.Diagnostics.Errors...))
}

// Fail discards any graph and records errs as fatal. Joined errors are
// recorded one entry per member.
func (r *Result) Fail(errs ...error) *Result {
	r.Graph = nil
	r.Applications = nil
	r.Tests = nil
	for _, err := range errs {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			r.Diagnostics.Errors = append(r.Diagnostics.Errors, joined.Unwrap()...)
			continue
		}
		r.Diagnostics.Errors = append(r.Diagnostics.Errors, err)
	}
	return r
}
