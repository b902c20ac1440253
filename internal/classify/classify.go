// Package classify maps raw inclusion references to their provenance.
//
// Rules are evaluated in order and the first match wins:
//
//  1. exact match against the toolchain allowlist
//  2. longest prefix match against the third-party roots
//  3. a registered module reached from the including module's directory or
//     through the internal roots, then a generated directory reached
//     through the internal roots
//
// Anything else is unresolved. Classification is a pure function of the
// project description; it never touches the file system.
package classify

import (
	"path"
	"sort"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

type dirOwner struct {
	dir string
	pkg string
}

// Classifier is safe for concurrent use once constructed
type Classifier struct {
	toolchain  map[string]bool
	thirdParty []models.ThirdPartyRoot
	roots      []string
	modules    map[string]string
	generated  []dirOwner // Longest directory first
}

// New builds a classifier from the project's resolution configuration and
// module registry.
func New(project *models.Project) *Classifier {
	cfg := project.Resolution
	c := &Classifier{
		toolchain: make(map[string]bool),
		modules:   project.Membership(),
		roots:     append([]string(nil), cfg.InternalRoots...),
	}

	for _, h := range cfg.Toolchain {
		c.toolchain[h] = true
	}
	if cfg.StandardHeaders {
		for _, h := range StandardHeaders {
			c.toolchain[h] = true
		}
	}

	for _, r := range cfg.ThirdParty {
		c.thirdParty = append(c.thirdParty, models.ThirdPartyRoot{
			Prefix:  normalizePrefix(r.Prefix),
			Package: r.Package,
		})
	}

	for _, pkg := range project.Packages {
		for _, d := range pkg.Generated {
			c.generated = append(c.generated, dirOwner{dir: path.Clean(d), pkg: pkg.Name})
		}
	}
	sort.SliceStable(c.generated, func(i, j int) bool {
		if len(c.generated[i].dir) != len(c.generated[j].dir) {
			return len(c.generated[i].dir) > len(c.generated[j].dir)
		}
		return c.generated[i].dir < c.generated[j].dir
	})

	return c
}

// Classify resolves ref found in module from
func (c *Classifier) Classify(from string, ref models.DependencyReference) models.Classification {
	if c.toolchain[ref.Raw] {
		return models.Classification{Provenance: models.ProvenanceToolchain}
	}

	raw := path.Clean(strings.ReplaceAll(ref.Raw, `\`, "/"))

	if pkg, ok := c.matchThirdParty(raw); ok {
		return models.Classification{Provenance: models.ProvenanceThirdParty, Package: pkg}
	}

	if pkg, ok := c.matchInternal(from, raw, ref.Form); ok {
		return models.Classification{Provenance: models.ProvenanceInternal, Package: pkg}
	}

	return models.Classification{Provenance: models.ProvenanceUnresolved}
}

// matchThirdParty picks the longest matching prefix. Prefixes of equal
// length keep declaration order.
func (c *Classifier) matchThirdParty(raw string) (string, bool) {
	best, bestLen := "", -1
	for _, r := range c.thirdParty {
		if !hasPathPrefix(raw, r.Prefix) {
			continue
		}
		if len(r.Prefix) > bestLen {
			best, bestLen = r.Package, len(r.Prefix)
		}
	}
	return best, bestLen >= 0
}

// matchInternal tries the candidates an include search would: the including
// module's directory for quoted references, then every internal root. Only
// collected modules count, except under a generated directory, which is
// reached through the internal roots alone.
func (c *Classifier) matchInternal(from, raw string, form models.Form) (string, bool) {
	var candidates []string
	if form == models.FormQuoted {
		candidates = append(candidates, path.Join(path.Dir(from), raw))
	}
	for _, root := range c.roots {
		candidates = append(candidates, path.Join(root, raw))
	}

	for _, cand := range candidates {
		if escapesRoot(cand) {
			continue
		}
		if pkg, ok := c.modules[cand]; ok {
			return pkg, true
		}
	}
	for _, root := range c.roots {
		cand := path.Join(root, raw)
		if escapesRoot(cand) {
			continue
		}
		for _, d := range c.generated {
			if d.dir != "." && hasPathPrefix(path.Dir(cand), d.dir) {
				return d.pkg, true
			}
		}
	}
	return "", false
}

func normalizePrefix(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimSuffix(p, "/")
}

// hasPathPrefix reports whether p is prefix or lies below it, matching
// whole path segments only.
func hasPathPrefix(p, prefix string) bool {
	if prefix == "." || prefix == "" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func escapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p)
}
