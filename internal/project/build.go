package project

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/ethanolivertroy/incgraph/internal/parsers"
	"golang.org/x/mod/semver"
)

// TestPrefix marks applications listed as tests in the manifest
const TestPrefix = "test_"

type dirClaim struct {
	depth int
	pkgs  []string
}

// membership accumulates which packages claim which modules. Discovered
// applications outrank directory walks, and among directory walks the
// deepest directory wins. A module listed in sources must not also be
// walked by another package.
type membership struct {
	explicit map[string][]string
	listed   map[string]bool
	walked   map[string]dirClaim
}

func (m *membership) claim(module, pkg string, listed bool) {
	if !slices.Contains(m.explicit[module], pkg) {
		m.explicit[module] = append(m.explicit[module], pkg)
	}
	if listed {
		m.listed[module] = true
	}
}

func (m *membership) claimDir(module, pkg string, depth int) {
	cur, ok := m.walked[module]
	switch {
	case !ok || depth > cur.depth:
		m.walked[module] = dirClaim{depth: depth, pkgs: []string{pkg}}
	case depth == cur.depth && !slices.Contains(cur.pkgs, pkg):
		cur.pkgs = append(cur.pkgs, pkg)
		m.walked[module] = cur
	}
}

func (m *membership) claimed(module string) bool {
	_, a := m.explicit[module]
	_, b := m.walked[module]
	return a || b
}

// owner returns the single package owning module, or the competing
// packages when the claim is ambiguous.
func (m *membership) owner(module string) (string, []string) {
	pkgs := m.explicit[module]
	switch {
	case len(pkgs) == 0:
		pkgs = m.walked[module].pkgs
	case m.listed[module]:
		for _, w := range m.walked[module].pkgs {
			if !slices.Contains(pkgs, w) {
				pkgs = append(slices.Clone(pkgs), w)
			}
		}
	}
	if len(pkgs) == 1 {
		return pkgs[0], nil
	}
	sorted := append([]string(nil), pkgs...)
	sort.Strings(sorted)
	return "", sorted
}

func (m *membership) modules() []string {
	seen := make(map[string]bool, len(m.explicit)+len(m.walked))
	for k := range m.explicit {
		seen[k] = true
	}
	for k := range m.walked {
		seen[k] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// Project validates the description and expands it into the package
// membership map and resolution configuration. Every problem found is
// reported; the returned error joins them.
func (f *File) Project() (*models.Project, error) {
	raw := f.raw
	var errs []error

	root, err := filepath.Abs(filepath.Join(filepath.Dir(f.Path), filepath.FromSlash(raw.Root)))
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	p := &models.Project{Name: raw.Name, Root: root}
	if p.Name == "" {
		p.Name = filepath.Base(root)
	}
	if raw.Version != "" {
		v := raw.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if semver.IsValid(v) {
			p.Version = semver.Canonical(v)
		} else {
			errs = append(errs, &models.ConfigError{Field: "version", Reason: fmt.Sprintf("%q is not a semantic version", raw.Version)})
		}
	}

	specs := make(map[string]*models.PackageSpec)
	m := &membership{
		explicit: make(map[string][]string),
		listed:   make(map[string]bool),
		walked:   make(map[string]dirClaim),
	}
	optional := make(map[string][]string)

	for i, rp := range raw.Packages {
		field := fmt.Sprintf("package[%d]", i)
		if rp.Name == "" {
			errs = append(errs, &models.ConfigError{Field: field + ".name", Reason: "package name is required"})
			continue
		}
		field = "package." + rp.Name
		if _, dup := specs[rp.Name]; dup {
			errs = append(errs, &models.ConfigError{Field: field, Reason: "duplicate package id"})
			continue
		}
		kind, err := models.ParseKind(rp.Kind)
		if err != nil {
			errs = append(errs, &models.ConfigError{Field: field + ".kind", Reason: err.Error()})
			continue
		}

		spec := &models.PackageSpec{Name: rp.Name, Kind: kind, Root: rp.Root, Optional: rp.Optional}
		specs[rp.Name] = spec

		for _, s := range rp.Sources {
			mod, err := canonical(root, field+".sources", s)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.claim(mod, rp.Name, true)
		}

		recurse := rp.Recurse == nil || *rp.Recurse
		for _, d := range rp.Dirs {
			dir, err := canonical(root, field+".dirs", d)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			files, err := collect(root, dir, recurse)
			if err != nil {
				errs = append(errs, &models.ConfigError{Field: field + ".dirs", Reason: err.Error()})
				continue
			}
			spec.Dirs = appendUnique(spec.Dirs, dir)
			for _, file := range files {
				m.claimDir(file, rp.Name, segments(dir))
			}
		}

		for _, g := range rp.Generated {
			dir, err := canonical(root, field+".generated", g)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if dir == "." {
				errs = append(errs, &models.ConfigError{Field: field + ".generated", Reason: "the project root cannot be generated"})
				continue
			}
			spec.Generated = appendUnique(spec.Generated, dir)
		}

		for _, s := range rp.OptionalSources {
			mod, err := canonical(root, field+".optional_sources", s)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			optional[rp.Name] = appendUnique(optional[rp.Name], mod)
		}
	}

	var library []string
	if d := raw.Discover; d != nil {
		errs = append(errs, discoverApps(root, d.AppsRoot, specs, m)...)

		if d.Library != "" {
			mods, err := discoverLibrary(root, d.SrcRoot, m)
			if err != nil {
				errs = append(errs, err)
			}
			library = mods
			if _, ok := specs[d.Library]; !ok {
				specs[d.Library] = &models.PackageSpec{Name: d.Library, Kind: models.KindInternalLibrary}
			}
		}
	}

	for _, mod := range m.modules() {
		pkg, competing := m.owner(mod)
		if competing != nil {
			errs = append(errs, &models.DuplicatePackageDefinitionError{Module: mod, Packages: competing})
			continue
		}
		specs[pkg].Modules = append(specs[pkg].Modules, mod)
	}
	if raw.Discover != nil && raw.Discover.Library != "" {
		lib := specs[raw.Discover.Library]
		lib.Modules = append(lib.Modules, library...)
	}

	for _, name := range slices.Sorted(maps.Keys(specs)) {
		spec := specs[name]
		sort.Strings(spec.Modules)
		sort.Strings(spec.Dirs)
		sort.Strings(spec.Generated)
		for _, mod := range optional[spec.Name] {
			if !slices.Contains(spec.Modules, mod) {
				errs = append(errs, &models.ConfigError{
					Field:  "package." + spec.Name + ".optional_sources",
					Reason: fmt.Sprintf("%s is not a module of the package", mod),
				})
				continue
			}
			spec.OptionalModules = append(spec.OptionalModules, mod)
		}
		sort.Strings(spec.OptionalModules)
		p.Packages = append(p.Packages, spec)
	}

	if r := raw.Resolution; r != nil {
		res, rerrs := resolution(root, r, specs)
		p.Resolution = res
		errs = append(errs, rerrs...)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

// discoverApps turns every compile source under appsRoot into an
// application package named after the file stem.
func discoverApps(root, appsRoot string, specs map[string]*models.PackageSpec, m *membership) []error {
	if appsRoot == "" {
		return nil
	}
	dir, err := canonical(root, "discover.apps_root", appsRoot)
	if err != nil {
		return []error{err}
	}
	files, err := collect(root, dir, true)
	if err != nil {
		return []error{&models.ConfigError{Field: "discover.apps_root", Reason: err.Error()}}
	}

	var errs []error
	found := make(map[string]string)
	for _, file := range files {
		if !parsers.IsSource(file) {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		if prev, dup := found[name]; dup {
			errs = append(errs, &models.ConfigError{
				Field:  "discover.apps_root",
				Reason: fmt.Sprintf("duplicate application name %q (%s, %s)", name, prev, file),
			})
			continue
		}
		if _, taken := specs[name]; taken {
			errs = append(errs, &models.ConfigError{
				Field:  "discover.apps_root",
				Reason: fmt.Sprintf("application %s from %s: duplicate package id", name, file),
			})
			continue
		}
		found[name] = file
		specs[name] = &models.PackageSpec{Name: name, Kind: models.KindApplication}
		m.claim(file, name, false)
	}
	return errs
}

// discoverLibrary returns every collected file under srcRoot nobody claimed
func discoverLibrary(root, srcRoot string, m *membership) ([]string, error) {
	if srcRoot == "" {
		srcRoot = "."
	}
	dir, err := canonical(root, "discover.src_root", srcRoot)
	if err != nil {
		return nil, err
	}
	files, err := collect(root, dir, true)
	if err != nil {
		return nil, &models.ConfigError{Field: "discover.src_root", Reason: err.Error()}
	}

	var out []string
	for _, file := range files {
		if !m.claimed(file) {
			out = append(out, file)
		}
	}
	return out, nil
}

func resolution(root string, r *rawResolution, specs map[string]*models.PackageSpec) (models.ResolutionConfig, []error) {
	var errs []error
	res := models.ResolutionConfig{
		Toolchain:        append([]string(nil), r.Toolchain...),
		StandardHeaders:  r.StandardHeaders,
		AllowUnreachable: r.AllowUnreachable,
	}

	for i, tp := range r.ThirdParty {
		field := fmt.Sprintf("resolution.third_party[%d]", i)
		if strings.Trim(tp.Prefix, "/") == "" {
			errs = append(errs, &models.ConfigError{Field: field + ".prefix", Reason: "prefix is required"})
			continue
		}
		if _, ok := specs[tp.Package]; !ok {
			errs = append(errs, &models.ConfigError{
				Field:  field + ".package",
				Reason: fmt.Sprintf("prefix %q names undeclared package %q", tp.Prefix, tp.Package),
			})
			continue
		}
		res.ThirdParty = append(res.ThirdParty, models.ThirdPartyRoot{Prefix: tp.Prefix, Package: tp.Package})
	}

	for _, ir := range r.InternalRoots {
		dir, err := canonical(root, "resolution.internal_roots", ir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.InternalRoots = appendUnique(res.InternalRoots, dir)
	}
	return res, errs
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
