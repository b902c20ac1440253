// Package resolver runs a complete resolution: scan, classify, build,
// validate, order and close. It is the only package that sequences the
// phases; every phase itself lives in its own package.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/cache"
	"github.com/ethanolivertroy/incgraph/internal/classify"
	"github.com/ethanolivertroy/incgraph/internal/graph"
	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/ethanolivertroy/incgraph/internal/project"
	"github.com/ethanolivertroy/incgraph/internal/scanner"
)

// Resolver orchestrates the resolution of one project at a time
type Resolver struct {
	scanner *scanner.Scanner
	logger  *slog.Logger
}

type options struct {
	logger  *slog.Logger
	workers int
	cache   *cache.Cache
}

// Option configures a Resolver
type Option func(*options)

// WithLogger sets the logger for progress and debug output
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers bounds concurrent module scans
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCache enables the scan result cache
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// New creates a new Resolver
func New(opts ...Option) *Resolver {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	scanOpts := []scanner.Option{scanner.WithWorkers(o.workers), scanner.WithLogger(o.logger)}
	if o.cache != nil {
		scanOpts = append(scanOpts, scanner.WithCache(o.cache))
	}
	return &Resolver{
		scanner: scanner.New(scanOpts...),
		logger:  o.logger,
	}
}

// ResolvePath loads the project description at path and resolves it. Only
// a description that cannot be found or decoded is returned as an error;
// validation problems fail the returned Result instead.
func (r *Resolver) ResolvePath(ctx context.Context, path string) (*models.Result, error) {
	f, err := project.Read(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded project description", "file", f.Path)

	p, err := f.Project()
	if err != nil {
		return (&models.Result{}).Fail(err), nil
	}
	return r.Resolve(ctx, p), nil
}

// Resolve runs every phase over project. The returned Result always holds
// the diagnostics; its Graph is set only when every phase succeeded.
func (r *Resolver) Resolve(ctx context.Context, p *models.Project) *models.Result {
	res := &models.Result{Project: models.ProjectInfo{Name: p.Name, Version: p.Version}}
	log := r.logger.With("project", p.Name)

	modules, err := r.scanner.Scan(ctx, p)
	if err != nil {
		log.Error("scan failed", "error", err)
		return res.Fail(err)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })
	for _, mod := range modules {
		res.Diagnostics.Malformed = append(res.Diagnostics.Malformed, mod.Warnings...)
	}
	log.Debug("scan complete", "modules", len(modules), "warnings", len(res.Diagnostics.Malformed))

	out, err := graph.NewBuilder(classify.New(p)).Build(p, modules)
	if err != nil {
		return res.Fail(err)
	}
	res.Diagnostics.Unresolved = out.Unresolved

	var fatal []error
	for i := range out.Unresolved {
		if u := out.Unresolved[i]; !u.Optional {
			fatal = append(fatal, &u)
		}
	}
	if len(fatal) > 0 {
		log.Error("unresolved references", "count", len(fatal))
		return res.Fail(fatal...)
	}

	g := out.Graph
	log.Debug("graph built", "packages", len(g.Nodes), "edges", len(g.Edges))

	if err := graph.DetectCycles(g); err != nil {
		log.Error("dependency cycle", "error", err)
		return res.Fail(err)
	}

	if unreachable := unreachablePackages(g, p); len(unreachable) > 0 {
		if !p.Resolution.AllowUnreachable {
			return res.Fail(&models.UnreachablePackageError{Packages: unreachable})
		}
		for _, id := range unreachable {
			res.Diagnostics.Unreachable = append(res.Diagnostics.Unreachable, models.UnreachablePackageWarning{Package: id})
		}
	}

	order, err := graph.Order(g)
	if err != nil {
		return res.Fail(err)
	}
	g.Order = order
	graph.NewClosureResolver(g, order).Apply()

	res.Graph = g
	for _, id := range g.IDs() {
		if g.Nodes[id].Kind != models.KindApplication {
			continue
		}
		res.Applications = append(res.Applications, id)
		if strings.HasPrefix(id, project.TestPrefix) {
			res.Tests = append(res.Tests, id)
		}
	}

	log.Info("resolution complete", "packages", len(order), "edges", len(g.Edges), "warnings", res.Diagnostics.HasWarnings())
	return res
}

// unreachablePackages lists, sorted, the packages no application and no
// root package depends on directly or indirectly.
func unreachablePackages(g *models.DependencyGraph, p *models.Project) []string {
	seen := make(map[string]bool, len(g.Nodes))
	var queue []string
	for _, spec := range p.Packages {
		if spec.Kind == models.KindApplication || spec.Root {
			seen[spec.Name] = true
			queue = append(queue, spec.Name)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range g.Nodes[id].Direct {
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var out []string
	for _, id := range g.IDs() {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
