package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/ethanolivertroy/incgraph/internal/cache"
	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/ethanolivertroy/incgraph/internal/parsers"
	"golang.org/x/sync/errgroup"
)

// Scanner reads every module of a project concurrently and extracts its
// dependency references.
type Scanner struct {
	parsers []parsers.Parser
	cache   *cache.Cache
	workers int
	logger  *slog.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers bounds the number of modules read at once
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCache reuses scan results across runs
func WithCache(c *cache.Cache) Option {
	return func(s *Scanner) { s.cache = c }
}

// WithLogger sets the logger used for per-module debug output
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParsers replaces the built-in parser set
func WithParsers(p ...parsers.Parser) Option {
	return func(s *Scanner) { s.parsers = p }
}

// New creates a new Scanner
func New(opts ...Option) *Scanner {
	s := &Scanner{
		parsers: parsers.GetAllParsers(),
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type target struct {
	path string
	pkg  string
}

// cachedScan is what a cache entry holds
type cachedScan struct {
	References []models.DependencyReference       `json:"references"`
	Warnings   []models.MalformedReferenceWarning `json:"warnings"`
}

// Scan reads every module of project. Results come back in completion
// order. The first unreadable module cancels the remaining work; Scan
// returns its *models.ScanIOError once in-flight reads have drained and
// never a partial module set.
func (s *Scanner) Scan(ctx context.Context, project *models.Project) ([]models.SourceModule, error) {
	membership := project.Membership()
	targets := make([]target, 0, len(membership))
	for p, pkg := range membership {
		targets = append(targets, target{path: p, pkg: pkg})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].path < targets[j].path })

	var (
		mu      sync.Mutex
		modules = make([]models.SourceModule, 0, len(targets))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, t := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mod, err := s.scanModule(project.Root, t)
			if err != nil {
				return err
			}
			mu.Lock()
			modules = append(modules, mod)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *Scanner) scanModule(root string, t target) (models.SourceModule, error) {
	mod := models.SourceModule{Path: t.path, Package: t.pkg}

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(t.path)))
	if err != nil {
		return mod, &models.ScanIOError{Path: t.path, Err: err}
	}

	parser, ok := parsers.ForFile(s.parsers, path.Base(t.path))
	if !ok {
		s.logger.Debug("no parser for module", "module", t.path)
		return mod, nil
	}

	key := s.cacheKey(t.path, content)
	if s.cache != nil {
		if data, hit := s.cache.Get(key); hit {
			var cs cachedScan
			if err := json.Unmarshal(data, &cs); err == nil {
				s.logger.Debug("scan cache hit", "module", t.path)
				mod.References, mod.Warnings = cs.References, cs.Warnings
				return mod, nil
			}
		}
	}

	mod.References, mod.Warnings = parser.Parse(t.path, content)
	s.logger.Debug("scanned module", "module", t.path, "references", len(mod.References), "warnings", len(mod.Warnings))

	if s.cache != nil {
		data, err := json.Marshal(cachedScan{References: mod.References, Warnings: mod.Warnings})
		if err == nil {
			if err := s.cache.Set(key, data); err != nil {
				// Non-fatal: the result is still valid
				s.logger.Warn("scan cache write failed", "module", t.path, "error", err)
			}
		}
	}
	return mod, nil
}

func (s *Scanner) cacheKey(modulePath string, content []byte) string {
	sum := sha256.Sum256(content)
	return cache.Key(parsers.Version, modulePath, hex.EncodeToString(sum[:]))
}
