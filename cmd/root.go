package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/cache"
	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/ethanolivertroy/incgraph/internal/reporter"
	"github.com/ethanolivertroy/incgraph/internal/resolver"
	"github.com/spf13/cobra"
)

var cfg = models.DefaultConfig()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "incgraph [path]",
	Short: "Resolve the package dependency graph of a native source tree",
	Long: `incgraph scans the inclusion directives of a C/C++ source tree, classifies
every reference as toolchain, third-party or internal, and emits a validated,
acyclic package graph with a deterministic build order and per-package
transitive dependencies.

The project is described by incgraph.toml, incgraph.yaml or incgraph.hcl.
Every flag can also be set through the environment as INCGRAPH_<FLAG>,
for example INCGRAPH_FORMAT=sarif or INCGRAPH_LOG_LEVEL=debug.

Examples:
  # Resolve the project in the current directory
  incgraph

  # Resolve a specific description, human-readable
  incgraph ./engine/incgraph.hcl --format terminal

  # Write the artifact to a file
  incgraph --output graph.json

  # SARIF diagnostics for code scanning
  incgraph --format sarif --output incgraph.sarif

  # Rescan every module from scratch
  incgraph --clear-cache

  # Treat malformed directives and unreachable packages as failures
  incgraph --fail-on-warnings`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runResolve,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&cfg.OutputFormat, "format", "f", cfg.OutputFormat, "Output format: "+strings.Join(reporter.Formats, ", "))
	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Modules scanned concurrently")
	rootCmd.Flags().BoolVar(&cfg.FailOnWarnings, "fail-on-warnings", false, "Exit with code 1 when warnings are reported")
	rootCmd.Flags().BoolVar(&cfg.NoCache, "no-cache", false, "Disable scan result caching")
	rootCmd.Flags().BoolVar(&cfg.ClearCache, "clear-cache", false, "Remove cached scan results before resolving")
	rootCmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", "", "Scan cache directory (default: ~/.cache/incgraph)")
	rootCmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Scan cache entry lifetime")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Path = args[0]
	}
	if err := applyEnv(cmd.Flags(), cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	code, err := run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// run performs one resolution and writes the report. It returns the process
// exit code; a non-nil error always means exit code 2.
func run(ctx context.Context, config *models.Config, stdout, stderr io.Writer) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !reporter.Valid(config.OutputFormat) {
		return 2, fmt.Errorf("unknown output format %q (want one of %s)", config.OutputFormat, strings.Join(reporter.Formats, ", "))
	}

	logger := newLogger(config.LogLevel, config.LogFormat, stderr)
	opts := []resolver.Option{resolver.WithLogger(logger), resolver.WithWorkers(config.Workers)}

	if !config.NoCache || config.ClearCache {
		c, err := openCache(config)
		if err != nil {
			// Non-fatal: continue without cache
			logger.Warn("scan cache disabled", "error", err)
		} else {
			if config.ClearCache {
				if err := c.Clear(); err != nil {
					logger.Warn("failed to clear scan cache", "dir", c.Dir, "error", err)
				}
			}
			if !config.NoCache {
				opts = append(opts, resolver.WithCache(c))
			}
		}
	}

	result, err := resolver.New(opts...).ResolvePath(ctx, config.Path)
	if err != nil {
		return 2, fmt.Errorf("failed to load project: %w", err)
	}
	if err := result.Err(); err != nil {
		logger.Error("resolution failed", "error", err)
	}

	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(result)
	if err != nil {
		return 2, fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
			return 2, fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(stderr, "Report written to %s\n", config.OutputFile)
	} else {
		fmt.Fprint(stdout, string(output))
	}

	switch {
	case !result.OK():
		return 1, nil
	case config.FailOnWarnings && result.Diagnostics.HasWarnings():
		return 1, nil
	}
	return 0, nil
}

func openCache(config *models.Config) (*cache.Cache, error) {
	dir := config.CacheDir
	if dir == "" {
		d, err := cache.DefaultDir("incgraph")
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.New(dir, config.CacheTTL)
}
