// Package analysis orchestrates scanning, graph assembly, and the
// analyzers behind the CLI commands.
package analysis

import (
	"context"
	"time"

	"github.com/mthorley/lignin/internal/cache"
	"github.com/mthorley/lignin/internal/scanner"
	"github.com/mthorley/lignin/pkg/analyzer/depgraph"
	"github.com/mthorley/lignin/pkg/analyzer/reachability"
	"github.com/mthorley/lignin/pkg/analyzer/symbols"
	"github.com/mthorley/lignin/pkg/config"
	"github.com/mthorley/lignin/pkg/graph"
)

// Service wires configuration into the analyzers.
type Service struct {
	config *config.Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// New creates an analysis service. Without options the configuration is
// loaded from the working directory or defaulted.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Scan walks root and returns the supported source files.
func (s *Service) Scan(root string) (*scanner.Result, error) {
	result, err := scanner.New(s.config).Scan(root)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}
	return result, nil
}

// GraphOptions configures graph assembly.
type GraphOptions struct {
	// Entries overrides configured entry points when non-empty.
	Entries []string
	// NoCache disables the fact cache for this build.
	NoCache    bool
	OnProgress func()
}

// factCache opens the configured fact cache. Cache setup failures fall
// back to uncached analysis.
func (s *Service) factCache() *cache.Cache {
	if !s.config.Cache.Enabled {
		return nil
	}
	dir := s.config.Cache.Dir
	if dir == "" {
		dir = cache.DefaultDir()
	}
	ttl := time.Duration(s.config.Cache.TTLHours) * time.Hour
	c, err := cache.New(dir, ttl, true)
	if err != nil {
		return nil
	}
	return c
}

// BuildGraph assembles the dependency graph from an existing scan.
func (s *Service) BuildGraph(ctx context.Context, scan *scanner.Result, opts GraphOptions) (*graph.Graph, error) {
	builderOpts := []depgraph.Option{
		depgraph.WithConfig(s.config),
		depgraph.WithWorkers(s.config.Analysis.Workers),
	}
	if len(opts.Entries) > 0 {
		builderOpts = append(builderOpts, depgraph.WithEntries(opts.Entries))
	}
	if opts.OnProgress != nil {
		builderOpts = append(builderOpts, depgraph.WithProgress(opts.OnProgress))
	}
	if !opts.NoCache {
		if c := s.factCache(); c != nil {
			builderOpts = append(builderOpts, depgraph.WithCache(c))
		}
	}

	g, err := depgraph.New(builderOpts...).BuildFromScan(ctx, scan)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return g, nil
}

// AnalyzeReachability classifies every file in the graph as reachable
// or dead.
func (s *Service) AnalyzeReachability(g *graph.Graph) *reachability.Result {
	return reachability.New(g).Detect()
}

// DuplicateOptions configures duplicate-symbol detection. Zero values
// fall back to configuration.
type DuplicateOptions struct {
	MinGroupSize   int
	FuzzyThreshold float64
	ExcludeNames   []string
}

// FindDuplicates groups same-named functions across the graph.
func (s *Service) FindDuplicates(g *graph.Graph, opts DuplicateOptions) *symbols.Analysis {
	minGroup := opts.MinGroupSize
	if minGroup <= 0 {
		minGroup = s.config.Duplicates.MinGroupSize
	}
	threshold := opts.FuzzyThreshold
	if threshold == 0 {
		threshold = s.config.Duplicates.FuzzyThreshold
	}
	excluded := opts.ExcludeNames
	if len(excluded) == 0 {
		excluded = s.config.Duplicates.ExcludeNames
	}

	finder := symbols.New(
		symbols.WithMinGroupSize(minGroup),
		symbols.WithExcludedNames(excluded),
		symbols.WithFuzzyThreshold(threshold),
	)
	return finder.Analyze(g)
}
