// Package depgraph assembles per-file module facts into the typed
// dependency graph: it scans, analyzes files in parallel, populates
// nodes and edges (synthesizing External and Missing targets so the
// graph stays closed under imports), and infers entry points.
package depgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mthorley/lignin/internal/cache"
	"github.com/mthorley/lignin/internal/fileproc"
	"github.com/mthorley/lignin/internal/loc"
	"github.com/mthorley/lignin/internal/scanner"
	"github.com/mthorley/lignin/pkg/analyzer/modules"
	"github.com/mthorley/lignin/pkg/config"
	"github.com/mthorley/lignin/pkg/graph"
	"github.com/mthorley/lignin/pkg/source"
)

// FileID returns the canonical node id for a file path.
func FileID(path string) string {
	return "file://" + path
}

// Builder orchestrates the four build phases. Each Build call produces
// an independent graph; builders do not share mutable state across
// concurrent builds beyond the analyzer's fact cache, which is safe for
// concurrent use.
type Builder struct {
	analyzer *modules.Analyzer
	config   *config.Config
	content  source.ContentSource
	entries  []string
	workers  int
	progress fileproc.ProgressFunc
	cache    *cache.Cache
}

// Option is a functional option for configuring Builder.
type Option func(*Builder)

// WithConfig sets the scan configuration.
func WithConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		b.config = cfg
	}
}

// WithEntries sets configured entry-point paths, relative to the
// analyzed root or absolute.
func WithEntries(entries []string) Option {
	return func(b *Builder) {
		b.entries = entries
	}
}

// WithWorkers caps the analysis worker pool (0 = 2x NumCPU).
func WithWorkers(workers int) Option {
	return func(b *Builder) {
		b.workers = workers
	}
}

// WithContentSource sets where file bodies are read from.
func WithContentSource(src source.ContentSource) Option {
	return func(b *Builder) {
		b.content = src
	}
}

// WithCache sets a fact cache consulted before reparsing a file whose
// content hash is unchanged.
func WithCache(c *cache.Cache) Option {
	return func(b *Builder) {
		b.cache = c
	}
}

// WithProgress sets a callback invoked after each analyzed file.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(b *Builder) {
		b.progress = fn
	}
}

// New creates a graph builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		analyzer: modules.New(),
		config:   config.DefaultConfig(),
		content:  source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.entries) == 0 {
		b.entries = b.config.Entries
	}
	return b
}

// fileResult pairs one file's descriptor with its analysis output.
type fileResult struct {
	desc  scanner.FileDescriptor
	facts *modules.Facts
	loc   int
}

// Build scans root and assembles the dependency graph. Only a
// scan-level I/O failure is returned as an error; per-file parse
// failures are recorded on the graph.
func (b *Builder) Build(ctx context.Context, root string) (*graph.Graph, error) {
	scan, err := scanner.New(b.config).Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return b.BuildFromScan(ctx, scan)
}

// BuildFromScan assembles the graph from an existing scan result.
func (b *Builder) BuildFromScan(ctx context.Context, scan *scanner.Result) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := scan.Files
	if b.config.Analysis.MaxFileSize > 0 {
		kept := make([]scanner.FileDescriptor, 0, len(files))
		for _, fd := range files {
			if fd.Size <= b.config.Analysis.MaxFileSize {
				kept = append(kept, fd)
			}
		}
		files = kept
	}

	results := fileproc.Map(files, b.workers, func(fd scanner.FileDescriptor) (fileResult, error) {
		content, err := b.content.Read(fd.Path)
		if err != nil {
			// Unreadable after scanning: degrade to a parse-error
			// record rather than aborting the phase.
			return fileResult{
				desc:  fd,
				facts: &modules.Facts{Path: fd.Path, Error: err.Error()},
			}, nil
		}
		return fileResult{
			desc:  fd,
			facts: b.analyzeFile(fd.Path, content),
			loc:   loc.Count(content),
		}, nil
	}, b.progress, nil)

	// The pool returns results in completion order; sort so graph
	// population is deterministic.
	sort.Slice(results, func(i, j int) bool {
		return results[i].desc.Path < results[j].desc.Path
	})

	g := graph.New()
	scanned := make(map[string]string, len(results)) // abs path -> node id
	for _, r := range results {
		scanned[r.desc.Path] = FileID(r.desc.Path)
	}

	for _, r := range results {
		b.populateFile(g, r, scanned)
	}

	b.inferEntryPoints(g, scan.Root, scanned)

	return g, nil
}

// analyzeFile extracts module facts, consulting the cache when the
// file's content hash matches a prior run. Cache failures fall back to
// a fresh parse.
func (b *Builder) analyzeFile(path string, content []byte) *modules.Facts {
	if b.cache == nil || !b.cache.Enabled() {
		return b.analyzer.Analyze(path, content)
	}

	hash := cache.HashBytes(content)
	if data, ok := b.cache.Get(path, hash); ok {
		var facts modules.Facts
		if err := json.Unmarshal(data, &facts); err == nil {
			return &facts
		}
	}

	facts := b.analyzer.Analyze(path, content)
	if data, err := json.Marshal(facts); err == nil {
		b.cache.Put(path, hash, data)
	}
	return facts
}

// populateFile registers one file's nodes and edges.
func (b *Builder) populateFile(g *graph.Graph, r fileResult, scanned map[string]string) {
	fileID := scanned[r.desc.Path]
	attrs := map[string]any{
		graph.AttrName:    filepath.Base(r.desc.Path),
		graph.AttrSize:    r.desc.Size,
		graph.AttrModTime: r.desc.ModTime,
		graph.AttrLOC:     r.loc,
	}
	if r.facts.Error != "" {
		attrs[graph.AttrParseError] = r.facts.Error
	}
	g.RegisterFile(fileID, attrs)

	for _, imp := range r.facts.Imports {
		b.populateImport(g, fileID, r.facts.Path, imp, scanned)
	}

	// Declared symbols register before export slots: an exported
	// declaration shares its node id with the slot, and the symbol kind
	// must win so the node stays visible to NodesOfKind(KindFunction).
	declared := make(map[string]bool, len(r.facts.Functions))
	for _, fn := range r.facts.Functions {
		fnID := fileID + "#" + fn.Name
		g.RegisterFunction(fnID, map[string]any{
			graph.AttrName:      fn.Name,
			graph.AttrFile:      fileID,
			graph.AttrClass:     fn.Class,
			graph.AttrMethod:    fn.Method,
			graph.AttrAsync:     fn.Async,
			graph.AttrStatic:    fn.Static,
			graph.AttrGenerator: fn.Generator,
			graph.AttrParams:    fn.Params,
			graph.AttrLine:      fn.Line,
		})
		g.AddEdge(graph.PredReferences, fileID, fnID)
		declared[fn.Name] = true
	}

	for _, cls := range r.facts.Classes {
		clsID := fileID + "#" + cls.Name
		g.RegisterClass(clsID, map[string]any{
			graph.AttrName: cls.Name,
			graph.AttrFile: fileID,
			graph.AttrLine: cls.Line,
		})
		g.AddEdge(graph.PredReferences, fileID, clsID)
	}

	for _, exp := range r.facts.Exports {
		slotID := fileID + "#" + exp.Name
		g.RegisterExport(slotID, map[string]any{
			graph.AttrName:       exp.Name,
			graph.AttrExportKind: string(exp.Kind),
			graph.AttrLine:       exp.Line,
			graph.AttrFile:       fileID,
		})
		g.AddEdge(graph.PredExports, fileID, slotID)
	}

	// Call references resolve within the declaring file only;
	// cross-file call-graph construction is out of scope.
	for _, call := range r.facts.Calls {
		if declared[call.Callee] {
			g.AddEdge(graph.PredCalls, fileID, fileID+"#"+call.Callee)
		}
	}
}

// populateImport resolves one import record into an edge. External
// specifiers get Module nodes; local targets absent from the scanned
// set get Missing-flagged File nodes so broken imports stay visible.
func (b *Builder) populateImport(g *graph.Graph, fileID, fromPath string, imp modules.ImportRecord, scanned map[string]string) {
	if imp.Specifier == "" {
		// Non-literal dynamic import or require: fact only, no target.
		return
	}

	if !modules.IsLocal(imp.Specifier) {
		g.RegisterModule(imp.Specifier, map[string]any{
			graph.AttrName:     imp.Specifier,
			graph.AttrExternal: true,
		})
		g.AddEdge(graph.PredImports, fileID, imp.Specifier)
		return
	}

	candidates := modules.Candidates(fromPath, imp.Specifier)
	for _, candidate := range candidates {
		if id, ok := scanned[candidate]; ok {
			g.AddEdge(graph.PredImports, fileID, id)
			return
		}
	}

	missing := candidates[0]
	missingID := FileID(missing)
	g.RegisterFile(missingID, map[string]any{
		graph.AttrName:    filepath.Base(missing),
		graph.AttrMissing: true,
	})
	g.AddEdge(graph.PredImports, fileID, missingID)
}
