package depgraph

import (
	"path/filepath"
	"strings"

	"github.com/mthorley/lignin/internal/manifest"
	"github.com/mthorley/lignin/pkg/analyzer/modules"
	"github.com/mthorley/lignin/pkg/graph"
)

// inferEntryPoints flags traversal roots in a fixed precedence:
//
//	a. configured entry paths matching scanned files
//	b. manifest inference, only when nothing was configured; when it
//	   flags at least one node, auto-detection is skipped
//	c. auto-detection of files no other scanned file imports, run as a
//	   supplement after (a) and as the fallback after an empty (b)
//	d. total fallback: every File node is an entry point
//
// Reordering these steps changes reachability results.
func (b *Builder) inferEntryPoints(g *graph.Graph, root string, scanned map[string]string) {
	configured := b.flagConfigured(g, root, scanned)

	if !configured {
		if b.flagFromManifest(g, root, scanned) {
			return
		}
	}

	b.flagUnimported(g, scanned)

	if len(g.EntryPoints()) == 0 {
		for _, n := range g.NodesOfKind(graph.KindFile) {
			g.SetFlag(n.ID, graph.AttrEntryPoint)
		}
	}
}

// flagConfigured flags configured entry paths that match scanned
// files. Returns whether any entries were configured at all.
func (b *Builder) flagConfigured(g *graph.Graph, root string, scanned map[string]string) bool {
	if len(b.entries) == 0 {
		return false
	}
	for _, entry := range b.entries {
		path := entry
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		path = filepath.Clean(path)
		if id, ok := scanned[path]; ok {
			g.SetFlag(id, graph.AttrEntryPoint)
		}
	}
	return true
}

// flagFromManifest infers entry points from the project descriptor.
// Returns true when at least one node was flagged.
func (b *Builder) flagFromManifest(g *graph.Graph, root string, scanned map[string]string) bool {
	flagged := false
	for _, spec := range manifest.Entries(root) {
		path := filepath.Clean(filepath.Join(root, strings.TrimPrefix(spec, "./")))
		if id, ok := scanned[path]; ok {
			g.SetFlag(id, graph.AttrEntryPoint)
			flagged = true
			continue
		}
		// Manifest entries may omit the suffix the same way imports do.
		for _, candidate := range modules.Candidates(filepath.Join(root, "package.json"), "./"+strings.TrimPrefix(spec, "./")) {
			if id, ok := scanned[candidate]; ok {
				g.SetFlag(id, graph.AttrEntryPoint)
				flagged = true
				break
			}
		}
	}
	return flagged
}

// flagUnimported flags every scanned file that no other scanned file
// imports. External modules never import, and missing files carry no
// facts, so dependents are always scanned files.
func (b *Builder) flagUnimported(g *graph.Graph, scanned map[string]string) {
	for _, id := range scanned {
		imported := false
		for _, dep := range g.DependentsOf(id) {
			if dep != id {
				imported = true
				break
			}
		}
		if !imported {
			g.SetFlag(id, graph.AttrEntryPoint)
		}
	}
}
