// Package reachability classifies files as live or dead by computing
// the closure of the entry-point set over imports edges.
package reachability

import (
	"math"
	"sort"

	"github.com/mthorley/lignin/pkg/graph"
)

// Engine answers reachability queries against an assembled graph. The
// graph is read-only to the engine; every invocation resets its working
// sets, so repeated runs over an unchanged graph yield identical
// results.
type Engine struct {
	graph *graph.Graph
}

// New creates an engine over an assembled graph.
func New(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// Detect classifies every File node. An empty entry-point set
// short-circuits: all files are reported dead with a warning, without
// traversal. The assembler's total fallback normally prevents that
// state, but the engine guards it independently.
func (e *Engine) Detect() *Result {
	files := e.graph.NodesOfKind(graph.KindFile)
	result := &Result{
		ReachableFiles: make([]string, 0, len(files)),
		DeadFiles:      make([]DeadFile, 0),
		DeadExports:    make([]DeadExport, 0),
	}
	result.Summary.TotalFiles = len(files)

	entries := e.graph.EntryPoints()
	if len(entries) == 0 {
		result.Warning = "no entry points found; all files considered dead"
		for _, n := range files {
			result.DeadFiles = append(result.DeadFiles, DeadFile{
				ID:     n.ID,
				Reason: "not reachable from any entry point",
			})
		}
		result.Summary.DeadCount = len(result.DeadFiles)
		return result
	}

	reachable := e.closure(entries)

	for _, n := range files {
		if reachable[n.ID] {
			result.ReachableFiles = append(result.ReachableFiles, n.ID)
		} else {
			result.DeadFiles = append(result.DeadFiles, DeadFile{
				ID:     n.ID,
				Reason: "not reachable from any entry point",
			})
		}
	}

	result.DeadExports = e.deadExports(files)

	result.Summary.ReachableCount = len(result.ReachableFiles)
	result.Summary.DeadCount = len(result.DeadFiles)
	result.Summary.DeadExports = len(result.DeadExports)
	if len(files) > 0 {
		result.Summary.Percentage = int(math.Round(100 * float64(len(result.ReachableFiles)) / float64(len(files))))
	}

	return result
}

// closure walks imports edges breadth-first from every entry point.
// External module nodes are never crossed; the visited set guards
// against cycles.
func (e *Engine) closure(entries []string) map[string]bool {
	visited := make(map[string]bool)
	reachable := make(map[string]bool)

	queue := append([]string(nil), entries...)
	for _, id := range queue {
		visited[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if n := e.graph.Node(id); n != nil && n.Kind == graph.KindFile {
			reachable[id] = true
		}

		for _, target := range e.graph.ImportsOf(id) {
			if visited[target] {
				continue
			}
			visited[target] = true
			if n := e.graph.Node(target); n == nil || n.Kind == graph.KindModule || e.graph.Flag(target, graph.AttrExternal) {
				continue
			}
			queue = append(queue, target)
		}
	}

	return reachable
}

// deadExports lists export slots of files that no other scanned file
// imports. Granularity is deliberately file-level: a single importer
// marks every export of that file as potentially used.
func (e *Engine) deadExports(files []*graph.Node) []DeadExport {
	var out []DeadExport
	for _, n := range files {
		slots := e.graph.ExportsOf(n.ID)
		if len(slots) == 0 {
			continue
		}

		imported := false
		for _, dep := range e.graph.DependentsOf(n.ID) {
			if dep != n.ID {
				imported = true
				break
			}
		}
		if imported {
			continue
		}

		seen := make(map[string]bool, len(slots))
		for _, slot := range slots {
			if seen[slot] {
				continue
			}
			seen[slot] = true
			dead := DeadExport{File: n.ID}
			if meta := e.graph.Metadata(slot); meta != nil {
				dead.Name, _ = meta[graph.AttrName].(string)
				dead.Line, _ = meta[graph.AttrLine].(uint32)
			}
			out = append(out, dead)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Path returns the first shortest path found by breadth-first search
// from any entry point to target, or nil when target is unreachable.
func (e *Engine) Path(target string) []string {
	for _, entry := range e.graph.EntryPoints() {
		if path := e.bfsPath(entry, target); path != nil {
			return path
		}
	}
	return nil
}

func (e *Engine) bfsPath(entry, target string) []string {
	if entry == target {
		return []string{entry}
	}

	parent := map[string]string{entry: ""}
	queue := []string{entry}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, next := range e.graph.ImportsOf(id) {
			if _, seen := parent[next]; seen {
				continue
			}
			if n := e.graph.Node(next); n == nil || n.Kind == graph.KindModule || e.graph.Flag(next, graph.AttrExternal) {
				continue
			}
			parent[next] = id

			if next == target {
				var path []string
				for at := next; at != ""; at = parent[at] {
					path = append(path, at)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, next)
		}
	}

	return nil
}
