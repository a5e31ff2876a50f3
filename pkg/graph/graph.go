// Package graph implements the typed dependency graph: a node table
// keyed by canonical id plus per-predicate adjacency lists, with an open
// attribute map on every node.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is a dependency graph for one build. It is not safe for
// concurrent mutation; each build owns its own instance.
type Graph struct {
	nodes map[string]*Node

	// Adjacency per predicate, insertion-ordered, duplicates kept.
	edges map[Predicate]map[string][]string

	// Reverse adjacency for the imports predicate only; it backs
	// DependentsOf which is the single inverted query the engines need.
	importedBy map[string][]string

	edgeCount int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		edges:      make(map[Predicate]map[string][]string),
		importedBy: make(map[string][]string),
	}
}

// register creates or updates a node. The kind is fixed by the first
// registration; attributes merge last-write-wins per scalar key.
func (g *Graph) register(id string, kind Kind, attrs map[string]any) *Node {
	n, ok := g.nodes[id]
	if !ok {
		n = &Node{ID: id, Kind: kind, Attrs: make(map[string]any)}
		g.nodes[id] = n
	}
	for k, v := range attrs {
		n.Attrs[k] = v
	}
	return n
}

// RegisterFile registers a File node.
func (g *Graph) RegisterFile(id string, attrs map[string]any) *Node {
	return g.register(id, KindFile, attrs)
}

// RegisterModule registers an external Module node.
func (g *Graph) RegisterModule(id string, attrs map[string]any) *Node {
	return g.register(id, KindModule, attrs)
}

// RegisterFunction registers a Function node.
func (g *Graph) RegisterFunction(id string, attrs map[string]any) *Node {
	return g.register(id, KindFunction, attrs)
}

// RegisterClass registers a Class node.
func (g *Graph) RegisterClass(id string, attrs map[string]any) *Node {
	return g.register(id, KindClass, attrs)
}

// RegisterExport registers an export-slot node. When the id already
// names a declared symbol (an exported function or class), the existing
// node absorbs the slot attributes instead of changing kind.
func (g *Graph) RegisterExport(id string, attrs map[string]any) *Node {
	return g.register(id, KindExport, attrs)
}

// SetFlag sets a boolean attribute to true. Flags are never revoked.
func (g *Graph) SetFlag(id, attr string) {
	if n, ok := g.nodes[id]; ok {
		n.Attrs[attr] = true
	}
}

// Flag reports whether a node carries a true boolean attribute.
func (g *Graph) Flag(id, attr string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	v, _ := n.Attrs[attr].(bool)
	return v
}

// AddEdge records a (from, predicate, to) triple. Multiplicity is
// preserved: repeated triples stay distinct edges.
func (g *Graph) AddEdge(pred Predicate, from, to string) {
	adj, ok := g.edges[pred]
	if !ok {
		adj = make(map[string][]string)
		g.edges[pred] = adj
	}
	adj[from] = append(adj[from], to)
	g.edgeCount++

	if pred == PredImports {
		g.importedBy[to] = append(g.importedBy[to], from)
	}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// NodesOfKind returns all nodes of a kind, sorted by id for
// deterministic output.
func (g *Graph) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ImportsOf returns the import targets of a node, duplicates included.
func (g *Graph) ImportsOf(id string) []string {
	return append([]string(nil), g.edges[PredImports][id]...)
}

// ExportsOf returns the export-slot ids of a node.
func (g *Graph) ExportsOf(id string) []string {
	return append([]string(nil), g.edges[PredExports][id]...)
}

// DependentsOf returns the nodes importing id (inverse of imports).
func (g *Graph) DependentsOf(id string) []string {
	return append([]string(nil), g.importedBy[id]...)
}

// EntryPoints returns the ids of entry-point-flagged File nodes, sorted.
func (g *Graph) EntryPoints() []string {
	var out []string
	for _, n := range g.nodes {
		if n.Kind != KindFile {
			continue
		}
		if v, _ := n.Attrs[AttrEntryPoint].(bool); v {
			out = append(out, n.ID)
		}
	}
	sort.Strings(out)
	return out
}

// ExternalModules returns the ids of external Module nodes, sorted.
func (g *Graph) ExternalModules() []string {
	var out []string
	for _, n := range g.NodesOfKind(KindModule) {
		out = append(out, n.ID)
	}
	return out
}

// Metadata returns a flattened copy of a node's attribute map, or nil
// for an unknown id.
func (g *Graph) Metadata(id string) map[string]any {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(n.Attrs))
	for k, v := range n.Attrs {
		out[k] = v
	}
	return out
}

// Edges returns every triple in the graph, sorted for determinism.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edgeCount)
	for pred, adj := range g.edges {
		for from, tos := range adj {
			for _, to := range tos {
				out = append(out, Edge{From: from, Predicate: pred, To: to})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].Predicate != out[j].Predicate {
			return out[i].Predicate < out[j].Predicate
		}
		return out[i].To < out[j].To
	})
	return out
}

// Serialize renders the graph as one triple per line:
//
//	<subject> <predicate> <object> .
func (g *Graph) Serialize() string {
	var b strings.Builder
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "<%s> <%s> <%s> .\n", e.From, e.Predicate, e.To)
	}
	return b.String()
}

// ComputeStats performs a single full scan producing per-kind node and
// per-predicate edge counts, plus cycle structure over the imports
// relation between File nodes.
func (g *Graph) ComputeStats() Stats {
	s := Stats{
		NodesByKind:      make(map[string]int),
		EdgesByPredicate: make(map[string]int),
	}

	for _, n := range g.nodes {
		s.TotalNodes++
		s.NodesByKind[n.Kind.String()]++
		switch n.Kind {
		case KindFile:
			if v, _ := n.Attrs[AttrEntryPoint].(bool); v {
				s.EntryPoints++
			}
			if v, _ := n.Attrs[AttrMissing].(bool); v {
				s.MissingFiles++
			}
			if msg, _ := n.Attrs[AttrParseError].(string); msg != "" {
				s.ParseErrors++
			}
		case KindModule:
			s.ExternalModules++
		}
	}

	for pred, adj := range g.edges {
		for _, tos := range adj {
			s.EdgesByPredicate[pred.String()] += len(tos)
			s.TotalEdges += len(tos)
		}
	}

	s.CyclicGroups, s.IsCyclic = g.importCycles()
	return s
}

// importCycles counts cyclic groups in the file-level import graph:
// strongly connected components of size > 1, plus files importing
// themselves. Self-edges are tracked separately because the underlying
// directed graph rejects them.
func (g *Graph) importCycles() (int, bool) {
	files := g.NodesOfKind(KindFile)
	if len(files) == 0 {
		return 0, false
	}

	index := make(map[string]int64, len(files))
	dg := simple.NewDirectedGraph()
	for i, n := range files {
		index[n.ID] = int64(i)
		dg.AddNode(simple.Node(int64(i)))
	}
	selfLoops := make(map[int64]bool)
	for _, n := range files {
		from := index[n.ID]
		for _, to := range g.edges[PredImports][n.ID] {
			toIdx, ok := index[to]
			if !ok {
				continue
			}
			if toIdx == from {
				selfLoops[from] = true
				continue
			}
			dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(toIdx)})
		}
	}

	cyclic := 0
	inComponent := make(map[int64]bool)
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) > 1 {
			cyclic++
			for _, n := range scc {
				inComponent[n.ID()] = true
			}
		}
	}
	// A self-importing file inside a larger cycle is already counted.
	for id := range selfLoops {
		if !inComponent[id] {
			cyclic++
		}
	}
	return cyclic, cyclic > 0
}
