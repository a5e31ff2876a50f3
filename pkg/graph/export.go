package graph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Export formats.
const (
	FormatJSON   = "json"
	FormatTurtle = "turtle"
	FormatStats  = "stats"
)

// ExportNode is the serialized view of a node. File annotations are
// only populated for File nodes.
type ExportNode struct {
	ID   string `json:"id" toon:"id"`
	Kind string `json:"kind" toon:"kind"`
	Name string `json:"name,omitempty" toon:"name,omitempty"`

	IsEntryPoint      bool   `json:"isEntryPoint,omitempty" toon:"isEntryPoint,omitempty"`
	IsMissing         bool   `json:"isMissing,omitempty" toon:"isMissing,omitempty"`
	HasParseError     bool   `json:"hasParseError,omitempty" toon:"hasParseError,omitempty"`
	ParseErrorMessage string `json:"parseErrorMessage,omitempty" toon:"parseErrorMessage,omitempty"`
	ImportCount       int    `json:"importCount" toon:"importCount"`
	ExportCount       int    `json:"exportCount" toon:"exportCount"`
	DependentCount    int    `json:"dependentCount" toon:"dependentCount"`
	Size              int64  `json:"size,omitempty" toon:"size,omitempty"`
	LOC               int    `json:"loc,omitempty" toon:"loc,omitempty"`
}

// ExportEdge is the serialized view of a triple.
type ExportEdge struct {
	From      string `json:"from" toon:"from"`
	Predicate string `json:"predicate" toon:"predicate"`
	To        string `json:"to" toon:"to"`
}

// ExportView is the {nodes, edges, stats} JSON document.
type ExportView struct {
	Nodes []ExportNode `json:"nodes" toon:"nodes"`
	Edges []ExportEdge `json:"edges" toon:"edges"`
	Stats Stats        `json:"stats" toon:"stats"`
}

// View builds the structured export document.
func (g *Graph) View() *ExportView {
	view := &ExportView{
		Nodes: make([]ExportNode, 0, len(g.nodes)),
		Edges: make([]ExportEdge, 0, g.edgeCount),
		Stats: g.ComputeStats(),
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := g.nodes[id]
		en := ExportNode{ID: n.ID, Kind: n.Kind.String()}
		if name, _ := n.Attrs[AttrName].(string); name != "" {
			en.Name = name
		}
		if n.Kind == KindFile {
			en.IsEntryPoint, _ = n.Attrs[AttrEntryPoint].(bool)
			en.IsMissing, _ = n.Attrs[AttrMissing].(bool)
			en.ParseErrorMessage, _ = n.Attrs[AttrParseError].(string)
			en.HasParseError = en.ParseErrorMessage != ""
			en.ImportCount = len(g.edges[PredImports][n.ID])
			en.ExportCount = len(g.edges[PredExports][n.ID])
			en.DependentCount = len(g.importedBy[n.ID])
			en.Size, _ = n.Attrs[AttrSize].(int64)
			en.LOC, _ = n.Attrs[AttrLOC].(int)
		}
		view.Nodes = append(view.Nodes, en)
	}

	for _, e := range g.Edges() {
		view.Edges = append(view.Edges, ExportEdge{
			From:      e.From,
			Predicate: e.Predicate.String(),
			To:        e.To,
		})
	}

	return view
}

// Export renders the graph in the requested format: json, turtle, or
// stats.
func (g *Graph) Export(format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(g.View(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatTurtle:
		return g.Serialize(), nil
	case FormatStats:
		data, err := json.MarshalIndent(g.ComputeStats(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}
