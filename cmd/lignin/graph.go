package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mthorley/lignin/internal/output"
	"github.com/mthorley/lignin/internal/progress"
	"github.com/mthorley/lignin/internal/service/analysis"
	"github.com/mthorley/lignin/pkg/graph"
)

var graphCmd = &cobra.Command{
	Use:     "graph [path]",
	Aliases: []string{"dag"},
	Short:   "Build and export the dependency graph",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGraph,
}

func init() {
	graphCmd.Flags().Bool("turtle", false, "Emit the graph as subject-predicate-object triples")
	graphCmd.Flags().StringSlice("entry", nil, "Entry-point file (repeatable; overrides config and manifest)")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	entries, _ := cmd.Flags().GetStringSlice("entry")
	turtle, _ := cmd.Flags().GetBool("turtle")

	g, err := buildGraph(cmd.Context(), svc, getRoot(args), entries)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, svc)), getOutputFile(cmd), colored(svc))
	if err != nil {
		return err
	}
	defer formatter.Close()

	if turtle {
		out, err := g.Export(graph.FormatTurtle)
		if err != nil {
			return err
		}
		fmt.Fprint(formatter.Writer(), out)
		return nil
	}

	view := g.View()

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(view)
	}

	// Mermaid diagram for text and markdown.
	w := formatter.Writer()
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprintln(w, "graph TD")
	for _, node := range view.Nodes {
		if node.Kind != graph.KindFile.String() && node.Kind != graph.KindModule.String() {
			continue
		}
		label := node.Name
		if label == "" {
			label = node.ID
		}
		fmt.Fprintf(w, "    %s[%s]\n", sanitizeID(node.ID), label)
	}
	for _, edge := range view.Edges {
		if edge.Predicate != graph.PredImports.String() {
			continue
		}
		fmt.Fprintf(w, "    %s --> %s\n", sanitizeID(edge.From), sanitizeID(edge.To))
	}
	fmt.Fprintln(w, "```")
	fmt.Fprintln(w)

	return formatter.Output(topFilesTable(view, getRoot(args)))
}

// topFilesTable lists the highest-degree files, ties broken by id so
// output stays stable across runs.
func topFilesTable(view *graph.ExportView, root string) *output.Table {
	type ranked struct {
		node   graph.ExportNode
		degree int
	}

	var files []ranked
	for _, node := range view.Nodes {
		if node.Kind != graph.KindFile.String() || node.IsMissing {
			continue
		}
		files = append(files, ranked{node: node, degree: node.ImportCount + node.DependentCount})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].degree != files[j].degree {
			return files[i].degree > files[j].degree
		}
		return files[i].node.ID < files[j].node.ID
	})
	if len(files) > 10 {
		files = files[:10]
	}

	var rows [][]string
	for _, f := range files {
		rows = append(rows, []string{
			displayPath(f.node.ID, root),
			fmt.Sprintf("%d", f.node.ImportCount),
			fmt.Sprintf("%d", f.node.DependentCount),
		})
	}

	return output.NewTable(
		"Most Connected Files",
		[]string{"File", "Imports", "Dependents"},
		rows,
		nil,
		nil,
	)
}

// buildGraph scans and assembles the graph with progress reporting. A
// nil graph with nil error means the root had no source files.
func buildGraph(ctx context.Context, svc *analysis.Service, root string, entries []string) (*graph.Graph, error) {
	spinner := progress.NewSpinner("Scanning sources...")
	scan, err := svc.Scan(root)
	if err != nil {
		spinner.Fail(err)
		return nil, err
	}
	spinner.Done()

	if len(scan.Files) == 0 {
		color.Yellow("No source files found")
		return nil, nil
	}

	tracker := progress.NewTracker("Building dependency graph...", len(scan.Files))
	g, err := svc.BuildGraph(ctx, scan, analysis.GraphOptions{
		Entries:    entries,
		NoCache:    noCache,
		OnProgress: tracker.Tick,
	})
	if err != nil {
		tracker.Fail(err)
		return nil, err
	}
	tracker.Done()
	return g, nil
}

// sanitizeID replaces characters Mermaid cannot use in node ids.
func sanitizeID(id string) string {
	var result strings.Builder
	for _, c := range id {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result.WriteRune(c)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}
