package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mthorley/lignin/internal/output"
	"github.com/mthorley/lignin/pkg/analyzer/depgraph"
	"github.com/mthorley/lignin/pkg/analyzer/reachability"
	"github.com/mthorley/lignin/pkg/graph"
)

var deadcodeCmd = &cobra.Command{
	Use:     "deadcode [path]",
	Aliases: []string{"dc"},
	Short:   "Find files and exports no entry point can reach",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDeadcode,
}

func init() {
	deadcodeCmd.Flags().StringSlice("entry", nil, "Entry-point file (repeatable; overrides config and manifest)")
	deadcodeCmd.Flags().String("why", "", "Show the shortest import path from an entry point to this file")

	rootCmd.AddCommand(deadcodeCmd)
}

func runDeadcode(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	entries, _ := cmd.Flags().GetStringSlice("entry")
	why, _ := cmd.Flags().GetString("why")
	root := getRoot(args)

	g, err := buildGraph(cmd.Context(), svc, root, entries)
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

	if why != "" {
		return explainReachability(formatter, g, root, why)
	}

	result := svc.AnalyzeReachability(g)

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(result)
	}

	if result.Warning != "" {
		formatter.Warning("%s", result.Warning)
	}

	report := &output.Report{Title: "Dead Code", Data: result}

	if len(result.DeadFiles) > 0 {
		var rows [][]string
		for _, df := range result.DeadFiles {
			rows = append(rows, []string{displayPath(df.ID, root), df.Reason})
		}
		report.Sections = append(report.Sections, output.NewTable(
			"Dead Files",
			[]string{"File", "Reason"},
			rows,
			nil,
			nil,
		))
	}

	if len(result.DeadExports) > 0 {
		var rows [][]string
		for _, de := range result.DeadExports {
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", displayPath(de.File, root), de.Line),
				de.Name,
			})
		}
		report.Sections = append(report.Sections, output.NewTable(
			"Dead Exports",
			[]string{"Location", "Export"},
			rows,
			nil,
			nil,
		))
	}

	report.Sections = append(report.Sections, &output.Section{
		Title: "Summary",
		Content: fmt.Sprintf("%d of %d files reachable (%d%%), %d dead files, %d dead exports",
			result.Summary.ReachableCount,
			result.Summary.TotalFiles,
			result.Summary.Percentage,
			result.Summary.DeadCount,
			len(result.DeadExports)),
	})

	return formatter.Output(report)
}

// explainReachability prints the shortest entry-to-file import chain.
func explainReachability(formatter *output.Formatter, g *graph.Graph, root, target string) error {
	id := target
	if !strings.HasPrefix(id, "file://") {
		abs, err := filepath.Abs(filepath.Join(root, target))
		if err != nil {
			return err
		}
		id = depgraph.FileID(abs)
	}

	if g.Node(id) == nil {
		return fmt.Errorf("file not in graph: %s", target)
	}

	path := reachability.New(g).Path(id)
	if path == nil {
		formatter.Warning("%s is not reachable from any entry point", target)
		return nil
	}

	w := formatter.Writer()
	for i, step := range path {
		indent := strings.Repeat("  ", i)
		marker := "imports"
		if i == 0 {
			marker = "entry"
		}
		if formatter.Colored() && i == len(path)-1 {
			fmt.Fprintf(w, "%s%s %s\n", indent, marker, color.GreenString(displayPath(step, root)))
		} else {
			fmt.Fprintf(w, "%s%s %s\n", indent, marker, displayPath(step, root))
		}
	}
	return nil
}

// displayPath shortens a file node id to a root-relative path.
func displayPath(id, root string) string {
	path := strings.TrimPrefix(id, "file://")
	if abs, err := filepath.Abs(root); err == nil {
		if rel, err := filepath.Rel(abs, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}
