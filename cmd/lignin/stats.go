package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mthorley/lignin/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Summarize the dependency graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringSlice("entry", nil, "Entry-point file (repeatable; overrides config and manifest)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	entries, _ := cmd.Flags().GetStringSlice("entry")

	g, err := buildGraph(cmd.Context(), svc, getRoot(args), entries)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	stats := g.ComputeStats()

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, svc)), getOutputFile(cmd), colored(svc))
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(stats)
	}

	rows := [][]string{
		{"Nodes", fmt.Sprintf("%d", stats.TotalNodes)},
		{"Edges", fmt.Sprintf("%d", stats.TotalEdges)},
		{"Entry points", fmt.Sprintf("%d", stats.EntryPoints)},
		{"External modules", fmt.Sprintf("%d", stats.ExternalModules)},
		{"Missing files", fmt.Sprintf("%d", stats.MissingFiles)},
		{"Parse errors", fmt.Sprintf("%d", stats.ParseErrors)},
		{"Import cycles", fmt.Sprintf("%d", stats.CyclicGroups)},
	}
	for _, kind := range sortedKeys(stats.NodesByKind) {
		rows = append(rows, []string{"Nodes: " + kind, fmt.Sprintf("%d", stats.NodesByKind[kind])})
	}
	for _, pred := range sortedKeys(stats.EdgesByPredicate) {
		rows = append(rows, []string{"Edges: " + pred, fmt.Sprintf("%d", stats.EdgesByPredicate[pred])})
	}

	table := output.NewTable(
		"Dependency Graph Stats",
		[]string{"Metric", "Value"},
		rows,
		nil,
		stats,
	)
	return formatter.Output(table)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
