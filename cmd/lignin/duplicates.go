package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mthorley/lignin/internal/output"
	"github.com/mthorley/lignin/internal/service/analysis"
)

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates [path]",
	Aliases: []string{"dup"},
	Short:   "Find duplicate and near-duplicate function names",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDuplicates,
}

func init() {
	duplicatesCmd.Flags().Int("min-group", 0, "Minimum occurrences for a group to be reported")
	duplicatesCmd.Flags().Float64("fuzzy", 0, "Similarity threshold for near-duplicate names (0 disables)")
	duplicatesCmd.Flags().StringSlice("exclude-names", nil, "Names to skip, such as constructor")

	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	minGroup, _ := cmd.Flags().GetInt("min-group")
	fuzzy, _ := cmd.Flags().GetFloat64("fuzzy")
	excludeNames, _ := cmd.Flags().GetStringSlice("exclude-names")
	root := getRoot(args)

	g, err := buildGraph(cmd.Context(), svc, root, nil)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	result := svc.FindDuplicates(g, analysis.DuplicateOptions{
		MinGroupSize:   minGroup,
		FuzzyThreshold: fuzzy,
		ExcludeNames:   excludeNames,
	})

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd, svc)), getOutputFile(cmd), colored(svc))
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(result)
	}

	report := &output.Report{Title: "Duplicate Analysis", Data: result}

	if len(result.Groups) > 0 {
		var rows [][]string
		for _, group := range result.Groups {
			locations := make([]string, 0, len(group.Occurrences))
			for _, occ := range group.Occurrences {
				locations = append(locations, fmt.Sprintf("%s:%d", displayPath(occ.File, root), occ.Line))
			}
			rows = append(rows, []string{
				group.Name,
				string(group.Category),
				fmt.Sprintf("%d", group.Count),
				strings.Join(locations, ", "),
			})
		}
		report.Sections = append(report.Sections, output.NewTable(
			"Duplicate Symbols",
			[]string{"Name", "Category", "Count", "Locations"},
			rows,
			nil,
			nil,
		))
	}

	if len(result.FuzzyMatches) > 0 {
		var rows [][]string
		for _, match := range result.FuzzyMatches {
			rows = append(rows, []string{
				match.NameA,
				match.NameB,
				fmt.Sprintf("%.0f%%", match.Similarity*100),
			})
		}
		report.Sections = append(report.Sections, output.NewTable(
			"Near-Duplicate Names",
			[]string{"Name A", "Name B", "Similarity"},
			rows,
			nil,
			nil,
		))
	}

	report.Sections = append(report.Sections, &output.Section{
		Title: "Summary",
		Content: fmt.Sprintf("%d duplicate groups across %d functions, redundancy %.2f",
			len(result.Groups),
			result.TotalFunctions,
			result.RedundancyScore),
	})

	return formatter.Output(report)
}
