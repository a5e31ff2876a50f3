package main

import (
	"github.com/spf13/cobra"

	"github.com/mthorley/lignin/internal/service/analysis"
	"github.com/mthorley/lignin/pkg/config"
)

var (
	cfgFile string
	noColor bool
	noCache bool
)

var rootCmd = &cobra.Command{
	Use:   "lignin",
	Short: "Static dependency-graph analysis for JavaScript projects",
	Long: `Lignin builds a typed dependency graph from JavaScript and TypeScript
sources, infers entry points, finds files no entry point can reach, and
reports duplicate symbol names across the codebase.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: text, json, markdown, toon")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write output to file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the on-disk fact cache")
}

// newService loads configuration, honoring --config when given.
func newService() (*analysis.Service, error) {
	if cfgFile == "" {
		return analysis.New(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return analysis.New(analysis.WithConfig(cfg)), nil
}

// getRoot returns the analyzed root, defaulting to the working directory.
func getRoot(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// getFormat resolves the output format from the flag, then config.
func getFormat(cmd *cobra.Command, svc *analysis.Service) string {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = svc.Config().Output.Format
	}
	return format
}

// getOutputFile returns the output file path from the command.
func getOutputFile(cmd *cobra.Command) string {
	outputFile, _ := cmd.Flags().GetString("output")
	return outputFile
}

// colored reports whether color should be used for this invocation.
func colored(svc *analysis.Service) bool {
	return svc.Config().Output.Color && !noColor
}
