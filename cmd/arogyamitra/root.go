package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "arogyamitra",
	Short: "Explainable disease prediction reports for frontline health workers",
	Long: "ArogyaMitra turns a list of reported symptoms into a predicted condition,\n" +
		"an explanation of which symptoms drove it, a clinical summary, and a PDF report.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(symptomsCmd)
	rootCmd.Version = version
}
