// arogyamitra is the one-shot CLI: run the full diagnostic pipeline for a
// patient and write the PDF report, or list the known symptom vocabulary.
//
// Usage:
//
//	arogyamitra analyze --symptoms "fever, cough" --name "Asha Devi" --age 34
//	arogyamitra symptoms
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
