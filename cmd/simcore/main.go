package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simcore",
	Short: "Dominium simulation execution core tools",
	Long: `simcore drives the deterministic simulation execution core directly from the
command line: run ticks over synthetic input, validate replay streams against each
other, and inspect kernel backend-selection decisions for a given request.`,
}

func main() {
	rootCmd.AddCommand(
		tickCmd(),
		replayCmd(),
		kernelCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
