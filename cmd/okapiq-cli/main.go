// Command okapiq-cli is a thin cobra-based wrapper over the
// intelligence pipeline for local scans and scripting, per the
// external-interfaces CLI surface spec §1 names as out of core scope
// but still part of the shipped repo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "okapiq-cli",
	Short: "Run and inspect the Okapiq market-intelligence pipeline",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
