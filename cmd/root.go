package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                   "reportingest [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Ingests Swift and Objective-C quality reports.",
		Long: `reportingest reads Cobertura coverage, OCLint, SwiftLint and Tailor reports,
resolves the files they mention against the project and writes the results
as SARIF and generic coverage XML.`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(newRunCmd(), newVersionCmd())
	return rootCmd
}

func execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}
