// Package cli wires the binge commands together.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "binge",
	Short:   "Install and update binaries from GitHub releases",
	Version: Version,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.WarnLevel
		if value := os.Getenv("BINGE_LOG_LEVEL"); value != "" {
			if parsed, err := log.ParseLevel(value); err == nil {
				level = parsed
			}
		}
		log.SetLevel(level)
	},
}

// Execute runs the root command and terminates the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
		os.Exit(1)
	}
}
