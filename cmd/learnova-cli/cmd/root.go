package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "learnova-cli",
	Short: "LearnOva site tool",
	Long: `learnova-cli helps run and check a LearnOva landing site.

Available commands:
  content validate   Check a content file before deploying it
  probe              Check that the auth API answers
  routes             List the routes the server registers
  subscribers list   Print stored newsletter sign-ups

Use "learnova-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
