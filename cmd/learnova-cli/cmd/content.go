package cmd

import (
	"fmt"

	"github.com/nfrund/learnova/internal/landing"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// files is where content and subscriber files are read from.
var files afero.Fs = afero.NewOsFs()

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Work with landing page content files",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a content file",
	Long: `Parse a YAML content file and check that it has everything the landing
page needs: a hero headline, features, FAQs and carousel slides.

Examples:
  learnova-cli content validate content.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := landing.Load(files, args[0])
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "❌ %s is not valid: %v\n", args[0], err)
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ %s is valid\n", args[0])
		fmt.Fprintf(out, "   Title: %s\n", content.Title)
		fmt.Fprintf(out, "   Features: %d\n", len(content.Features))
		fmt.Fprintf(out, "   FAQs: %d\n", len(content.FAQs))
		fmt.Fprintf(out, "   Slides: %d\n", len(content.Slides))
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
	rootCmd.AddCommand(contentCmd)
}
