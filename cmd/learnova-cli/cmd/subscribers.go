package cmd

import (
	"fmt"

	"github.com/nfrund/learnova/internal/storage"
	"github.com/spf13/cobra"
)

var subscribersFile string

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Work with newsletter sign-ups",
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored newsletter sign-ups, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := storage.NewAferoSubscribers(files, subscribersFile).List(cmd.Context())
		if err != nil {
			return err
		}
		for _, email := range list {
			fmt.Fprintln(cmd.OutOrStdout(), email)
		}
		return nil
	},
}

func init() {
	subscribersListCmd.Flags().StringVar(&subscribersFile, "file", "subscribers.txt", "subscriber file to read")
	subscribersCmd.AddCommand(subscribersListCmd)
	rootCmd.AddCommand(subscribersCmd)
}
