package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Scrapes the leaderboard page and writes the launch records to the store.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _ := buildApp()

		count, err := application.Fetch(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d launches.\n", count)
		return nil
	},
}
