package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"launchscanner/internal/store"
)

var annotateTestMode *bool

func init() {
	annotateTestMode = annotateCmd.Flags().Bool("test", false,
		"read the fixture input and write the fixture output instead of the production store")
	rootCmd.AddCommand(annotateCmd)
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <headline|language|metadata|sentiment> [--test]",
	Short: "Runs one incremental enrichment pass over the record store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		application, cfg := buildApp()

		if application.RequiresAPIKey(name) {
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
		}

		summary, err := application.Annotate(cmd.Context(), name, *annotateTestMode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrParse) {
				return err
			}
			// Partial progress was flushed; report the summary alongside
			// the failure.
			fmt.Printf("Run aborted: %s\n", summary)
			return err
		}

		if summary.Processed == 0 && summary.Total == summary.Skipped {
			fmt.Printf("All %d records already carry the %s annotation. Nothing to do.\n",
				summary.Total, name)
			return nil
		}

		fmt.Println("Processing complete!")
		fmt.Printf("%s pass: %s\n", name, summary)
		return nil
	},
}
