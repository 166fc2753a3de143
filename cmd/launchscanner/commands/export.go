package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mirrors the record store into Postgres for querying.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, _ := buildApp()

		count, err := application.Export(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d launches.\n", count)
		return nil
	},
}
