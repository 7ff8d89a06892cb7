package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command.
func MigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long:  `Runs the schema migration against the configured database. Safe to run multiple times.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			fmt.Fprintf(cmd.OutOrStdout(), "%s Schema is up to date (%s)\n", okMark, cfg.DBDriver)
			return nil
		},
	}
}
