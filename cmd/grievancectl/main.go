package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grievance_system/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grievancectl",
		Short: "Operator tools for the grievance system",
		Long: `grievancectl manages the grievance system database: schema migration,
staff account provisioning and priority checks.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.MigrateCmd(cli.OpenFromEnv))
	rootCmd.AddCommand(cli.CreateUserCmd(cli.OpenFromEnv))
	rootCmd.AddCommand(cli.ListUsersCmd(cli.OpenFromEnv))

	// Offline helpers
	rootCmd.AddCommand(cli.HashPasswordCmd())
	rootCmd.AddCommand(cli.ClassifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
