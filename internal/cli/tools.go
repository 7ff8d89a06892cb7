package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/core/priority"
)

// HashPasswordCmd returns the hash-password command.
func HashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("password must not be empty")
			}
			hash, err := auth.NewPasswordHasher(cost).Hash(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

// ClassifyCmd returns the classify command, which shows the priority a
// complaint would receive on submission.
func ClassifyCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "classify <description...>",
		Short: "Show the priority assigned to a complaint",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := priority.Classify(strings.Join(args, " "), category)
			fmt.Fprintln(cmd.OutOrStdout(), tint(priorityTint, string(level)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Complaint category")
	return cmd
}
