package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
	"github.com/grievance_system/internal/services"
)

// CreateUserCmd returns the create-user command, used to provision staff
// accounts that cannot be created through public registration.
func CreateUserCmd(open Opener) *cobra.Command {
	var (
		in   services.RegisterInput
		role string
	)

	cmd := &cobra.Command{
		Use:     "create-user",
		Aliases: []string{"create-admin"},
		Short:   "Create an officer or admin account",
		Long: `Create a staff account directly in the database.

Public registration only ever produces citizen accounts; officers and
admins are provisioned here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != models.RoleAdmin && role != models.RoleOfficer {
				return fmt.Errorf("--role must be %q or %q", models.RoleAdmin, models.RoleOfficer)
			}

			gormDB, cfg, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			svc := services.NewAuthService(
				repositories.NewGormUserRepository(gormDB),
				auth.NewPasswordHasher(cfg.BcryptCost),
				nil,
			)
			user, err := svc.CreateUser(cmd.Context(), in, role)
			if errors.Is(err, services.ErrEmailTaken) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s An account with email %s already exists, nothing to do\n", skipMark, in.Email)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s #%d (%s)\n", okMark, tint(roleTint, user.Role), user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Contact phone (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password (required)")
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "Account role: admin or officer")
	for _, name := range []string{"name", "email", "phone", "password"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}

// ListUsersCmd returns the list-users command.
func ListUsersCmd(open Opener) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			users, err := repositories.NewGormUserRepository(gormDB).List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROLE\tNAME\tEMAIL\tCREATED")
			shown := 0
			for _, u := range users {
				if role != "" && u.Role != role {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, tint(roleTint, u.Role), u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
				shown++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d account(s)\n", shown)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only show accounts with this role")
	return cmd
}
