package cli

import (
	"fmt"

	"estate-market/pkg/models"

	"github.com/spf13/cobra"
)

func newCreateAdminCmd() *cobra.Command {
	var name, phone, password, role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin or superadmin account",
		Long: `Create a back-office account directly in the store.

Registration through the API always yields the "user" role; use this
command to bootstrap the first superadmin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.UserRole(role)
			if !r.IsAdmin() {
				return fmt.Errorf("role must be admin or superadmin, got %q", role)
			}

			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.auth.CreateUser(cmd.Context(), name, phone, password, r)
			if err != nil {
				return fmt.Errorf("create %s: %w", role, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.ID, user.Phone)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&phone, "phone", "", "Login phone number")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().StringVar(&role, "role", string(models.RoleSuperAdmin), "admin or superadmin")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	return cmd
}
