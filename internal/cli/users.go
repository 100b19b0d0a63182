package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/services"
)

func newUsersCmd(backend func() *Backend, format func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Grant or revoke operator access",
	}
	cmd.AddCommand(newSetRoleCmd(backend, format, "promote", models.RoleAdmin, "Give a user access to the admin API"))
	cmd.AddCommand(newSetRoleCmd(backend, format, "demote", models.RoleUser, "Remove a user's access to the admin API"))
	return cmd
}

func newSetRoleCmd(backend func() *Backend, format func() string, name, role, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := services.NewAuthService(backend().DB, &config.Config{})
			user, err := auth.SetRole(context.Background(), args[0], role)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), format(), user, func() *table {
				return userTable(user)
			})
		},
	}
}

func userTable(u *dto.UserResponse) *table {
	t := newTable("ID", "EMAIL", "NAME", "ROLE")
	t.addRow(u.ID.String(), u.Email, u.Name, u.Role)
	return t
}
