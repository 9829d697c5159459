package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/railway-dispatch/modules/core/seed"
	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
)

func newSeedAdminCmd() *cobra.Command {
	admin := seed.Admin{}
	cmd := &cobra.Command{
		Use:   "seed-admin --login <login> --password <password>",
		Short: "Create the admin role and a confirmed admin identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app application.Application) error {
				svc := app.Service(coreservices.UserService{}).(*coreservices.UserService)
				u, err := seed.CreateAdmin(ctx, svc, admin)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (id %s)\n", u.Login, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&admin.Login, "login", "admin", "admin login")
	cmd.Flags().StringVar(&admin.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&admin.Name, "name", "System", "admin first name")
	cmd.Flags().StringVar(&admin.Surname, "surname", "Administrator", "admin surname")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
