package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	infraservices "github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/saga"
)

func newDeleteNodeCmd() *cobra.Command {
	var (
		nodeType string
		id       int64
	)
	cmd := &cobra.Command{
		Use:   "delete-node --type <type> --id <id>",
		Short: "Delete an infrastructure entity together with everything that depends on it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app application.Application) error {
				svc := app.Service(infraservices.InfrastructureService{}).(*infraservices.InfrastructureService)
				if err := svc.DeleteNode(ctx, &node.DeleteCommand{Type: node.Type(nodeType), ID: id}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", nodeType, id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&nodeType, "type", "", "node type (station, station_work_place, block, dnc_sector, dnc_train_sector, ecd_sector, ecd_train_sector)")
	cmd.Flags().Int64Var(&id, "id", 0, "node id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteUserCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete-user --id <user id>",
		Short: "Delete an identity and its work poligon assignments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(id) == "" {
				return errors.New("--id is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, app application.Application) error {
				svc := app.Service(coreservices.UserService{}).(*coreservices.UserService)
				err := svc.Delete(ctx, &user.DeleteCommand{UserID: id})
				var sagaErr *saga.Error
				if errors.As(err, &sagaErr) && len(sagaErr.Uncompensated) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "manual reconciliation needed, committed steps: %s\n",
						strings.Join(sagaErr.Uncompensated, ", "))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "user id")
	return cmd
}
