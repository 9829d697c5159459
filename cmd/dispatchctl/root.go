package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/railway-dispatch/internal/server"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
)

const connectTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "Railway dispatch administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newDeleteNodeCmd())
	cmd.AddCommand(newDeleteUserCmd())
	cmd.AddCommand(newSeedAdminCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// withApp connects both stores, loads the modules and runs fn with a context
// carrying the pool and a command logger.
func withApp(parent context.Context, fn func(ctx context.Context, app application.Application) error) error {
	conf := configuration.Use()
	defer conf.Unload()

	connectCtx, cancel := context.WithTimeout(parent, connectTimeout)
	defer cancel()
	stores, err := server.Connect(connectCtx, conf)
	if err != nil {
		return err
	}
	defer stores.Close()

	app, err := server.NewApplication(conf.Logger(), stores)
	if err != nil {
		return err
	}
	ctx := composables.WithPool(parent, stores.Pool)
	ctx = composables.WithLogger(ctx, conf.Logger().WithField("entrypoint", "dispatchctl"))
	return fn(ctx, app)
}
