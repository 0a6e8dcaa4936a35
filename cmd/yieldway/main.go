package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/booking"
	"github.com/railzwaylabs/yieldway/internal/clock"
	"github.com/railzwaylabs/yieldway/internal/config"
	"github.com/railzwaylabs/yieldway/internal/demand"
	"github.com/railzwaylabs/yieldway/internal/events"
	"github.com/railzwaylabs/yieldway/internal/history"
	"github.com/railzwaylabs/yieldway/internal/hotel"
	"github.com/railzwaylabs/yieldway/internal/migration"
	"github.com/railzwaylabs/yieldway/internal/observability"
	"github.com/railzwaylabs/yieldway/internal/pricing"
	"github.com/railzwaylabs/yieldway/internal/redis"
	"github.com/railzwaylabs/yieldway/internal/rule"
	"github.com/railzwaylabs/yieldway/internal/scheduler"
	"github.com/railzwaylabs/yieldway/internal/seed"
	"github.com/railzwaylabs/yieldway/internal/server"
	"github.com/railzwaylabs/yieldway/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "yieldway",
		Short:   "Yieldway dynamic pricing engine CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newSchedulerCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(migration.Module)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo hotel with a year of booking history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(
				migration.Module,
				fx.Invoke(func(conn *gorm.DB, node *snowflake.Node) error {
					return seed.EnsureDemoHotel(conn, node)
				}),
			)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run API server and yield scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(append(coreModules(),
				migration.Module,
				server.Module,
				fx.Invoke(startScheduler),
			)...)
			app.Run()
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the yield scheduler without the HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(append(coreModules(),
				migration.Module,
				fx.Invoke(startScheduler),
			)...)
			app.Run()
			return nil
		},
	}
}

func coreModules() []fx.Option {
	return []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		events.Module,

		booking.Module,
		hotel.Module,
		rule.Module,
		demand.Module,
		pricing.Module,
		history.Module,
		scheduler.Module,
	}
}

// runOnce starts a minimal app for a one-shot task and stops it once the
// invokes have run.
func runOnce(extra ...fx.Option) error {
	opts := []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
	}
	app := fx.New(append(opts, extra...)...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.Background())
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
}
