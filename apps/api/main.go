package main

import (
	"context"

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
	"github.com/railzwaylabs/yieldway/internal/server"
	"github.com/railzwaylabs/yieldway/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		migration.Module,
		events.Module,

		// Functional domains
		booking.Module,
		hotel.Module,
		rule.Module,
		demand.Module,
		pricing.Module,
		history.Module,
		scheduler.Module,

		server.Module,
		fx.Invoke(StartScheduler),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func StartScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go s.RunForever(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
