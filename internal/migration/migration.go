// Package migration keeps the schema in step with the models. AutoMigrate is
// additive only; destructive changes need a manual migration.
package migration

import (
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/railzwaylabs/yieldway/internal/scheduler"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&hoteldomain.Hotel{},
		&hoteldomain.RoomType{},
		&hoteldomain.YieldSettings{},
		&bookingdomain.Booking{},
		&ruledomain.Rule{},
		&historydomain.DailySummary{},
		&historydomain.Recommendation{},
		&historydomain.SeasonalPattern{},
		&scheduler.JobRun{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(db *gorm.DB) error {
		return Run(db)
	}),
)
