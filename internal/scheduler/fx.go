package scheduler

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	bookingdomain "github.com/railzwaylabs/yieldway/internal/booking/domain"
	"github.com/railzwaylabs/yieldway/internal/clock"
	"github.com/railzwaylabs/yieldway/internal/config"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	"github.com/railzwaylabs/yieldway/internal/events"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Param struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Cfg      config.Config
	Hotels   hoteldomain.Service
	Demand   demanddomain.Analyzer
	Calc     pricingdomain.Calculator
	Cache    pricingdomain.Cache
	Rules    ruledomain.Repository
	History  historydomain.Repository
	Bookings bookingdomain.Repository
	Events   events.Publisher
	GenID    *snowflake.Node
	Registry *prometheus.Registry
}

func NewScheduler(p Param) *Scheduler {
	s := &Scheduler{
		db:       p.DB,
		log:      p.Log.Named("scheduler"),
		clock:    p.Clock,
		cfg:      p.Cfg,
		hotels:   p.Hotels,
		demand:   p.Demand,
		calc:     p.Calc,
		cache:    p.Cache,
		rules:    p.Rules,
		history:  p.History,
		bookings: p.Bookings,
		events:   p.Events,
		genID:    p.GenID,
		metrics:  newMetrics(p.Registry),
		jobs:     make(map[JobType]*job),
		stats:    make(map[JobType]*JobStats),
		stop:     make(chan struct{}),
	}
	s.registerJobs(s.clock.Now(context.Background()))
	return s
}

var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
)
