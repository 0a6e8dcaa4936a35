// Package server exposes the engine over HTTP: quote lookup for the booking
// surface, rule and yield-settings administration, and the scheduler control
// plane.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railzwaylabs/yieldway/internal/config"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/railzwaylabs/yieldway/internal/scheduler"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	log      *zap.Logger
	engine   *gin.Engine
	cfg      config.Config
	hotelSvc hoteldomain.Service
	ruleSvc  ruledomain.Service
	calc     pricingdomain.Calculator
	history  historydomain.Repository
	sched    *scheduler.Scheduler
	db       *gorm.DB
	redis    *goredis.Client
	registry *prometheus.Registry
}

type Param struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	HotelSvc hoteldomain.Service
	RuleSvc  ruledomain.Service
	Calc     pricingdomain.Calculator
	History  historydomain.Repository
	Sched    *scheduler.Scheduler
	DB       *gorm.DB
	Redis    *goredis.Client
	Registry *prometheus.Registry
}

func NewServer(p Param) *Server {
	if p.Cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{
		log:      p.Log.Named("server"),
		engine:   gin.New(),
		cfg:      p.Cfg,
		hotelSvc: p.HotelSvc,
		ruleSvc:  p.RuleSvc,
		calc:     p.Calc,
		history:  p.History,
		sched:    p.Sched,
		db:       p.DB,
		redis:    p.Redis,
		registry: p.Registry,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.Use(gin.Recovery())

	s.engine.GET("/readyz", s.GetReadiness)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api")
	{
		api.GET("/hotels/:hotel_id/quotes", s.ListQuotes)
		api.GET("/hotels/:hotel_id/rooms/:room_type_id/quote", s.GetQuote)

		api.GET("/hotels/:hotel_id/yield-settings", s.GetYieldSettings)
		api.PUT("/hotels/:hotel_id/yield-settings", s.UpdateYieldSettings)
		api.GET("/hotels/:hotel_id/summaries", s.ListSummaries)
		api.GET("/hotels/:hotel_id/recommendations", s.ListRecommendations)

		api.POST("/rules", s.CreateRule)
		api.GET("/rules", s.ListRules)
		api.GET("/rules/:id", s.GetRule)
		api.PUT("/rules/:id", s.UpdateRule)

		api.GET("/scheduler/status", s.GetSchedulerStatus)
		api.POST("/scheduler/pause", s.PauseScheduler)
		api.POST("/scheduler/resume", s.ResumeScheduler)
		api.POST("/scheduler/restart", s.RestartScheduler)
		api.POST("/scheduler/jobs/:type/trigger", s.TriggerJob)
	}
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)
