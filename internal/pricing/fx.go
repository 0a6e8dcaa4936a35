package pricing

import (
	"time"

	"github.com/railzwaylabs/yieldway/internal/config"
	"github.com/railzwaylabs/yieldway/internal/pricing/cache"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	"github.com/railzwaylabs/yieldway/internal/pricing/service"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pricing",
	fx.Provide(func(client *goredis.Client, log *zap.Logger, cfg config.Config) pricingdomain.Cache {
		return cache.New(client, log, cfg.Pricing.RetentionWindow)
	}),
	fx.Provide(fx.Annotate(
		func(cfg config.Config) time.Duration { return cfg.Pricing.FreshnessWindow },
		fx.ResultTags(`name:"pricing_freshness"`),
	)),
	fx.Provide(service.NewCalculator),
)
