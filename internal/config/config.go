package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config carries process-wide settings. Values come from the environment with
// the YIELD_ prefix, optionally seeded from a local .env file.
type Config struct {
	HTTPAddr string
	Mode     string

	Database DatabaseConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Yield    YieldConfig
}

type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PricingConfig struct {
	// FreshnessWindow bounds how old a cached quote may be before the
	// calculator treats it as a miss.
	FreshnessWindow time.Duration
	// RetentionWindow bounds cache growth; quotes older than this are pruned.
	RetentionWindow time.Duration
}

type YieldConfig struct {
	// SignificanceThresholdPct is the minimum relative price change, in
	// percent, before the hourly job applies a new price.
	SignificanceThresholdPct float64
	// SpikeBoostCapPct caps the real-time spike response surcharge.
	SpikeBoostCapPct float64
	// SpikeWindow is how long a spike-boosted price remains in force.
	SpikeWindow time.Duration
	// PerHotelTimeout bounds a single hotel's recomputation inside a job run.
	PerHotelTimeout time.Duration
	// BatchPause is the pause inserted between hotel batches to avoid
	// saturating the backing store.
	BatchPause time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("YIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("mode", "development")

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "yieldway.db")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("pricing_freshness_window", time.Hour)
	v.SetDefault("pricing_retention_window", 90*24*time.Hour)

	v.SetDefault("yield_significance_threshold_pct", 5.0)
	v.SetDefault("yield_spike_boost_cap_pct", 50.0)
	v.SetDefault("yield_spike_window", 2*time.Hour)
	v.SetDefault("yield_per_hotel_timeout", 5*time.Second)
	v.SetDefault("yield_batch_pause", 100*time.Millisecond)

	cfg := Config{
		HTTPAddr: v.GetString("http_addr"),
		Mode:     v.GetString("mode"),
		Database: DatabaseConfig{
			Driver: v.GetString("db_driver"),
			DSN:    v.GetString("db_dsn"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Pricing: PricingConfig{
			FreshnessWindow: v.GetDuration("pricing_freshness_window"),
			RetentionWindow: v.GetDuration("pricing_retention_window"),
		},
		Yield: YieldConfig{
			SignificanceThresholdPct: v.GetFloat64("yield_significance_threshold_pct"),
			SpikeBoostCapPct:         v.GetFloat64("yield_spike_boost_cap_pct"),
			SpikeWindow:              v.GetDuration("yield_spike_window"),
			PerHotelTimeout:          v.GetDuration("yield_per_hotel_timeout"),
			BatchPause:               v.GetDuration("yield_batch_pause"),
		},
	}

	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
