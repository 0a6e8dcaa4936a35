// Package domain defines price quotes, factor breakdowns, and the strategy
// weight tables the calculator blends factors with.
package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
)

type DemandLevel string

const (
	DemandPeak     DemandLevel = "PEAK"
	DemandVeryHigh DemandLevel = "VERY_HIGH"
	DemandHigh     DemandLevel = "HIGH"
	DemandNormal   DemandLevel = "NORMAL"
	DemandLow      DemandLevel = "LOW"
	DemandVeryLow  DemandLevel = "VERY_LOW"
)

// DemandLevelFor maps the blended multiplier to its label band.
func DemandLevelFor(multiplier float64) DemandLevel {
	switch {
	case multiplier >= 1.5:
		return DemandPeak
	case multiplier >= 1.3:
		return DemandVeryHigh
	case multiplier >= 1.1:
		return DemandHigh
	case multiplier >= 0.9:
		return DemandNormal
	case multiplier >= 0.7:
		return DemandLow
	default:
		return DemandVeryLow
	}
}

// Factor is one contribution to a quote, in application order.
type Factor struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Weight     float64 `json:"weight,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}

// Quote is the cached pricing output for one (hotel, room type, date).
type Quote struct {
	HotelID     snowflake.ID `json:"hotel_id"`
	RoomTypeID  snowflake.ID `json:"room_type_id"`
	Date        time.Time    `json:"date"`
	BasePrice   float64      `json:"base_price"`
	FinalPrice  float64      `json:"final_price"`
	Multiplier  float64      `json:"multiplier"`
	Factors     []Factor     `json:"factors"`
	DemandLevel DemandLevel  `json:"demand_level"`
	ComputedAt  time.Time    `json:"computed_at"`
}

// CacheKey identifies a quote slot. Date resolution is one day.
func CacheKey(hotelID, roomTypeID snowflake.ID, date time.Time) string {
	return fmt.Sprintf("quote:%d:%d:%s", hotelID, roomTypeID, date.Format("2006-01-02"))
}

func (q *Quote) Key() string {
	return CacheKey(q.HotelID, q.RoomTypeID, q.Date)
}

// StrategyWeights split the blended multiplier across factor groups; each
// table sums to 1.0.
type StrategyWeights struct {
	Occupancy  float64 `json:"occupancy"`
	Seasonal   float64 `json:"seasonal"`
	DayOfWeek  float64 `json:"day_of_week"`
	Event      float64 `json:"event"`
	LeadTime   float64 `json:"lead_time"`
	Competitor float64 `json:"competitor"`
	Other      float64 `json:"other"`
}

// WeightsFor returns the strategy's weight table. Aggressive leans on the
// occupancy signal; conservative favors the calendar-shaped factors.
func WeightsFor(strategy hoteldomain.PricingStrategy) StrategyWeights {
	switch strategy {
	case hoteldomain.StrategyAggressive:
		return StrategyWeights{
			Occupancy: 0.45, Seasonal: 0.1, DayOfWeek: 0.1, Event: 0.1,
			LeadTime: 0.15, Competitor: 0.05, Other: 0.05,
		}
	case hoteldomain.StrategyConservative:
		return StrategyWeights{
			Occupancy: 0.15, Seasonal: 0.3, DayOfWeek: 0.25, Event: 0.1,
			LeadTime: 0.1, Competitor: 0.05, Other: 0.05,
		}
	default:
		return StrategyWeights{
			Occupancy: 0.3, Seasonal: 0.2, DayOfWeek: 0.15, Event: 0.15,
			LeadTime: 0.1, Competitor: 0.05, Other: 0.05,
		}
	}
}

// Cache memoizes quotes. It is a performance optimization only; losing it
// forces recomputation but never changes results.
type Cache interface {
	// Get returns the stored quote regardless of age; freshness is the
	// caller's policy.
	Get(ctx context.Context, key string) (*Quote, bool, error)
	// Put stores the quote unless a newer one is already present
	// (latest computed-at wins).
	Put(ctx context.Context, quote *Quote) error
	// Prune drops quotes older than the retention window and reports how many
	// were removed.
	Prune(ctx context.Context, retention time.Duration) (int, error)
}

type Calculator interface {
	// Price returns the quote for one (hotel, room type, date), cache-first.
	// stayNights of 0 means "unknown"; length-of-stay discounts then stay
	// neutral.
	Price(ctx context.Context, hotelID, roomTypeID snowflake.ID, date time.Time, stayNights int) (*Quote, error)
	// Preview computes a quote without touching the cache, so a caller can
	// decide whether to apply it.
	Preview(ctx context.Context, hotelID, roomTypeID snowflake.ID, date time.Time, stayNights int) (*Quote, error)
	// PriceHotel prices every active room type for the date.
	PriceHotel(ctx context.Context, hotelID snowflake.ID, date time.Time) ([]Quote, error)
}
