// Package domain holds hotel inventory and per-hotel yield configuration.
// Configuration is validated when written; the pricing engine reads it as-is.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrInvalidSettings  = errors.New("invalid yield settings")
)

type PricingStrategy string

const (
	StrategyConservative PricingStrategy = "conservative"
	StrategyModerate     PricingStrategy = "moderate"
	StrategyAggressive   PricingStrategy = "aggressive"
)

type Hotel struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	City         string       `gorm:"type:text"`
	YieldEnabled bool         `gorm:"not null;default:false;index"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

func (Hotel) TableName() string { return "hotels" }

type RoomType struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	HotelID   snowflake.ID `gorm:"not null;index"`
	Name      string       `gorm:"type:text;not null"`
	Rooms     int          `gorm:"not null"`
	BasePrice float64      `gorm:"not null"`
	MinPrice  *float64
	MaxPrice  *float64
	Active    bool `gorm:"not null;default:true"`
}

func (RoomType) TableName() string { return "room_types" }

// OccupancyBand maps an occupancy-rate range to a pricing multiplier.
// MaxPct is exclusive except for the final band.
type OccupancyBand struct {
	Label      string  `json:"label"`
	MinPct     float64 `json:"min_pct"`
	MaxPct     float64 `json:"max_pct"`
	Multiplier float64 `json:"multiplier"`
}

// Season is a recurring or one-off date range with its own multiplier.
// Recurring seasons re-anchor to the evaluated date's year.
type Season struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Recurring  bool      `json:"recurring"`
	Multiplier float64   `json:"multiplier"`
}

// Covers reports whether date falls inside the season's window. The end is
// exclusive; recurring windows re-anchor to date's year (or the prior year
// for windows spanning New Year).
func (s Season) Covers(date time.Time) bool {
	return inCalendarWindow(date, s.Start, s.End, s.Recurring)
}

// EventWindow marks a demand-affecting local event (conference, festival).
type EventWindow struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Recurring  bool      `json:"recurring"`
	Multiplier float64   `json:"multiplier"`
	RadiusKM   float64   `json:"radius_km"`
}

// Covers reports whether date falls inside the event window, with the same
// recurrence handling as Season.Covers.
func (e EventWindow) Covers(date time.Time) bool {
	return inCalendarWindow(date, e.Start, e.End, e.Recurring)
}

func inCalendarWindow(date, start, end time.Time, recurring bool) bool {
	if !recurring {
		return !date.Before(start) && date.Before(end)
	}
	for _, yearShift := range []int{0, -1} {
		year := date.Year() + yearShift
		s := time.Date(year, start.Month(), start.Day(), 0, 0, 0, 0, date.Location())
		e := s.Add(end.Sub(start))
		if !date.Before(s) && date.Before(e) {
			return true
		}
	}
	return false
}

// LeadTimeTier applies from FromDays of lead time until the next tier starts.
type LeadTimeTier struct {
	FromDays   int     `json:"from_days"`
	Multiplier float64 `json:"multiplier"`
}

// StayDiscount grants a percentage discount for stays of at least MinNights.
type StayDiscount struct {
	MinNights   int     `json:"min_nights"`
	MaxNights   int     `json:"max_nights"` // 0 = unbounded
	DiscountPct float64 `json:"discount_pct"`
}

type AutomationSettings struct {
	AutoApply                bool    `json:"auto_apply"`
	MaxDailyChangePct        float64 `json:"max_daily_change_pct"`
	SignificanceThresholdPct float64 `json:"significance_threshold_pct"`
}

// YieldSettings is the full per-hotel yield configuration. One row per hotel;
// list-valued fields are stored as JSON documents.
type YieldSettings struct {
	HotelID            snowflake.ID       `gorm:"primaryKey" json:"hotel_id"`
	Strategy           PricingStrategy    `gorm:"type:text;not null" json:"strategy"`
	OccupancyBands     []OccupancyBand    `gorm:"serializer:json" json:"occupancy_bands"`
	WeekdayMultipliers [7]float64         `gorm:"serializer:json" json:"weekday_multipliers"`
	DateOverrides      map[string]float64 `gorm:"serializer:json" json:"date_overrides"` // "2006-01-02" -> multiplier
	LeadTimeTiers      []LeadTimeTier     `gorm:"serializer:json" json:"lead_time_tiers"`
	Seasons            []Season           `gorm:"serializer:json" json:"seasons"`
	Events             []EventWindow      `gorm:"serializer:json" json:"events"`
	StayDiscounts      []StayDiscount     `gorm:"serializer:json" json:"stay_discounts"`
	WeatherMultiplier  *float64           `json:"weather_multiplier,omitempty"`
	CompetitorOffset   *float64           `json:"competitor_offset,omitempty"`
	Automation         AutomationSettings `gorm:"serializer:json" json:"automation"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

func (YieldSettings) TableName() string { return "hotel_yield_settings" }

type Repository interface {
	GetHotel(ctx context.Context, id snowflake.ID) (*Hotel, error)
	ListYieldEnabled(ctx context.Context) ([]Hotel, error)
	ListRoomTypes(ctx context.Context, hotelID snowflake.ID) ([]RoomType, error)
	GetRoomType(ctx context.Context, hotelID, roomTypeID snowflake.ID) (*RoomType, error)
	TotalRooms(ctx context.Context, hotelID snowflake.ID) (int, error)
	GetSettings(ctx context.Context, hotelID snowflake.ID) (*YieldSettings, error)
	SaveSettings(ctx context.Context, settings *YieldSettings) error
}

type Service interface {
	Hotel(ctx context.Context, id snowflake.ID) (*Hotel, error)
	YieldEnabledHotels(ctx context.Context) ([]Hotel, error)
	RoomTypes(ctx context.Context, hotelID snowflake.ID) ([]RoomType, error)
	RoomType(ctx context.Context, hotelID, roomTypeID snowflake.ID) (*RoomType, error)
	TotalRooms(ctx context.Context, hotelID snowflake.ID) (int, error)
	// Settings returns the hotel's yield configuration, falling back to the
	// default configuration when none has been written.
	Settings(ctx context.Context, hotelID snowflake.ID) (*YieldSettings, error)
	// UpdateSettings validates and persists a new configuration.
	UpdateSettings(ctx context.Context, settings *YieldSettings) error
}
