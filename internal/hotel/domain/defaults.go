package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultOccupancyBands rise monotonically with occupancy, from a deep
// discount on near-empty nights to a premium when the hotel is almost full.
func DefaultOccupancyBands() []OccupancyBand {
	return []OccupancyBand{
		{Label: "very_low", MinPct: 0, MaxPct: 30, Multiplier: 0.7},
		{Label: "low", MinPct: 30, MaxPct: 50, Multiplier: 0.85},
		{Label: "moderate", MinPct: 50, MaxPct: 70, Multiplier: 1.0},
		{Label: "high", MinPct: 70, MaxPct: 85, Multiplier: 1.15},
		{Label: "very_high", MinPct: 85, MaxPct: 95, Multiplier: 1.3},
		{Label: "critical", MinPct: 95, MaxPct: 100, Multiplier: 1.5},
	}
}

// DefaultWeekdayMultipliers index by time.Weekday (Sunday = 0).
func DefaultWeekdayMultipliers() [7]float64 {
	return [7]float64{1.1, 0.9, 0.9, 0.95, 1.0, 1.2, 1.25}
}

// DefaultLeadTimeTiers: last-minute bookings pay a premium that decays with
// distance from the stay date.
func DefaultLeadTimeTiers() []LeadTimeTier {
	return []LeadTimeTier{
		{FromDays: 0, Multiplier: 1.3},
		{FromDays: 4, Multiplier: 1.15},
		{FromDays: 8, Multiplier: 1.0},
		{FromDays: 31, Multiplier: 0.95},
		{FromDays: 61, Multiplier: 0.9},
	}
}

func DefaultStayDiscounts() []StayDiscount {
	return []StayDiscount{
		{MinNights: 3, MaxNights: 6, DiscountPct: 5},
		{MinNights: 7, MaxNights: 0, DiscountPct: 10},
	}
}

// DefaultSettings is used for hotels that have never written a configuration.
func DefaultSettings(hotelID snowflake.ID) *YieldSettings {
	return &YieldSettings{
		HotelID:            hotelID,
		Strategy:           StrategyModerate,
		OccupancyBands:     DefaultOccupancyBands(),
		WeekdayMultipliers: DefaultWeekdayMultipliers(),
		DateOverrides:      map[string]float64{},
		LeadTimeTiers:      DefaultLeadTimeTiers(),
		StayDiscounts:      DefaultStayDiscounts(),
		Automation: AutomationSettings{
			AutoApply:                true,
			MaxDailyChangePct:        25,
			SignificanceThresholdPct: 5,
		},
		UpdatedAt: time.Now().UTC(),
	}
}
