package service

import (
	"fmt"
	"time"

	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
)

// Factor computation in the fixed order the calculator applies them. Every
// function returns a plain multiplier; 1.0 means the feature stays neutral.

func occupancyFactor(bands []hoteldomain.OccupancyBand, occupancyPct float64) (float64, string) {
	for i, band := range bands {
		last := i == len(bands)-1
		if occupancyPct >= band.MinPct && (occupancyPct < band.MaxPct || last) {
			return band.Multiplier, band.Label
		}
	}
	return 1.0, ""
}

// seasonFactor resolves overlapping seasons to the first match in the hotel's
// declared order.
func seasonFactor(seasons []hoteldomain.Season, date time.Time) (float64, string) {
	for _, season := range seasons {
		if season.Covers(date) {
			return season.Multiplier, season.Name
		}
	}
	return 1.0, ""
}

// dayOfWeekFactor: a per-date override takes precedence over the weekday
// default.
func dayOfWeekFactor(settings *hoteldomain.YieldSettings, date time.Time) (float64, string) {
	if override, ok := settings.DateOverrides[date.Format("2006-01-02")]; ok {
		return override, "date_override"
	}
	return settings.WeekdayMultipliers[date.Weekday()], date.Weekday().String()
}

// eventFactor: first matching window wins when events overlap.
func eventFactor(events []hoteldomain.EventWindow, date time.Time) (float64, string) {
	for _, event := range events {
		if event.Covers(date) {
			return event.Multiplier, event.Name
		}
	}
	return 1.0, ""
}

// leadTimeFactor picks the highest configured tier at or below the actual
// lead time.
func leadTimeFactor(tiers []hoteldomain.LeadTimeTier, leadDays int) (float64, string) {
	mult, detail := 1.0, ""
	for _, tier := range tiers {
		if leadDays >= tier.FromDays {
			mult = tier.Multiplier
			detail = fmt.Sprintf("from_%dd", tier.FromDays)
		}
	}
	return mult, detail
}

// stayLengthFactor is a discount only; tiers are validated non-overlapping so
// at most one applies. A stayNights of 0 means the stay length is unknown.
func stayLengthFactor(discounts []hoteldomain.StayDiscount, stayNights int) (float64, string) {
	if stayNights <= 0 {
		return 1.0, ""
	}
	for _, d := range discounts {
		if stayNights >= d.MinNights && (d.MaxNights == 0 || stayNights <= d.MaxNights) {
			return 1 - d.DiscountPct/100, fmt.Sprintf("min_%d_nights", d.MinNights)
		}
	}
	return 1.0, ""
}

// weatherFactor and competitorFactor are explicit stubs: without an external
// feed they return the statically configured multiplier, or stay neutral when
// the integration is disabled.
func weatherFactor(settings *hoteldomain.YieldSettings) (float64, string) {
	if settings.WeatherMultiplier == nil {
		return 1.0, "disabled"
	}
	return *settings.WeatherMultiplier, "static"
}

func competitorFactor(settings *hoteldomain.YieldSettings) (float64, string) {
	if settings.CompetitorOffset == nil {
		return 1.0, "disabled"
	}
	return *settings.CompetitorOffset, "static"
}
