package service

import "time"

// Fixed multiplier tables for the forward forecast. These are heuristics, not
// learned parameters; they bias the base demand score by weekday and by how
// far out the date is.

var forecastWeekday = [7]float64{
	time.Sunday:    0.85,
	time.Monday:    0.7,
	time.Tuesday:   0.72,
	time.Wednesday: 0.75,
	time.Thursday:  0.8,
	time.Friday:    0.95,
	time.Saturday:  1.0,
}

// forecastLeadTime decays from a same-day premium to a long-horizon discount.
func forecastLeadTime(daysOut int) float64 {
	switch {
	case daysOut <= 0:
		return 1.5
	case daysOut <= 3:
		return 1.3
	case daysOut <= 7:
		return 1.15
	case daysOut <= 14:
		return 1.0
	case daysOut <= 30:
		return 0.9
	case daysOut <= 60:
		return 0.8
	default:
		return 0.7
	}
}

const (
	// baseDemandScore anchors the forecast when history gives no signal.
	baseDemandScore = 0.5

	// momentumThreshold separates "flat" from a real trend.
	momentumThreshold = 0.1

	seasonalLookback = 2 * 365 * 24 * time.Hour
	trendLookback    = 26 * 7 * 24 * time.Hour
)
