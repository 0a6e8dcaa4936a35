// Package domain defines the demand-analysis outputs: occupancy, seasonal
// indices, trend momentum, and the forward occupancy forecast. Snapshots are
// derived values, recomputed per analysis and never persisted.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendFlat       TrendDirection = "flat"
	TrendDecreasing TrendDirection = "decreasing"
)

// ForecastPoint is one future date's demand estimate, expressed as an
// occupancy probability in percent.
type ForecastPoint struct {
	Date         time.Time `json:"date"`
	DemandScore  float64   `json:"demand_score"` // clamped to [0,1]
	OccupancyPct float64   `json:"occupancy_pct"`
}

// Snapshot is the full demand picture for one hotel over one window.
type Snapshot struct {
	HotelID     snowflake.ID `json:"hotel_id"`
	WindowStart time.Time    `json:"window_start"`
	WindowEnd   time.Time    `json:"window_end"`

	OccupancyRate    float64                  `json:"occupancy_rate"` // percent, [0,100]
	OccupancyByRoom  map[snowflake.ID]float64 `json:"occupancy_by_room"`
	OccupancyByDate  map[string]float64       `json:"occupancy_by_date"` // "2006-01-02" -> percent
	AverageDailyRate float64                  `json:"average_daily_rate"`
	RevPAR           float64                  `json:"revpar"`

	// SeasonalIndex is indexed by time.Month (1-12); 1.0 means no bias.
	SeasonalIndex [13]float64 `json:"seasonal_index"`

	TrendDirection TrendDirection `json:"trend_direction"`
	Momentum       float64        `json:"momentum"` // signed weekly rate of change

	Forecast []ForecastPoint `json:"forecast"`

	ComputedAt time.Time `json:"computed_at"`
}

// SeasonalIndexFor returns the month's index, neutral when unset.
func (s *Snapshot) SeasonalIndexFor(m time.Month) float64 {
	idx := s.SeasonalIndex[m]
	if idx <= 0 {
		return 1.0
	}
	return idx
}

type Analyzer interface {
	// Analyze derives a snapshot for the hotel over [start, end). A hotel with
	// no history yields a neutral snapshot, never an error.
	Analyze(ctx context.Context, hotelID snowflake.ID, start, end time.Time) (*Snapshot, error)
	// CurrentOccupancy is a convenience for "occupancy as of today".
	CurrentOccupancy(ctx context.Context, hotelID snowflake.ID) (float64, error)
}
