package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule() *Rule {
	return &Rule{
		Name:            "summer surge",
		Kind:            KindSeasonal,
		Priority:        10,
		Active:          true,
		ValidFrom:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Adjustment:      AdjustPercentage,
		AdjustmentValue: 15,
		Config: Config{
			Seasons: []SeasonRange{{
				Start:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				Multiplier: 1.15,
			}},
		},
	}
}

func TestValidRulePasses(t *testing.T) {
	require.NoError(t, validRule().Validate())
}

func TestValidateRequiresName(t *testing.T) {
	r := validRule()
	r.Name = ""
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	r := validRule()
	r.ValidFrom, r.ValidUntil = r.ValidUntil, r.ValidFrom
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsInvertedClamp(t *testing.T) {
	r := validRule()
	lo, hi := 150.0, 100.0
	r.MinPrice, r.MaxPrice = &lo, &hi
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsUnknownAdjustment(t *testing.T) {
	r := validRule()
	r.Adjustment = "halving"
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsNonPositiveMultiplierAdjustment(t *testing.T) {
	r := validRule()
	r.Adjustment = AdjustMultiplier
	r.AdjustmentValue = 0
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsMixedConfigBlocks(t *testing.T) {
	r := validRule()
	r.Config.LeadTime = []LeadTimeBand{{FromDays: 0, Multiplier: 1.2}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsOverlappingOccupancyThresholds(t *testing.T) {
	r := validRule()
	r.Kind = KindDemandBased
	r.Config = Config{Occupancy: []OccupancyThreshold{
		{MinPct: 0, MaxPct: 60, Multiplier: 0.9},
		{MinPct: 50, MaxPct: 100, Multiplier: 1.2},
	}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	r := validRule()
	r.Kind = "weather"
	r.Config = Config{}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
}

func TestValidatePromotionalNeedsNoConfig(t *testing.T) {
	r := validRule()
	r.Kind = KindPromotional
	r.Config = Config{}
	require.NoError(t, r.Validate())
}

func TestValidateSegmentDiscountRange(t *testing.T) {
	r := validRule()
	r.Kind = KindCustomerSegment
	r.Config = Config{SegmentDiscounts: map[string]float64{"corporate": 110}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)

	r.Config.SegmentDiscounts["corporate"] = 12
	require.NoError(t, r.Validate())
}

func TestValidAtBoundary(t *testing.T) {
	r := validRule()
	// The expiry instant itself is excluded.
	assert.True(t, r.ValidAt(r.ValidUntil.Add(-time.Second)))
	assert.False(t, r.ValidAt(r.ValidUntil))
	assert.False(t, r.ValidAt(r.ValidFrom.Add(-time.Second)))
	assert.True(t, r.ValidAt(r.ValidFrom))
}
