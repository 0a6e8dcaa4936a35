package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRuleRepo struct {
	perfUpdates int
}

func (s *stubRuleRepo) Get(context.Context, snowflake.ID) (*ruledomain.Rule, error) {
	return nil, nil
}
func (s *stubRuleRepo) ListForHotel(context.Context, snowflake.ID) ([]ruledomain.Rule, error) {
	return nil, nil
}
func (s *stubRuleRepo) List(context.Context) ([]ruledomain.Rule, error) { return nil, nil }
func (s *stubRuleRepo) Insert(context.Context, *ruledomain.Rule) error  { return nil }
func (s *stubRuleRepo) Update(context.Context, *ruledomain.Rule) error  { return nil }
func (s *stubRuleRepo) UpdatePerformance(context.Context, *ruledomain.Rule) error {
	s.perfUpdates++
	return nil
}
func (s *stubRuleRepo) ListDegraded(context.Context, time.Time) ([]ruledomain.Rule, error) {
	return nil, nil
}

func newTestEvaluator() (*Evaluator, *stubRuleRepo) {
	repo := &stubRuleRepo{}
	return &Evaluator{log: zap.NewNop(), repo: repo}, repo
}

func baseRule(kind ruledomain.RuleKind) *ruledomain.Rule {
	return &ruledomain.Rule{
		ID:              1,
		Name:            "test rule",
		Kind:            kind,
		Active:          true,
		ValidFrom:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:      time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Adjustment:      ruledomain.AdjustMultiplier,
		AdjustmentValue: 1.0,
	}
}

func evalCtxAt(now time.Time) ruledomain.EvalContext {
	return ruledomain.EvalContext{
		Now:          now,
		Date:         now.AddDate(0, 0, 2),
		LeadTimeDays: 2,
		StayNights:   1,
		RoomTypeID:   7,
		OccupancyPct: 60,
	}
}

func TestEvaluatePercentageAdjustment(t *testing.T) {
	e, repo := newTestEvaluator()

	rule := baseRule(ruledomain.KindPromotional)
	rule.Adjustment = ruledomain.AdjustPercentage
	rule.AdjustmentValue = -10

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	eval, ok := e.Evaluate(context.Background(), rule, 200, evalCtxAt(at))
	require.True(t, ok)
	assert.InDelta(t, 180, eval.AdjustedPrice, 0.001)
	assert.InDelta(t, -20, eval.Delta, 0.001)
	assert.Equal(t, 1, repo.perfUpdates)
	assert.Equal(t, int64(1), rule.Applications)
	assert.InDelta(t, -20, rule.RevenueImpact, 0.001)
	// The application timestamp comes from the evaluation instant, not the
	// wall clock.
	require.NotNil(t, rule.LastAppliedAt)
	assert.Equal(t, at, *rule.LastAppliedAt)
}

func TestEvaluateExpiredRuleNeverApplies(t *testing.T) {
	e, _ := newTestEvaluator()

	rule := baseRule(ruledomain.KindPromotional)
	// Exactly the instant of expiry must already exclude the rule.
	now := rule.ValidUntil

	_, ok := e.Evaluate(context.Background(), rule, 100, evalCtxAt(now))
	assert.False(t, ok)

	_, ok = e.Evaluate(context.Background(), rule, 100, evalCtxAt(rule.ValidUntil.Add(-time.Second)))
	assert.True(t, ok)
}

func TestEvaluateRoomTypeScope(t *testing.T) {
	e, _ := newTestEvaluator()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rule := baseRule(ruledomain.KindPromotional)
	rule.RoomTypeIDs = []snowflake.ID{42}

	_, ok := e.Evaluate(context.Background(), rule, 100, evalCtxAt(now))
	assert.False(t, ok, "scoped rule must not match other room types")

	rule.RoomTypeIDs = nil
	_, ok = e.Evaluate(context.Background(), rule, 100, evalCtxAt(now))
	assert.True(t, ok, "empty scope matches all room types")
}

func TestEvaluateDemandRuleRequiresBandMatch(t *testing.T) {
	e, _ := newTestEvaluator()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rule := baseRule(ruledomain.KindDemandBased)
	rule.Config.Occupancy = []ruledomain.OccupancyThreshold{
		{MinPct: 85, MaxPct: 100, Multiplier: 1.3},
	}

	ctx := evalCtxAt(now)
	ctx.OccupancyPct = 60
	_, ok := e.Evaluate(context.Background(), rule, 100, ctx)
	assert.False(t, ok)

	ctx.OccupancyPct = 92
	eval, ok := e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 130, eval.AdjustedPrice, 0.001)
	assert.InDelta(t, 1.3, eval.KindMultiplier, 0.001)
}

func TestEvaluateClampAndSuccessRate(t *testing.T) {
	e, _ := newTestEvaluator()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	maxPrice := 120.0
	rule := baseRule(ruledomain.KindPromotional)
	rule.Adjustment = ruledomain.AdjustMultiplier
	rule.AdjustmentValue = 2.0
	rule.MaxPrice = &maxPrice

	eval, ok := e.Evaluate(context.Background(), rule, 100, evalCtxAt(now))
	require.True(t, ok)
	assert.True(t, eval.Clamped)
	assert.InDelta(t, 120, eval.AdjustedPrice, 0.001)
	assert.InDelta(t, 0, rule.SuccessRate, 0.001)

	rule.AdjustmentValue = 1.1
	eval, ok = e.Evaluate(context.Background(), rule, 100, evalCtxAt(now))
	require.True(t, ok)
	assert.False(t, eval.Clamped)
	assert.InDelta(t, 0.5, rule.SuccessRate, 0.001)
}

func TestEvaluateSeasonalRecurringWindow(t *testing.T) {
	e, _ := newTestEvaluator()

	rule := baseRule(ruledomain.KindSeasonal)
	rule.ValidUntil = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rule.Config.Seasons = []ruledomain.SeasonRange{
		{
			Start:      time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Recurring:  true,
			Multiplier: 1.4,
		},
	}

	now := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	ctx := evalCtxAt(now)

	// Inside the re-anchored window, including the year-end wrap.
	ctx.Date = time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	eval, ok := e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 140, eval.AdjustedPrice, 0.001)

	ctx.Date = time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)
	eval, ok = e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 140, eval.AdjustedPrice, 0.001)

	// Outside the window the season contributes nothing.
	ctx.Date = time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	eval, ok = e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 100, eval.AdjustedPrice, 0.001)
}

func TestEvaluateLengthOfStayDiscount(t *testing.T) {
	e, _ := newTestEvaluator()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rule := baseRule(ruledomain.KindLengthOfStay)
	rule.Config.StayLength = []ruledomain.StayLengthBand{
		{MinNights: 3, MaxNights: 6, DiscountPct: 5},
		{MinNights: 7, MaxNights: 0, DiscountPct: 10},
	}

	ctx := evalCtxAt(now)
	ctx.StayNights = 4
	eval, ok := e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 95, eval.AdjustedPrice, 0.001)

	ctx.StayNights = 10
	eval, ok = e.Evaluate(context.Background(), rule, 100, ctx)
	require.True(t, ok)
	assert.InDelta(t, 90, eval.AdjustedPrice, 0.001)
}

func TestMatchLeadTimeBandPicksHighestTier(t *testing.T) {
	bands := []ruledomain.LeadTimeBand{
		{FromDays: 0, Multiplier: 1.3},
		{FromDays: 8, Multiplier: 1.0},
		{FromDays: 31, Multiplier: 0.9},
	}

	m, ok := matchLeadTimeBand(bands, 2)
	require.True(t, ok)
	assert.InDelta(t, 1.3, m, 0.001)

	m, ok = matchLeadTimeBand(bands, 31)
	require.True(t, ok)
	assert.InDelta(t, 0.9, m, 0.001)

	m, ok = matchLeadTimeBand(bands, 400)
	require.True(t, ok)
	assert.InDelta(t, 0.9, m, 0.001)
}
