package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	ruleservice "github.com/railzwaylabs/yieldway/internal/rule/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now(context.Context) time.Time { return c.now }

type memCache struct {
	mu     sync.Mutex
	quotes map[string]*pricingdomain.Quote
}

func newMemCache() *memCache {
	return &memCache{quotes: map[string]*pricingdomain.Quote{}}
}

func (m *memCache) Get(_ context.Context, key string) (*pricingdomain.Quote, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[key]
	return q, ok, nil
}

func (m *memCache) Put(_ context.Context, quote *pricingdomain.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.Key()] = quote
	return nil
}

func (m *memCache) Prune(context.Context, time.Duration) (int, error) { return 0, nil }

type stubHotels struct {
	roomType *hoteldomain.RoomType
	settings *hoteldomain.YieldSettings
}

func (s *stubHotels) Hotel(context.Context, snowflake.ID) (*hoteldomain.Hotel, error) {
	return nil, nil
}
func (s *stubHotels) YieldEnabledHotels(context.Context) ([]hoteldomain.Hotel, error) {
	return nil, nil
}
func (s *stubHotels) RoomTypes(context.Context, snowflake.ID) ([]hoteldomain.RoomType, error) {
	if s.roomType == nil {
		return nil, nil
	}
	return []hoteldomain.RoomType{*s.roomType}, nil
}
func (s *stubHotels) RoomType(context.Context, snowflake.ID, snowflake.ID) (*hoteldomain.RoomType, error) {
	return s.roomType, nil
}
func (s *stubHotels) TotalRooms(context.Context, snowflake.ID) (int, error) { return 10, nil }
func (s *stubHotels) Settings(context.Context, snowflake.ID) (*hoteldomain.YieldSettings, error) {
	return s.settings, nil
}
func (s *stubHotels) UpdateSettings(context.Context, *hoteldomain.YieldSettings) error { return nil }

type stubAnalyzer struct {
	occupancyPct float64
	err          error
}

func (s *stubAnalyzer) Analyze(_ context.Context, hotelID snowflake.ID, start, end time.Time) (*demanddomain.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snapshot := &demanddomain.Snapshot{
		HotelID:         hotelID,
		WindowStart:     start,
		WindowEnd:       end,
		OccupancyByDate: map[string]float64{start.Format("2006-01-02"): s.occupancyPct},
	}
	for m := time.January; m <= time.December; m++ {
		snapshot.SeasonalIndex[m] = 1.0
	}
	return snapshot, nil
}

func (s *stubAnalyzer) CurrentOccupancy(context.Context, snowflake.ID) (float64, error) {
	return s.occupancyPct, nil
}

type stubRules struct {
	rules []ruledomain.Rule
}

func (s *stubRules) Create(context.Context, *ruledomain.Rule) error { return nil }
func (s *stubRules) Update(context.Context, *ruledomain.Rule) error { return nil }
func (s *stubRules) Get(context.Context, snowflake.ID) (*ruledomain.Rule, error) {
	return nil, nil
}
func (s *stubRules) List(context.Context) ([]ruledomain.Rule, error) { return nil, nil }
func (s *stubRules) ActiveForHotel(context.Context, snowflake.ID, time.Time) ([]ruledomain.Rule, error) {
	return s.rules, nil
}

type noopRuleRepo struct{}

func (noopRuleRepo) Get(context.Context, snowflake.ID) (*ruledomain.Rule, error) { return nil, nil }
func (noopRuleRepo) ListForHotel(context.Context, snowflake.ID) ([]ruledomain.Rule, error) {
	return nil, nil
}
func (noopRuleRepo) List(context.Context) ([]ruledomain.Rule, error)           { return nil, nil }
func (noopRuleRepo) Insert(context.Context, *ruledomain.Rule) error            { return nil }
func (noopRuleRepo) Update(context.Context, *ruledomain.Rule) error            { return nil }
func (noopRuleRepo) UpdatePerformance(context.Context, *ruledomain.Rule) error { return nil }
func (noopRuleRepo) ListDegraded(context.Context, time.Time) ([]ruledomain.Rule, error) {
	return nil, nil
}

// 2026-09-12 is a Saturday; pricing two days out from Thursday the 10th.
var (
	testNow  = time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
)

func newTestCalculator(hotels *stubHotels, analyzer *stubAnalyzer, rules *stubRules, cache pricingdomain.Cache) *Calculator {
	return &Calculator{
		log:       zap.NewNop(),
		clock:     fixedClock{now: testNow},
		hotels:    hotels,
		demand:    analyzer,
		rules:     rules,
		evaluator: ruleservice.NewEvaluatorWith(zap.NewNop(), noopRuleRepo{}),
		cache:     cache,
		freshness: time.Hour,
	}
}

func moderateHotelStub() *stubHotels {
	settings := hoteldomain.DefaultSettings(1)
	settings.Strategy = hoteldomain.StrategyModerate
	return &stubHotels{
		roomType: &hoteldomain.RoomType{ID: 2, HotelID: 1, Name: "double", Rooms: 10, BasePrice: 100},
		settings: settings,
	}
}

func TestPriceModerateStrategyBlend(t *testing.T) {
	// Base 100, occupancy 92% (very_high x1.3), Saturday (x1.25), lead time
	// 2 days (x1.3), everything else neutral, moderate weights:
	// 1.3*.3 + 1.0*.2 + 1.25*.15 + 1.0*.15 + 1.3*.1 + 1.0*.05 + 1.0*.05 = 1.1575
	c := newTestCalculator(moderateHotelStub(), &stubAnalyzer{occupancyPct: 92}, &stubRules{}, newMemCache())

	quote, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1.1575, quote.Multiplier, 0.0001)
	assert.InDelta(t, 115.75, quote.FinalPrice, 0.01)
	assert.Equal(t, pricingdomain.DemandHigh, quote.DemandLevel)

	byName := map[string]pricingdomain.Factor{}
	for _, f := range quote.Factors {
		byName[f.Name] = f
	}
	assert.InDelta(t, 1.3, byName["occupancy"].Multiplier, 0.001)
	assert.InDelta(t, 1.25, byName["day_of_week"].Multiplier, 0.001)
	assert.InDelta(t, 1.3, byName["lead_time"].Multiplier, 0.001)
	assert.InDelta(t, 1.0, byName["seasonal"].Multiplier, 0.001)
	assert.InDelta(t, 1.0, byName["competitor"].Multiplier, 0.001)
}

func TestPriceCacheFirstWithinFreshness(t *testing.T) {
	cache := newMemCache()
	c := newTestCalculator(moderateHotelStub(), &stubAnalyzer{occupancyPct: 92}, &stubRules{}, cache)

	first, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err)

	second, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err)

	assert.Same(t, cache.quotes[first.Key()], second, "a fresh cached quote is returned unchanged")
}

func TestPriceClampedToRoomBounds(t *testing.T) {
	hotels := moderateHotelStub()
	maxPrice := 110.0
	hotels.roomType.MaxPrice = &maxPrice

	c := newTestCalculator(hotels, &stubAnalyzer{occupancyPct: 99}, &stubRules{}, newMemCache())

	quote, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err)
	assert.InDelta(t, 110, quote.FinalPrice, 0.001)
}

func TestPriceAnalyzerFailureFallsBackToBase(t *testing.T) {
	c := newTestCalculator(moderateHotelStub(), &stubAnalyzer{err: errors.New("store down")}, &stubRules{}, newMemCache())

	quote, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err, "factor failures must not propagate")
	assert.InDelta(t, 100, quote.FinalPrice, 0.001)
	assert.Equal(t, pricingdomain.DemandNormal, quote.DemandLevel)
	require.Len(t, quote.Factors, 1)
	assert.Equal(t, "fallback", quote.Factors[0].Name)
}

func TestPriceAppliesActiveRules(t *testing.T) {
	rules := &stubRules{rules: []ruledomain.Rule{
		{
			ID:              9,
			Name:            "summer promo",
			Kind:            ruledomain.KindPromotional,
			Active:          true,
			ValidFrom:       testNow.AddDate(0, -1, 0),
			ValidUntil:      testNow.AddDate(0, 1, 0),
			Adjustment:      ruledomain.AdjustPercentage,
			AdjustmentValue: -10,
		},
	}}

	c := newTestCalculator(moderateHotelStub(), &stubAnalyzer{occupancyPct: 92}, rules, newMemCache())

	quote, err := c.Price(context.Background(), 1, 2, testDate, 0)
	require.NoError(t, err)

	// Rule discounts the base to 90 before the 1.1575 blend applies.
	assert.InDelta(t, 104.18, quote.FinalPrice, 0.01)

	var ruleFactor *pricingdomain.Factor
	for i := range quote.Factors {
		if quote.Factors[i].Name == "rule:summer promo" {
			ruleFactor = &quote.Factors[i]
		}
	}
	require.NotNil(t, ruleFactor)
	assert.InDelta(t, 0.9, ruleFactor.Multiplier, 0.001)
}

func TestOccupancyFactorMonotonic(t *testing.T) {
	bands := hoteldomain.DefaultOccupancyBands()

	prev := 0.0
	for occ := 0.0; occ <= 100; occ += 2.5 {
		mult, _ := occupancyFactor(bands, occ)
		assert.GreaterOrEqual(t, mult, prev, "occupancy %v", occ)
		prev = mult
	}
}

func TestLeadTimeFactorNonIncreasing(t *testing.T) {
	tiers := hoteldomain.DefaultLeadTimeTiers()

	prev, _ := leadTimeFactor(tiers, 0)
	for lead := 1; lead <= 120; lead++ {
		mult, _ := leadTimeFactor(tiers, lead)
		assert.LessOrEqual(t, mult, prev, "lead %d", lead)
		prev = mult
	}
}
