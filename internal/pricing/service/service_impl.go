package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/clock"
	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	ruleservice "github.com/railzwaylabs/yieldway/internal/rule/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Calculator struct {
	log       *zap.Logger
	clock     clock.Clock
	hotels    hoteldomain.Service
	demand    demanddomain.Analyzer
	rules     ruledomain.Service
	evaluator *ruleservice.Evaluator
	cache     pricingdomain.Cache
	freshness time.Duration
}

type CalculatorParam struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Hotels    hoteldomain.Service
	Demand    demanddomain.Analyzer
	Rules     ruledomain.Service
	Evaluator *ruleservice.Evaluator
	Cache     pricingdomain.Cache
	Freshness time.Duration `name:"pricing_freshness"`
}

func NewCalculator(p CalculatorParam) pricingdomain.Calculator {
	return &Calculator{
		log:       p.Log.Named("pricing.calculator"),
		clock:     p.Clock,
		hotels:    p.Hotels,
		demand:    p.Demand,
		rules:     p.Rules,
		evaluator: p.Evaluator,
		cache:     p.Cache,
		freshness: p.Freshness,
	}
}

func (c *Calculator) Price(ctx context.Context, hotelID, roomTypeID snowflake.ID, date time.Time, stayNights int) (*pricingdomain.Quote, error) {
	now := c.clock.Now(ctx)
	day := dateOnly(date)

	key := pricingdomain.CacheKey(hotelID, roomTypeID, day)
	if cached, found, err := c.cache.Get(ctx, key); err == nil && found {
		if now.Sub(cached.ComputedAt) < c.freshness {
			return cached, nil
		}
	} else if err != nil {
		c.log.Warn("cache read failed, recomputing", zap.String("key", key), zap.Error(err))
	}

	roomType, err := c.hotels.RoomType(ctx, hotelID, roomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, hoteldomain.ErrRoomTypeNotFound
	}

	quote, err := c.compute(ctx, roomType, day, stayNights, now)
	if err != nil {
		// Factor failures never propagate: the caller gets the undiscounted
		// base price for this room type and date.
		c.log.Error("price computation failed, falling back to base price",
			zap.String("hotel_id", hotelID.String()),
			zap.String("room_type_id", roomTypeID.String()),
			zap.Time("date", day),
			zap.Error(err),
		)
		return fallbackQuote(roomType, day, now), nil
	}

	if err := c.cache.Put(ctx, quote); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return quote, nil
}

func (c *Calculator) Preview(ctx context.Context, hotelID, roomTypeID snowflake.ID, date time.Time, stayNights int) (*pricingdomain.Quote, error) {
	now := c.clock.Now(ctx)
	day := dateOnly(date)

	roomType, err := c.hotels.RoomType(ctx, hotelID, roomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, hoteldomain.ErrRoomTypeNotFound
	}

	quote, err := c.compute(ctx, roomType, day, stayNights, now)
	if err != nil {
		c.log.Error("price preview failed, falling back to base price",
			zap.String("hotel_id", hotelID.String()),
			zap.String("room_type_id", roomTypeID.String()),
			zap.Time("date", day),
			zap.Error(err),
		)
		return fallbackQuote(roomType, day, now), nil
	}
	return quote, nil
}

func (c *Calculator) PriceHotel(ctx context.Context, hotelID snowflake.ID, date time.Time) ([]pricingdomain.Quote, error) {
	roomTypes, err := c.hotels.RoomTypes(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	quotes := make([]pricingdomain.Quote, 0, len(roomTypes))
	for _, rt := range roomTypes {
		quote, err := c.Price(ctx, hotelID, rt.ID, date, 0)
		if err != nil {
			// One room type must never block its siblings.
			c.log.Error("skipping room type after pricing failure",
				zap.String("hotel_id", hotelID.String()),
				zap.String("room_type_id", rt.ID.String()),
				zap.Error(err),
			)
			continue
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

func (c *Calculator) compute(ctx context.Context, roomType *hoteldomain.RoomType, day time.Time, stayNights int, now time.Time) (*pricingdomain.Quote, error) {
	settings, err := c.hotels.Settings(ctx, roomType.HotelID)
	if err != nil {
		return nil, err
	}

	snapshot, err := c.demand.Analyze(ctx, roomType.HotelID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	occupancyPct := snapshot.OccupancyByDate[day.Format("2006-01-02")]
	for _, point := range snapshot.Forecast {
		if point.Date.Equal(day) && point.OccupancyPct > occupancyPct {
			occupancyPct = point.OccupancyPct
		}
	}

	leadDays := int(day.Sub(dateOnly(now)).Hours() / 24)
	if leadDays < 0 {
		leadDays = 0
	}

	weights := pricingdomain.WeightsFor(settings.Strategy)

	occMult, occDetail := occupancyFactor(settings.OccupancyBands, occupancyPct)
	seasonMult, seasonDetail := seasonFactor(settings.Seasons, day)
	dowMult, dowDetail := dayOfWeekFactor(settings, day)
	eventMult, eventDetail := eventFactor(settings.Events, day)
	leadMult, leadDetail := leadTimeFactor(settings.LeadTimeTiers, leadDays)
	stayMult, stayDetail := stayLengthFactor(settings.StayDiscounts, stayNights)
	weatherMult, weatherDetail := weatherFactor(settings)
	compMult, compDetail := competitorFactor(settings)

	otherMult := stayMult * weatherMult
	otherDetail := stayDetail
	if otherDetail == "" {
		otherDetail = weatherDetail
	}

	blended := weights.Occupancy*occMult +
		weights.Seasonal*seasonMult +
		weights.DayOfWeek*dowMult +
		weights.Event*eventMult +
		weights.LeadTime*leadMult +
		weights.Competitor*compMult +
		weights.Other*otherMult

	factors := []pricingdomain.Factor{
		{Name: "occupancy", Multiplier: occMult, Weight: weights.Occupancy, Detail: occDetail},
		{Name: "seasonal", Multiplier: seasonMult, Weight: weights.Seasonal, Detail: seasonDetail},
		{Name: "day_of_week", Multiplier: dowMult, Weight: weights.DayOfWeek, Detail: dowDetail},
		{Name: "event", Multiplier: eventMult, Weight: weights.Event, Detail: eventDetail},
		{Name: "lead_time", Multiplier: leadMult, Weight: weights.LeadTime, Detail: leadDetail},
		{Name: "competitor", Multiplier: compMult, Weight: weights.Competitor, Detail: compDetail},
		{Name: "other", Multiplier: otherMult, Weight: weights.Other, Detail: otherDetail},
	}

	// Rule composition: active rules fold over the base price in priority
	// order before the blended multiplier applies.
	price := roomType.BasePrice
	activeRules, err := c.rules.ActiveForHotel(ctx, roomType.HotelID, now)
	if err != nil {
		return nil, err
	}
	evalCtx := ruledomain.EvalContext{
		Now:          now,
		Date:         day,
		LeadTimeDays: leadDays,
		StayNights:   stayNights,
		RoomTypeID:   roomType.ID,
		OccupancyPct: occupancyPct,
	}
	for i := range activeRules {
		rule := &activeRules[i]
		eval, ok := c.evaluator.Evaluate(ctx, rule, price, evalCtx)
		if !ok {
			continue
		}
		effective := 1.0
		if price > 0 {
			effective = eval.AdjustedPrice / price
		}
		factors = append(factors, pricingdomain.Factor{
			Name:       "rule:" + rule.Name,
			Multiplier: effective,
			Detail:     string(rule.Kind),
		})
		price = eval.AdjustedPrice
	}

	final := price * blended
	if roomType.MinPrice != nil && final < *roomType.MinPrice {
		final = *roomType.MinPrice
	}
	if roomType.MaxPrice != nil && final > *roomType.MaxPrice {
		final = *roomType.MaxPrice
	}

	return &pricingdomain.Quote{
		HotelID:     roomType.HotelID,
		RoomTypeID:  roomType.ID,
		Date:        day,
		BasePrice:   roomType.BasePrice,
		FinalPrice:  round2(final),
		Multiplier:  blended,
		Factors:     factors,
		DemandLevel: pricingdomain.DemandLevelFor(blended),
		ComputedAt:  now,
	}, nil
}

func fallbackQuote(roomType *hoteldomain.RoomType, day, now time.Time) *pricingdomain.Quote {
	return &pricingdomain.Quote{
		HotelID:     roomType.HotelID,
		RoomTypeID:  roomType.ID,
		Date:        day,
		BasePrice:   roomType.BasePrice,
		FinalPrice:  roomType.BasePrice,
		Multiplier:  1.0,
		Factors:     []pricingdomain.Factor{{Name: "fallback", Multiplier: 1.0}},
		DemandLevel: pricingdomain.DemandNormal,
		ComputedAt:  now,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
