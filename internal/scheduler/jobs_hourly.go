package scheduler

import (
	"context"
	"math"
	"time"

	"github.com/railzwaylabs/yieldway/internal/events"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	"go.uber.org/zap"
)

// hourlyHorizonDays is how far ahead the hourly job refreshes prices.
const hourlyHorizonDays = 14

// runHourly recomputes prices for every yield-enabled room and applies the
// new price only when the change clears the significance threshold, so small
// oscillations do not churn the published price.
func (s *Scheduler) runHourly(ctx context.Context) error {
	return s.forEachHotel(ctx, func(ctx context.Context, hotel hoteldomain.Hotel) error {
		settings, err := s.hotels.Settings(ctx, hotel.ID)
		if err != nil {
			return err
		}
		if !settings.Automation.AutoApply {
			return nil
		}

		threshold := settings.Automation.SignificanceThresholdPct
		if threshold <= 0 {
			threshold = s.cfg.Yield.SignificanceThresholdPct
		}

		roomTypes, err := s.hotels.RoomTypes(ctx, hotel.ID)
		if err != nil {
			return err
		}

		today := s.clock.Now(ctx).Truncate(24 * time.Hour)
		for _, rt := range roomTypes {
			for d := 0; d < hourlyHorizonDays; d++ {
				date := today.AddDate(0, 0, d)
				if err := s.refreshPrice(ctx, settings, rt, date, threshold); err != nil {
					// One date's failure must not block the rest of the room's
					// horizon.
					s.log.Warn("price refresh failed",
						zap.String("hotel_id", hotel.ID.String()),
						zap.String("room_type_id", rt.ID.String()),
						zap.Time("date", date),
						zap.Error(err),
					)
				}
			}
		}
		return nil
	})
}

func (s *Scheduler) refreshPrice(ctx context.Context, settings *hoteldomain.YieldSettings, rt hoteldomain.RoomType, date time.Time, thresholdPct float64) error {
	quote, err := s.calc.Preview(ctx, rt.HotelID, rt.ID, date, 0)
	if err != nil {
		return err
	}

	key := pricingdomain.CacheKey(rt.HotelID, rt.ID, date)
	prior, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return err
	}

	if found && prior.FinalPrice > 0 {
		changePct := math.Abs(quote.FinalPrice-prior.FinalPrice) / prior.FinalPrice * 100
		if changePct < thresholdPct {
			// Computation happened; the published price stays untouched.
			return nil
		}

		// Automation settings bound how far the price may move in one step.
		if maxPct := settings.Automation.MaxDailyChangePct; maxPct > 0 && changePct > maxPct {
			limit := prior.FinalPrice * maxPct / 100
			if quote.FinalPrice > prior.FinalPrice {
				quote.FinalPrice = round2(prior.FinalPrice + limit)
			} else {
				quote.FinalPrice = round2(prior.FinalPrice - limit)
			}
		}
	}

	if err := s.cache.Put(ctx, quote); err != nil {
		return err
	}

	payload := map[string]any{
		"room_type_id": rt.ID.String(),
		"date":         date.Format("2006-01-02"),
		"price":        quote.FinalPrice,
		"demand_level": string(quote.DemandLevel),
	}
	if found {
		payload["previous_price"] = prior.FinalPrice
	}
	s.events.Publish(ctx, events.New(events.EventPriceChanged, rt.HotelID.String(), quote.ComputedAt, payload))
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
