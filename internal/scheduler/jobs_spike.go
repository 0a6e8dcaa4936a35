package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/yieldway/internal/events"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	pricingdomain "github.com/railzwaylabs/yieldway/internal/pricing/domain"
	"go.uber.org/zap"
)

const (
	// A trailing-hour booking count at or above this multiple of the
	// historical same-hour average is a demand spike.
	spikeRatioTrigger = 2.0
	// Each unit of ratio above 1.0 adds this fraction to the boost.
	spikeBoostSlope = 0.25
	// Historical baseline: same clock hour over the prior week.
	spikeBaselineDays = 7
)

// runSpike compares booking velocity in the trailing hour against the same
// hour's weekly average and boosts near-term prices while a spike lasts. The
// boost is hard-capped so a runaway spike cannot produce runaway pricing.
func (s *Scheduler) runSpike(ctx context.Context) error {
	return s.forEachHotel(ctx, func(ctx context.Context, hotel hoteldomain.Hotel) error {
		now := s.clock.Now(ctx)

		recent, err := s.bookings.CountCreatedBetween(ctx, hotel.ID, now.Add(-time.Hour), now)
		if err != nil {
			return fmt.Errorf("counting trailing-hour bookings: %w", err)
		}
		if recent == 0 {
			return nil
		}

		baseline, err := s.sameHourAverage(ctx, hotel.ID, now)
		if err != nil {
			return fmt.Errorf("computing same-hour baseline: %w", err)
		}
		// With no history a single booking is not evidence of a spike.
		if baseline <= 0 {
			return nil
		}

		ratio := float64(recent) / baseline
		if ratio < spikeRatioTrigger {
			return nil
		}

		boost := spikeBoost(ratio, s.cfg.Yield.SpikeBoostCapPct)
		if err := s.applySpikeBoost(ctx, hotel.ID, now, boost); err != nil {
			return err
		}

		payload := map[string]any{
			"trailing_hour_bookings": recent,
			"baseline":               round2(baseline),
			"ratio":                  round2(ratio),
			"boost_multiplier":       boost,
			"window":                 s.cfg.Yield.SpikeWindow.String(),
		}
		if occupancy, err := s.demand.CurrentOccupancy(ctx, hotel.ID); err == nil {
			payload["occupancy_pct"] = round2(occupancy)
		} else {
			s.log.Warn("current occupancy unavailable for spike event",
				zap.String("hotel_id", hotel.ID.String()),
				zap.Error(err),
			)
		}
		s.events.Publish(ctx, events.New(events.EventDemandSpike, hotel.ID.String(), now, payload))

		s.log.Info("demand spike detected",
			zap.String("hotel_id", hotel.ID.String()),
			zap.Int64("bookings", recent),
			zap.Float64("ratio", ratio),
			zap.Float64("boost", boost),
		)
		return nil
	})
}

// sameHourAverage is the mean booking count for now's clock hour over the
// prior week, excluding the trailing hour itself.
func (s *Scheduler) sameHourAverage(ctx context.Context, hotelID snowflake.ID, now time.Time) (float64, error) {
	var total int64
	for day := 1; day <= spikeBaselineDays; day++ {
		end := now.AddDate(0, 0, -day)
		n, err := s.bookings.CountCreatedBetween(ctx, hotelID, end.Add(-time.Hour), end)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return float64(total) / float64(spikeBaselineDays), nil
}

// spikeBoost maps the spike ratio to a price multiplier, capped at
// 1 + capPct/100 regardless of how large the spike is.
func spikeBoost(ratio, capPct float64) float64 {
	boost := 1 + (ratio-1)*spikeBoostSlope
	ceiling := 1 + capPct/100
	return round2(math.Min(boost, ceiling))
}

// applySpikeBoost rewrites the cached quotes covered by the spike window.
// The boost applies to a fresh cache-bypassing computation, never to a cached
// quote that may already carry a prior boost, so sustained spikes re-derive
// the same capped price on every run instead of compounding. Boosted quotes
// stay clamped to the room's configured bounds, and their computed-at is
// bumped so the boost survives latest-wins conflict checks.
func (s *Scheduler) applySpikeBoost(ctx context.Context, hotelID snowflake.ID, now time.Time, boost float64) error {
	roomTypes, err := s.hotels.RoomTypes(ctx, hotelID)
	if err != nil {
		return err
	}

	first := now.Truncate(24 * time.Hour)
	last := now.Add(s.cfg.Yield.SpikeWindow).Truncate(24 * time.Hour)

	for _, rt := range roomTypes {
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			quote, err := s.calc.Preview(ctx, hotelID, rt.ID, date, 0)
			if err != nil {
				return err
			}

			boosted := round2(quote.FinalPrice * boost)
			if rt.MaxPrice != nil && boosted > *rt.MaxPrice {
				boosted = *rt.MaxPrice
			}
			if boosted == quote.FinalPrice {
				continue
			}

			quote.FinalPrice = boosted
			quote.Factors = append(quote.Factors, pricingdomain.Factor{
				Name:       "spike_boost",
				Multiplier: boost,
				Detail:     "trailing-hour demand surge",
			})
			quote.ComputedAt = now
			if err := s.cache.Put(ctx, quote); err != nil {
				return err
			}
		}
	}
	return nil
}
