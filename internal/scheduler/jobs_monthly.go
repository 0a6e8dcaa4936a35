package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/railzwaylabs/yieldway/internal/events"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"go.uber.org/zap"
)

// monthlyHorizonDays is how far ahead the monthly job reprices when a season
// boundary falls inside the coming month.
const monthlyHorizonDays = 31

// runMonthly refreshes prices across the coming month so configured season
// windows take effect ahead of their start date, and notifies stakeholders
// which seasons will be in force.
func (s *Scheduler) runMonthly(ctx context.Context) error {
	return s.forEachHotel(ctx, func(ctx context.Context, hotel hoteldomain.Hotel) error {
		now := s.clock.Now(ctx)
		today := now.Truncate(24 * time.Hour)

		settings, err := s.hotels.Settings(ctx, hotel.ID)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		upcoming := upcomingSeasons(settings.Seasons, today, monthlyHorizonDays)
		if len(upcoming) == 0 {
			s.log.Debug("no seasons in the coming month",
				zap.String("hotel_id", hotel.ID.String()))
			return nil
		}

		var repriced int
		for d := 0; d < monthlyHorizonDays; d++ {
			date := today.AddDate(0, 0, d)
			quotes, err := s.calc.PriceHotel(ctx, hotel.ID, date)
			if err != nil {
				return fmt.Errorf("repricing %s: %w", date.Format("2006-01-02"), err)
			}
			repriced += len(quotes)
		}

		names := make([]string, 0, len(upcoming))
		for _, season := range upcoming {
			names = append(names, season.Name)
		}
		s.events.Publish(ctx, events.New(events.EventSeasonApplied, hotel.ID.String(), now, map[string]any{
			"seasons":        names,
			"quotes_updated": repriced,
			"horizon_days":   monthlyHorizonDays,
		}))

		s.log.Info("seasonal pricing applied",
			zap.String("hotel_id", hotel.ID.String()),
			zap.Strings("seasons", names),
			zap.Int("quotes", repriced),
		)
		return nil
	})
}

// upcomingSeasons returns the seasons active on at least one day of the
// [today, today+horizonDays) window.
func upcomingSeasons(seasons []hoteldomain.Season, today time.Time, horizonDays int) []hoteldomain.Season {
	var out []hoteldomain.Season
	for _, season := range seasons {
		for d := 0; d < horizonDays; d++ {
			if season.Covers(today.AddDate(0, 0, d)) {
				out = append(out, season)
				break
			}
		}
	}
	return out
}
