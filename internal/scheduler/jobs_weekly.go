package scheduler

import (
	"context"
	"fmt"
	"time"

	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"go.uber.org/zap"
)

// runWeekly recomputes each hotel's seasonal indices and trend momentum over
// a fresh analysis window and persists them as the hotel's current patterns.
func (s *Scheduler) runWeekly(ctx context.Context) error {
	return s.forEachHotel(ctx, func(ctx context.Context, hotel hoteldomain.Hotel) error {
		now := s.clock.Now(ctx)
		today := now.Truncate(24 * time.Hour)

		snapshot, err := s.demand.Analyze(ctx, hotel.ID, today, today.AddDate(0, 0, 30))
		if err != nil {
			return fmt.Errorf("recomputing patterns: %w", err)
		}

		for m := time.January; m <= time.December; m++ {
			pattern := &historydomain.SeasonalPattern{
				HotelID:        hotel.ID,
				Month:          int(m),
				Index:          snapshot.SeasonalIndexFor(m),
				Momentum:       snapshot.Momentum,
				TrendDirection: string(snapshot.TrendDirection),
				UpdatedAt:      now,
			}
			if err := s.history.UpsertPattern(ctx, pattern); err != nil {
				return fmt.Errorf("persisting pattern for %s: %w", m, err)
			}
		}

		s.log.Info("seasonal patterns refreshed",
			zap.String("hotel_id", hotel.ID.String()),
			zap.String("trend", string(snapshot.TrendDirection)),
			zap.Float64("momentum", snapshot.Momentum),
		)
		return nil
	})
}
