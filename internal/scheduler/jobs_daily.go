package scheduler

import (
	"context"
	"fmt"
	"time"

	demanddomain "github.com/railzwaylabs/yieldway/internal/demand/domain"
	"github.com/railzwaylabs/yieldway/internal/events"
	historydomain "github.com/railzwaylabs/yieldway/internal/history/domain"
	hoteldomain "github.com/railzwaylabs/yieldway/internal/hotel/domain"
	"go.uber.org/zap"
)

// runDaily summarizes yesterday's realized performance per hotel, persists a
// pricing-history record, and derives recommendations from the occupancy and
// trend picture.
func (s *Scheduler) runDaily(ctx context.Context) error {
	return s.forEachHotel(ctx, func(ctx context.Context, hotel hoteldomain.Hotel) error {
		now := s.clock.Now(ctx)
		today := now.Truncate(24 * time.Hour)
		yesterday := today.AddDate(0, 0, -1)

		snapshot, err := s.demand.Analyze(ctx, hotel.ID, yesterday, today)
		if err != nil {
			return fmt.Errorf("analyzing yesterday: %w", err)
		}

		summary := &historydomain.DailySummary{
			ID:            s.genID.Generate(),
			HotelID:       hotel.ID,
			Date:          yesterday,
			OccupancyRate: snapshot.OccupancyRate,
			ADR:           snapshot.AverageDailyRate,
			RevPAR:        snapshot.RevPAR,
			CreatedAt:     now,
		}
		if err := s.history.InsertSummary(ctx, summary); err != nil {
			return fmt.Errorf("persisting daily summary: %w", err)
		}

		if rec := recommend(snapshot); rec != nil {
			rec.ID = s.genID.Generate()
			rec.HotelID = hotel.ID
			rec.CreatedAt = now
			if err := s.history.InsertRecommendation(ctx, rec); err != nil {
				return fmt.Errorf("persisting recommendation: %w", err)
			}
			s.events.Publish(ctx, events.New(events.EventRecommendation, hotel.ID.String(), now, map[string]any{
				"kind":      string(rec.Kind),
				"reason":    rec.Reason,
				"occupancy": rec.OccupancyRate,
			}))
		}

		s.log.Info("daily summary recorded",
			zap.String("hotel_id", hotel.ID.String()),
			zap.Float64("occupancy", snapshot.OccupancyRate),
			zap.Float64("adr", snapshot.AverageDailyRate),
			zap.Float64("revpar", snapshot.RevPAR),
		)
		return nil
	})
}

// recommend turns a demand snapshot into an actionable pricing suggestion;
// nil means nothing worth flagging.
func recommend(snapshot *demanddomain.Snapshot) *historydomain.Recommendation {
	switch {
	case snapshot.OccupancyRate > 90:
		return &historydomain.Recommendation{
			Kind:          historydomain.RecommendIncrease,
			Reason:        fmt.Sprintf("occupancy %.1f%% above 90%%: room to raise prices", snapshot.OccupancyRate),
			OccupancyRate: snapshot.OccupancyRate,
		}
	case snapshot.OccupancyRate < 50 && snapshot.TrendDirection != demanddomain.TrendIncreasing:
		return &historydomain.Recommendation{
			Kind:          historydomain.RecommendDiscount,
			Reason:        fmt.Sprintf("occupancy %.1f%% below 50%% with %s demand: consider a discount", snapshot.OccupancyRate, snapshot.TrendDirection),
			OccupancyRate: snapshot.OccupancyRate,
		}
	default:
		return nil
	}
}
