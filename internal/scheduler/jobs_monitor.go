package scheduler

import (
	"context"
	"fmt"

	"github.com/railzwaylabs/yieldway/internal/events"
	"go.uber.org/zap"
)

// runMonitor scans for rules whose rolling revenue impact turned negative
// over the trailing week and raises an alert per rule. Alert delivery is the
// notification layer's concern.
func (s *Scheduler) runMonitor(ctx context.Context) error {
	now := s.clock.Now(ctx)
	weekAgo := now.AddDate(0, 0, -7)

	degraded, err := s.rules.ListDegraded(ctx, weekAgo)
	if err != nil {
		return fmt.Errorf("scanning rule performance: %w", err)
	}

	for _, rule := range degraded {
		hotelID := ""
		if rule.HotelID != nil {
			hotelID = rule.HotelID.String()
		}
		s.events.Publish(ctx, events.New(events.EventRuleAlert, hotelID, now, map[string]any{
			"rule_id":        rule.ID.String(),
			"rule_name":      rule.Name,
			"kind":           string(rule.Kind),
			"revenue_impact": rule.RevenueImpact,
			"success_rate":   rule.SuccessRate,
			"applications":   rule.Applications,
		}))
		s.log.Warn("rule underperforming",
			zap.String("rule_id", rule.ID.String()),
			zap.String("rule", rule.Name),
			zap.Float64("revenue_impact", rule.RevenueImpact),
		)
	}

	if len(degraded) > 0 {
		s.log.Info("rule performance scan finished", zap.Int("degraded", len(degraded)))
	}
	return nil
}

// runRetention evicts cache entries older than the retention window. The
// redis TTL already bounds entry lifetime; the sweep keeps the keyspace
// tight between expirations.
func (s *Scheduler) runRetention(ctx context.Context) error {
	retention := s.cfg.Pricing.RetentionWindow

	removed, err := s.cache.Prune(ctx, retention)
	if err != nil {
		return fmt.Errorf("pruning quote cache: %w", err)
	}

	s.log.Info("quote cache pruned",
		zap.Duration("retention", retention),
		zap.Int("removed", removed),
	)
	return nil
}
