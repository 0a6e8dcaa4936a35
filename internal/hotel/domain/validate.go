package domain

import (
	"fmt"
	"sort"
	"time"
)

// Validate enforces the configuration invariants at write time. Evaluation
// code assumes settings passed validation and does not re-check them.
func (s *YieldSettings) Validate() error {
	switch s.Strategy {
	case StrategyConservative, StrategyModerate, StrategyAggressive:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidSettings, s.Strategy)
	}

	if err := validateBands(s.OccupancyBands); err != nil {
		return err
	}

	for i, m := range s.WeekdayMultipliers {
		if m <= 0 {
			return fmt.Errorf("%w: weekday multiplier for %s must be positive", ErrInvalidSettings, time.Weekday(i))
		}
	}

	for date, m := range s.DateOverrides {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("%w: bad override date %q", ErrInvalidSettings, date)
		}
		if m <= 0 {
			return fmt.Errorf("%w: override multiplier for %s must be positive", ErrInvalidSettings, date)
		}
	}

	if err := validateLeadTiers(s.LeadTimeTiers); err != nil {
		return err
	}

	for _, season := range s.Seasons {
		if !season.Start.Before(season.End) {
			return fmt.Errorf("%w: season %q start must precede end", ErrInvalidSettings, season.Name)
		}
		if season.Multiplier <= 0 {
			return fmt.Errorf("%w: season %q multiplier must be positive", ErrInvalidSettings, season.Name)
		}
	}

	for _, event := range s.Events {
		if !event.Start.Before(event.End) {
			return fmt.Errorf("%w: event %q start must precede end", ErrInvalidSettings, event.Name)
		}
		if event.Multiplier <= 0 {
			return fmt.Errorf("%w: event %q multiplier must be positive", ErrInvalidSettings, event.Name)
		}
	}

	if err := validateStayDiscounts(s.StayDiscounts); err != nil {
		return err
	}

	if s.Automation.MaxDailyChangePct < 0 {
		return fmt.Errorf("%w: max daily change must not be negative", ErrInvalidSettings)
	}
	if s.Automation.SignificanceThresholdPct < 0 {
		return fmt.Errorf("%w: significance threshold must not be negative", ErrInvalidSettings)
	}

	return nil
}

func validateBands(bands []OccupancyBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: at least one occupancy band required", ErrInvalidSettings)
	}
	sorted := sort.SliceIsSorted(bands, func(i, j int) bool {
		return bands[i].MinPct < bands[j].MinPct
	})
	if !sorted {
		return fmt.Errorf("%w: occupancy bands must be ordered by min_pct", ErrInvalidSettings)
	}
	for i, b := range bands {
		if b.MinPct < 0 || b.MaxPct > 100 || b.MinPct >= b.MaxPct {
			return fmt.Errorf("%w: occupancy band %q has a bad range", ErrInvalidSettings, b.Label)
		}
		if b.Multiplier <= 0 {
			return fmt.Errorf("%w: occupancy band %q multiplier must be positive", ErrInvalidSettings, b.Label)
		}
		if i > 0 && b.MinPct < bands[i-1].MaxPct {
			return fmt.Errorf("%w: occupancy bands %q and %q overlap", ErrInvalidSettings, bands[i-1].Label, b.Label)
		}
	}
	return nil
}

func validateLeadTiers(tiers []LeadTimeTier) error {
	for i, tier := range tiers {
		if tier.FromDays < 0 {
			return fmt.Errorf("%w: lead-time tier from_days must not be negative", ErrInvalidSettings)
		}
		if tier.Multiplier <= 0 {
			return fmt.Errorf("%w: lead-time tier multiplier must be positive", ErrInvalidSettings)
		}
		if i > 0 && tier.FromDays <= tiers[i-1].FromDays {
			return fmt.Errorf("%w: lead-time tiers must be strictly increasing", ErrInvalidSettings)
		}
	}
	return nil
}

func validateStayDiscounts(discounts []StayDiscount) error {
	for i, d := range discounts {
		if d.MinNights < 1 {
			return fmt.Errorf("%w: stay discount min_nights must be at least 1", ErrInvalidSettings)
		}
		if d.MaxNights != 0 && d.MaxNights < d.MinNights {
			return fmt.Errorf("%w: stay discount range is inverted", ErrInvalidSettings)
		}
		if d.DiscountPct < 0 || d.DiscountPct >= 100 {
			return fmt.Errorf("%w: stay discount percentage out of range", ErrInvalidSettings)
		}
		if i > 0 {
			prev := discounts[i-1]
			if prev.MaxNights == 0 || d.MinNights <= prev.MaxNights {
				return fmt.Errorf("%w: stay discount tiers overlap", ErrInvalidSettings)
			}
		}
	}
	return nil
}

// ValidateRoomType enforces the price clamp invariant on inventory writes.
func ValidateRoomType(rt *RoomType) error {
	if rt.BasePrice <= 0 {
		return fmt.Errorf("%w: base price must be positive", ErrInvalidSettings)
	}
	if rt.Rooms < 1 {
		return fmt.Errorf("%w: room count must be at least 1", ErrInvalidSettings)
	}
	if rt.MinPrice != nil && rt.MaxPrice != nil && *rt.MinPrice >= *rt.MaxPrice {
		return fmt.Errorf("%w: min price must be below max price", ErrInvalidSettings)
	}
	return nil
}
