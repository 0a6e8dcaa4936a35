package domain

import "fmt"

// Validate rejects malformed rules at write time. The evaluator assumes any
// rule it sees passed this check.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidRule)
	}
	if !r.ValidFrom.Before(r.ValidUntil) {
		return fmt.Errorf("%w: valid_from must precede valid_until", ErrInvalidRule)
	}
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MinPrice >= *r.MaxPrice {
		return fmt.Errorf("%w: min price must be below max price", ErrInvalidRule)
	}

	switch r.Adjustment {
	case AdjustPercentage, AdjustFixed, AdjustAbsolute, AdjustMultiplier:
	default:
		return fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidRule, r.Adjustment)
	}
	if r.Adjustment == AdjustMultiplier && r.AdjustmentValue <= 0 {
		return fmt.Errorf("%w: multiplier adjustment must be positive", ErrInvalidRule)
	}
	if r.Adjustment == AdjustAbsolute && r.AdjustmentValue <= 0 {
		return fmt.Errorf("%w: absolute price must be positive", ErrInvalidRule)
	}

	return r.validateConfig()
}

func (r *Rule) validateConfig() error {
	populated := 0
	if len(r.Config.Seasons) > 0 {
		populated++
	}
	if len(r.Config.Occupancy) > 0 {
		populated++
	}
	if len(r.Config.LeadTime) > 0 {
		populated++
	}
	if r.Config.Weekday != nil {
		populated++
	}
	if len(r.Config.Events) > 0 {
		populated++
	}
	if len(r.Config.StayLength) > 0 {
		populated++
	}
	if len(r.Config.SegmentDiscounts) > 0 {
		populated++
	}
	if r.Config.CompetitorOffset != nil {
		populated++
	}
	if populated > 1 {
		return fmt.Errorf("%w: only the block matching the rule kind may be set", ErrInvalidRule)
	}

	switch r.Kind {
	case KindSeasonal:
		for _, s := range r.Config.Seasons {
			if !s.Start.Before(s.End) {
				return fmt.Errorf("%w: season start must precede end", ErrInvalidRule)
			}
			if s.Multiplier <= 0 {
				return fmt.Errorf("%w: season multiplier must be positive", ErrInvalidRule)
			}
		}
	case KindDemandBased:
		for i, band := range r.Config.Occupancy {
			if band.MinPct < 0 || band.MaxPct > 100 || band.MinPct >= band.MaxPct {
				return fmt.Errorf("%w: occupancy threshold range out of bounds", ErrInvalidRule)
			}
			if band.Multiplier <= 0 {
				return fmt.Errorf("%w: occupancy threshold multiplier must be positive", ErrInvalidRule)
			}
			if i > 0 && band.MinPct < r.Config.Occupancy[i-1].MaxPct {
				return fmt.Errorf("%w: occupancy thresholds overlap", ErrInvalidRule)
			}
		}
	case KindLeadTime:
		for i, band := range r.Config.LeadTime {
			if band.FromDays < 0 || band.Multiplier <= 0 {
				return fmt.Errorf("%w: bad lead-time band", ErrInvalidRule)
			}
			if i > 0 && band.FromDays <= r.Config.LeadTime[i-1].FromDays {
				return fmt.Errorf("%w: lead-time bands must be strictly increasing", ErrInvalidRule)
			}
		}
	case KindDayOfWeek:
		if r.Config.Weekday != nil {
			for _, m := range r.Config.Weekday {
				if m <= 0 {
					return fmt.Errorf("%w: weekday multipliers must be positive", ErrInvalidRule)
				}
			}
		}
	case KindEventBased:
		for _, e := range r.Config.Events {
			if !e.Start.Before(e.End) {
				return fmt.Errorf("%w: event start must precede end", ErrInvalidRule)
			}
			if e.Multiplier <= 0 {
				return fmt.Errorf("%w: event multiplier must be positive", ErrInvalidRule)
			}
		}
	case KindLengthOfStay:
		for i, band := range r.Config.StayLength {
			if band.MinNights < 1 {
				return fmt.Errorf("%w: stay-length min_nights must be at least 1", ErrInvalidRule)
			}
			if band.MaxNights != 0 && band.MaxNights < band.MinNights {
				return fmt.Errorf("%w: stay-length band is inverted", ErrInvalidRule)
			}
			if band.DiscountPct < 0 || band.DiscountPct >= 100 {
				return fmt.Errorf("%w: stay-length discount out of range", ErrInvalidRule)
			}
			if i > 0 {
				prev := r.Config.StayLength[i-1]
				if prev.MaxNights == 0 || band.MinNights <= prev.MaxNights {
					return fmt.Errorf("%w: stay-length bands overlap", ErrInvalidRule)
				}
			}
		}
	case KindCustomerSegment:
		for segment, pct := range r.Config.SegmentDiscounts {
			if pct < 0 || pct >= 100 {
				return fmt.Errorf("%w: segment %q discount out of range", ErrInvalidRule, segment)
			}
		}
	case KindCompetitor:
		if r.Config.CompetitorOffset != nil && *r.Config.CompetitorOffset <= 0 {
			return fmt.Errorf("%w: competitor offset must be positive", ErrInvalidRule)
		}
	case KindPromotional:
		// No kind-specific block; the base adjustment carries the promotion.
	default:
		return fmt.Errorf("%w: unknown rule kind %q", ErrInvalidRule, r.Kind)
	}

	return nil
}
