package service

import (
	"context"
	"math"
	"time"

	ruledomain "github.com/railzwaylabs/yieldway/internal/rule/domain"
	"github.com/railzwaylabs/yieldway/internal/rule/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Evaluator applies one rule at a time. Composing multiple rules into a
// final price is the calculator's job, not this one's.
type Evaluator struct {
	log  *zap.Logger
	repo ruledomain.Repository
}

type EvaluatorParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewEvaluator(p EvaluatorParam) *Evaluator {
	return NewEvaluatorWith(p.Log, repository.NewRepository(p.DB))
}

// NewEvaluatorWith wires an evaluator over an explicit repository.
func NewEvaluatorWith(log *zap.Logger, repo ruledomain.Repository) *Evaluator {
	return &Evaluator{
		log:  log.Named("rule.evaluator"),
		repo: repo,
	}
}

// Evaluate applies the rule to basePrice under evalCtx. The second return is
// false when the rule does not apply. A successful application updates the
// rule's performance counters; that is the only mutation this package makes.
func (e *Evaluator) Evaluate(ctx context.Context, rule *ruledomain.Rule, basePrice float64, evalCtx ruledomain.EvalContext) (ruledomain.Evaluation, bool) {
	if !applies(rule, evalCtx) {
		return ruledomain.Evaluation{}, false
	}

	adjusted := applyBaseAdjustment(rule, basePrice)
	kindMult := kindMultiplier(rule, evalCtx)
	adjusted *= kindMult

	clamped := false
	if rule.MinPrice != nil && adjusted < *rule.MinPrice {
		adjusted = *rule.MinPrice
		clamped = true
	}
	if rule.MaxPrice != nil && adjusted > *rule.MaxPrice {
		adjusted = *rule.MaxPrice
		clamped = true
	}

	eval := ruledomain.Evaluation{
		RuleID:         rule.ID,
		RuleName:       rule.Name,
		Kind:           rule.Kind,
		Priority:       rule.Priority,
		AdjustedPrice:  round2(adjusted),
		Delta:          round2(adjusted - basePrice),
		KindMultiplier: kindMult,
		Clamped:        clamped,
	}

	e.recordApplication(ctx, rule, eval, evalCtx.Now)
	return eval, true
}

func (e *Evaluator) recordApplication(ctx context.Context, rule *ruledomain.Rule, eval ruledomain.Evaluation, at time.Time) {
	prevApps := rule.Applications
	rule.Applications++
	rule.RevenueImpact += eval.Delta

	// A clamped application counts against the rolling success rate: the rule
	// asked for a price its own bounds rejected.
	success := 1.0
	if eval.Clamped {
		success = 0.0
	}
	rule.SuccessRate = (rule.SuccessRate*float64(prevApps) + success) / float64(rule.Applications)

	appliedAt := at.UTC()
	rule.LastAppliedAt = &appliedAt

	if err := e.repo.UpdatePerformance(ctx, rule); err != nil {
		e.log.Warn("failed to persist rule performance",
			zap.String("rule_id", rule.ID.String()),
			zap.Error(err),
		)
	}
}

func applies(rule *ruledomain.Rule, evalCtx ruledomain.EvalContext) bool {
	if !rule.Active {
		return false
	}
	if !rule.ValidAt(evalCtx.Now) {
		return false
	}
	if !rule.AppliesToRoomType(evalCtx.RoomTypeID) {
		return false
	}
	// Demand-based rules only fire inside one of their occupancy bands.
	if rule.Kind == ruledomain.KindDemandBased {
		if matchOccupancyBand(rule.Config.Occupancy, evalCtx.OccupancyPct) == nil {
			return false
		}
	}
	if rule.Kind == ruledomain.KindCustomerSegment {
		if _, ok := rule.Config.SegmentDiscounts[evalCtx.Segment]; !ok {
			return false
		}
	}
	return true
}

func applyBaseAdjustment(rule *ruledomain.Rule, basePrice float64) float64 {
	switch rule.Adjustment {
	case ruledomain.AdjustPercentage:
		return basePrice * (1 + rule.AdjustmentValue/100)
	case ruledomain.AdjustFixed:
		return basePrice + rule.AdjustmentValue
	case ruledomain.AdjustAbsolute:
		return rule.AdjustmentValue
	case ruledomain.AdjustMultiplier:
		return basePrice * rule.AdjustmentValue
	default:
		return basePrice
	}
}

func kindMultiplier(rule *ruledomain.Rule, evalCtx ruledomain.EvalContext) float64 {
	switch rule.Kind {
	case ruledomain.KindSeasonal:
		for _, season := range rule.Config.Seasons {
			if inWindow(evalCtx.Date, season.Start, season.End, season.Recurring) {
				return season.Multiplier
			}
		}
	case ruledomain.KindDemandBased:
		if band := matchOccupancyBand(rule.Config.Occupancy, evalCtx.OccupancyPct); band != nil {
			return band.Multiplier
		}
	case ruledomain.KindLeadTime:
		if m, ok := matchLeadTimeBand(rule.Config.LeadTime, evalCtx.LeadTimeDays); ok {
			return m
		}
	case ruledomain.KindDayOfWeek:
		if rule.Config.Weekday != nil {
			return rule.Config.Weekday[evalCtx.Date.Weekday()]
		}
	case ruledomain.KindEventBased:
		for _, event := range rule.Config.Events {
			if inWindow(evalCtx.Date, event.Start, event.End, event.Recurring) {
				return event.Multiplier
			}
		}
	case ruledomain.KindLengthOfStay:
		for _, band := range rule.Config.StayLength {
			if evalCtx.StayNights >= band.MinNights &&
				(band.MaxNights == 0 || evalCtx.StayNights <= band.MaxNights) {
				return 1 - band.DiscountPct/100
			}
		}
	case ruledomain.KindCustomerSegment:
		if pct, ok := rule.Config.SegmentDiscounts[evalCtx.Segment]; ok {
			return 1 - pct/100
		}
	case ruledomain.KindCompetitor:
		if rule.Config.CompetitorOffset != nil {
			return *rule.Config.CompetitorOffset
		}
	case ruledomain.KindPromotional:
		// Promotion lives entirely in the base adjustment.
	}
	return 1.0
}

func matchOccupancyBand(bands []ruledomain.OccupancyThreshold, occupancyPct float64) *ruledomain.OccupancyThreshold {
	for i := range bands {
		band := &bands[i]
		if occupancyPct >= band.MinPct && (occupancyPct < band.MaxPct || (band.MaxPct >= 100 && occupancyPct >= 100)) {
			return band
		}
	}
	return nil
}

// matchLeadTimeBand picks the highest band whose FromDays does not exceed the
// actual lead time. Bands are validated to be strictly increasing.
func matchLeadTimeBand(bands []ruledomain.LeadTimeBand, leadDays int) (float64, bool) {
	matched := false
	mult := 1.0
	for _, band := range bands {
		if leadDays >= band.FromDays {
			mult = band.Multiplier
			matched = true
		}
	}
	return mult, matched
}

// inWindow tests date against [start, end), re-anchoring recurring windows to
// the date's own year. A recurring window spanning year end (e.g. Dec 20 –
// Jan 5) is handled by checking both anchor years.
func inWindow(date, start, end time.Time, recurring bool) bool {
	if !recurring {
		return !date.Before(start) && date.Before(end)
	}
	for _, yearShift := range []int{0, -1} {
		year := date.Year() + yearShift
		s := time.Date(year, start.Month(), start.Day(), 0, 0, 0, 0, date.Location())
		e := s.Add(end.Sub(start))
		if !date.Before(s) && date.Before(e) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
