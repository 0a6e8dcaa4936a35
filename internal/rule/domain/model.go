// Package domain defines pricing rules: scoped, prioritized, time-bounded
// adjustments the calculator folds into a room price.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrRuleNotFound = errors.New("pricing rule not found")
	ErrInvalidRule  = errors.New("invalid pricing rule")
)

type RuleKind string

const (
	KindSeasonal        RuleKind = "seasonal"
	KindDemandBased     RuleKind = "demand_based"
	KindLeadTime        RuleKind = "lead_time"
	KindDayOfWeek       RuleKind = "day_of_week"
	KindEventBased      RuleKind = "event_based"
	KindLengthOfStay    RuleKind = "length_of_stay"
	KindCustomerSegment RuleKind = "customer_segment"
	KindCompetitor      RuleKind = "competitor"
	KindPromotional     RuleKind = "promotional"
)

type AdjustmentType string

const (
	AdjustPercentage AdjustmentType = "percentage"
	AdjustFixed      AdjustmentType = "fixed_amount"
	AdjustAbsolute   AdjustmentType = "absolute"
	AdjustMultiplier AdjustmentType = "multiplier"
)

// SeasonRange is a rule-level season window; recurring windows re-anchor to
// the evaluated date's year.
type SeasonRange struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Recurring  bool      `json:"recurring"`
	Multiplier float64   `json:"multiplier"`
}

// OccupancyThreshold maps an occupancy band to a multiplier; also doubles as
// the applicability condition for demand-based rules.
type OccupancyThreshold struct {
	MinPct     float64 `json:"min_pct"`
	MaxPct     float64 `json:"max_pct"`
	Multiplier float64 `json:"multiplier"`
}

type LeadTimeBand struct {
	FromDays   int     `json:"from_days"`
	Multiplier float64 `json:"multiplier"`
}

type EventRange struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Recurring  bool      `json:"recurring"`
	Multiplier float64   `json:"multiplier"`
	RadiusKM   float64   `json:"radius_km"`
}

type StayLengthBand struct {
	MinNights   int     `json:"min_nights"`
	MaxNights   int     `json:"max_nights"` // 0 = unbounded
	DiscountPct float64 `json:"discount_pct"`
}

// Config carries the kind-specific block. Exactly one field matching the
// rule's kind is populated; Validate enforces that.
type Config struct {
	Seasons          []SeasonRange        `json:"seasons,omitempty"`
	Occupancy        []OccupancyThreshold `json:"occupancy,omitempty"`
	LeadTime         []LeadTimeBand       `json:"lead_time,omitempty"`
	Weekday          *[7]float64          `json:"weekday,omitempty"`
	Events           []EventRange         `json:"events,omitempty"`
	StayLength       []StayLengthBand     `json:"stay_length,omitempty"`
	SegmentDiscounts map[string]float64   `json:"segment_discounts,omitempty"` // segment -> discount pct
	CompetitorOffset *float64             `json:"competitor_offset,omitempty"` // multiplier vs own base
}

// Rule is the persisted pricing rule. The engine treats it as read-only
// except for the performance counters, which only the evaluator mutates.
type Rule struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Kind        RuleKind       `gorm:"type:text;not null;index" json:"kind"`
	HotelID     *snowflake.ID  `gorm:"index" json:"hotel_id,omitempty"` // nil = global
	RoomTypeIDs []snowflake.ID `gorm:"serializer:json" json:"room_type_ids,omitempty"`
	Priority    int            `gorm:"not null;default:0" json:"priority"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	ValidFrom   time.Time      `gorm:"not null" json:"valid_from"`
	ValidUntil  time.Time      `gorm:"not null" json:"valid_until"`

	Adjustment      AdjustmentType `gorm:"type:text;not null" json:"adjustment"`
	AdjustmentValue float64        `gorm:"not null" json:"adjustment_value"`
	MinPrice        *float64       `json:"min_price,omitempty"`
	MaxPrice        *float64       `json:"max_price,omitempty"`

	Config Config `gorm:"serializer:json" json:"config"`

	// Performance counters, maintained by the evaluator after each application.
	Applications  int64      `gorm:"not null;default:0" json:"applications"`
	RevenueImpact float64    `gorm:"not null;default:0" json:"revenue_impact"`
	SuccessRate   float64    `gorm:"not null;default:0" json:"success_rate"`
	LastAppliedAt *time.Time `json:"last_applied_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Rule) TableName() string { return "pricing_rules" }

// AppliesToRoomType: an empty scope matches every room type.
func (r *Rule) AppliesToRoomType(roomTypeID snowflake.ID) bool {
	if len(r.RoomTypeIDs) == 0 {
		return true
	}
	for _, id := range r.RoomTypeIDs {
		if id == roomTypeID {
			return true
		}
	}
	return false
}

// ValidAt reports whether now falls inside [ValidFrom, ValidUntil). The upper
// bound is exclusive: a rule is inert from the exact instant of expiry.
func (r *Rule) ValidAt(now time.Time) bool {
	return !now.Before(r.ValidFrom) && now.Before(r.ValidUntil)
}

type Repository interface {
	Get(ctx context.Context, id snowflake.ID) (*Rule, error)
	// ListForHotel returns the hotel's rules plus global rules, highest
	// priority first.
	ListForHotel(ctx context.Context, hotelID snowflake.ID) ([]Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Insert(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	UpdatePerformance(ctx context.Context, rule *Rule) error
	// ListDegraded returns active rules whose revenue impact turned negative
	// since the cutoff; consumed by the performance monitor.
	ListDegraded(ctx context.Context, since time.Time) ([]Rule, error)
}

type Service interface {
	Create(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Get(ctx context.Context, id snowflake.ID) (*Rule, error)
	List(ctx context.Context) ([]Rule, error)
	// ActiveForHotel filters to rules valid at the given instant, ordered by
	// priority descending.
	ActiveForHotel(ctx context.Context, hotelID snowflake.ID, at time.Time) ([]Rule, error)
}
