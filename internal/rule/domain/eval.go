package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EvalContext carries the facts a rule may condition on for one
// (room type, date) evaluation.
type EvalContext struct {
	Now          time.Time
	Date         time.Time
	LeadTimeDays int
	StayNights   int
	RoomTypeID   snowflake.ID
	OccupancyPct float64
	Segment      string
}

// Evaluation is the outcome of applying a single rule to a base price.
type Evaluation struct {
	RuleID         snowflake.ID
	RuleName       string
	Kind           RuleKind
	Priority       int
	AdjustedPrice  float64
	Delta          float64 // AdjustedPrice - base
	KindMultiplier float64 // the kind-specific multiplier applied on top
	Clamped        bool
}
