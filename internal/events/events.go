// Package events defines the engine's outbound notification surface. The
// engine publishes fire-and-forget events; delivery is the consumer's concern.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventPriceChanged   = "price.changed"
	EventDemandSpike    = "demand.spike"
	EventJobFailed      = "job.failed"
	EventRuleAlert      = "rule.performance_alert"
	EventSeasonApplied  = "season.applied"
	EventRecommendation = "pricing.recommendation"
)

// Event is the envelope handed to the Publisher. Payload keys are
// machine-readable so consumers can filter without parsing prose.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	HotelID    string         `json:"hotel_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// New builds an envelope with a fresh ID and the given occurrence time.
func New(eventType, hotelID string, at time.Time, payload map[string]any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		HotelID:    hotelID,
		OccurredAt: at,
		Payload:    payload,
	}
}
