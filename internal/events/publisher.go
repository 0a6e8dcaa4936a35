package events

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LogPublisher writes events to the structured log. It is the default sink
// when no external delivery integration is wired in.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) {
	p.log.Info("event published",
		zap.String("event_id", event.ID.String()),
		zap.String("type", event.Type),
		zap.String("hotel_id", event.HotelID),
		zap.Any("payload", event.Payload),
	)
}

// CapturePublisher records events in memory so tests can assert on what the
// engine emitted without a delivery mechanism.
type CapturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) Publish(_ context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *CapturePublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *CapturePublisher) ByType(eventType string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

var Module = fx.Module("events",
	fx.Provide(func(log *zap.Logger) Publisher { return NewLogPublisher(log) }),
)
