package events

import (
	"context"
	"errors"
	"time"

	"github.com/chitram/chitram-backend/pkg/logger"
)

type Type string

const (
	ApplicationSubmitted Type = "application.submitted"
	ApplicationReviewed  Type = "application.reviewed"
	ArtistCreated        Type = "artist.created"
	ArtworkCreated       Type = "artwork.created"
	OrderPlaced          Type = "order.placed"
	OrderStatusChanged   Type = "order.status_changed"
	MessageReceived      Type = "message.received"
	CountersReconciled   Type = "counters.reconciled"
)

// Event is a domain notification. Data must be JSON serializable.
type Event struct {
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

func New(t Type, data interface{}) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Data: data}
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noop struct{}

// Noop discards every event.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to several publishers. Every publisher is tried
// and their errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes and logs failure. Events never fail the operation that
// raised them.
func Emit(ctx context.Context, p Publisher, t Type, data interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, New(t, data)); err != nil {
		logger.Warn("Failed to publish event", map[string]interface{}{
			"event": string(t),
			"error": err.Error(),
		})
	}
}
