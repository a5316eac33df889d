// Package pubsub provides a typed publish/subscribe broker. It carries log
// entries to the panel's log overlay and action notifications from
// controls to whoever observes them outside the Bubble Tea loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// CreatedEvent is published when a log entry is written.
	CreatedEvent EventType = "created"
	// ActionEvent is published when an action control fires.
	ActionEvent EventType = "action"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
