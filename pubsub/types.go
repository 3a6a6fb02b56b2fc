package pubsub

import (
	"context"

	"github.com/quillworks/quill/events"
)

// Broker provides access to named topics for distributing run events.
type Broker interface {
	Topic(context.Context, string) Topic
}

// Topic is a single event stream, usually one per run ID.
type Topic interface {
	Publish(context.Context, events.Event) error
	Subscribe(context.Context, events.Hook) (Subscription, error)
}

// Subscription is the handle for an active subscriber.
type Subscription interface {
	ID() string
	Unsubscribe()
}
