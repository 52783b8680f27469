package services

import (
	"context"
	"log/slog"

	"chiludos-backend/broker"
)

// EventPublisher receives domain events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, event broker.Event) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, broker.Event) error { return nil }

// publish never fails the caller; the write it describes is already committed.
func publish(ctx context.Context, log *slog.Logger, events EventPublisher, routingKey string, payload any) {
	if err := events.Publish(ctx, broker.NewEvent(routingKey, payload)); err != nil {
		log.Warn("event publish failed", "routing_key", routingKey, "error", err)
	}
}
