package infrastructure

import (
	"nexus/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// The set-balance command uses it since no bot session is around to react.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
