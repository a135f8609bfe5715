package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"nexus/domain/events"

	"github.com/google/uuid"
)

// SourceService identifies this process in published envelopes
const SourceService = "nexus-bot"

// EventEnvelope wraps an event payload with delivery metadata
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope serializes event into a fresh envelope
func NewEventEnvelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}, nil
}

// DecodeEvent restores the typed event carried by the envelope as a value
func (e *EventEnvelope) DecodeEvent() (events.Event, error) {
	switch events.EventType(e.EventType) {
	case events.EventTypeLevelUp:
		return decodePayload[events.LevelUpEvent](e.Payload)
	case events.EventTypeBalanceChange:
		return decodePayload[events.BalanceChangeEvent](e.Payload)
	case events.EventTypeMarriage:
		return decodePayload[events.MarriageEvent](e.Payload)
	case events.EventTypeModeration:
		return decodePayload[events.ModerationEvent](e.Payload)
	default:
		return nil, fmt.Errorf("unknown event type: %s", e.EventType)
	}
}

func decodePayload[T events.Event](payload []byte) (events.Event, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return event, nil
}
