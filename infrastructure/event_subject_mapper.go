package infrastructure

import (
	"fmt"

	"nexus/domain/events"
)

// Every exported subject lives under this prefix so one stream can own them
const subjectPrefix = "nexus."

const (
	SubjectLevelUp        = subjectPrefix + "leveling.level_up"
	SubjectBalanceChanged = subjectPrefix + "economy.balance_changed"
	SubjectMarriage       = subjectPrefix + "social.marriage_changed"
	SubjectModeration     = subjectPrefix + "moderation.action"
)

// domainSubjects is the single list of exported events. The stream, the
// mapper and the events command all derive from it.
var domainSubjects = []struct {
	eventType events.EventType
	subject   string
}{
	{events.EventTypeLevelUp, SubjectLevelUp},
	{events.EventTypeBalanceChange, SubjectBalanceChanged},
	{events.EventTypeMarriage, SubjectMarriage},
	{events.EventTypeModeration, SubjectModeration},
}

// DomainEventTypes lists the event types exported to NATS, in subject order
func DomainEventTypes() []events.EventType {
	types := make([]events.EventType, len(domainSubjects))
	for i, ds := range domainSubjects {
		types[i] = ds.eventType
	}
	return types
}

// DomainSubjects lists every subject the bot publishes to
func DomainSubjects() []string {
	subjects := make([]string, len(domainSubjects))
	for i, ds := range domainSubjects {
		subjects[i] = ds.subject
	}
	return subjects
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.MapEventTypeToSubject(event.Type())
}

// MapEventTypeToSubject converts an event type to its NATS subject. Unknown
// types land outside the stream's subjects and are never stored.
func (m *EventSubjectMapper) MapEventTypeToSubject(eventType events.EventType) string {
	for _, ds := range domainSubjects {
		if ds.eventType == eventType {
			return ds.subject
		}
	}
	return fmt.Sprintf("unknown.%s", eventType)
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for _, ds := range domainSubjects {
		if ds.subject == subject {
			return ds.eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return DomainSubjects()
}
