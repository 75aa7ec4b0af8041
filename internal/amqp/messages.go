package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a change to the record history.
type EventType string

const (
	EventRecordCreated EventType = "record.created"
	EventRecordDeleted EventType = "record.deleted"
	// EventMirrorRequested asks the worker for a full mirror without a
	// specific record change.
	EventMirrorRequested EventType = "mirror.requested"
)

// RecordEvent is a lightweight notification. It carries only the record id;
// consumers re-read the slot for the data.
type RecordEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Type      EventType `json:"type"`
	RecordID  int64     `json:"record_id,omitempty"`
	Slot      string    `json:"slot"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(t EventType, recordID int64, slot string) *RecordEvent {
	return &RecordEvent{
		EventID:   uuid.New(),
		Type:      t,
		RecordID:  recordID,
		Slot:      slot,
		Timestamp: time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes an event and rejects unknown types.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Type {
	case EventRecordCreated, EventRecordDeleted, EventMirrorRequested:
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}
