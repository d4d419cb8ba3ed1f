package audit

import (
	"encoding/json"
	"time"
)

// NewEvent assembles an append-ready event. The payload is stored as
// JSON and stays opaque to the trail itself.
func NewEvent(eventType, entityID, actorID string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		EventType:       eventType,
		EntityID:        entityID,
		ActorID:         actorID,
		Payload:         string(raw),
		LedgerTimestamp: time.Now().UTC().UnixNano(),
	}, nil
}
