package audit

import (
	"context"
	"encoding/json"
	"time"

	"agrifund-ledger/internal/domain/audit"

	"github.com/rs/zerolog"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Usecase struct {
	repo audit.Repository
	log  zerolog.Logger
}

func NewUsecase(repo audit.Repository, log zerolog.Logger) *Usecase {
	return &Usecase{repo: repo, log: log}
}

type EventDTO struct {
	ID              uint64    `json:"id"`
	EventType       string    `json:"event_type"`
	EntityID        string    `json:"entity_id"`
	ActorID         string    `json:"actor_id"`
	Data            any       `json:"data"`
	LedgerTxID      string    `json:"ledger_tx_id,omitempty"`
	LedgerTimestamp int64     `json:"ledger_timestamp"`
	CreatedAt       time.Time `json:"created_at"`
}

// Record appends an out-of-band event, optionally carrying an opaque
// external-ledger transaction reference. Failures are reported to the
// observability sink as well as the caller; mutations emitted inside a
// unit of work go through the transaction-bound repository instead.
func (u *Usecase) Record(ctx context.Context, eventType, entityID, actorID string, payload any, externalRef string) (*EventDTO, error) {
	ev, err := audit.NewEvent(eventType, entityID, actorID, payload)
	if err != nil {
		return nil, err
	}
	ev.LedgerTxID = externalRef
	if err := u.repo.Create(ctx, ev); err != nil {
		u.log.Error().Err(err).Str("event_type", eventType).Str("entity_id", entityID).
			Msg("audit write failed")
		return nil, err
	}
	return toDTO(ev), nil
}

// Query returns matching events newest-first, capped at the limit.
func (u *Usecase) Query(ctx context.Context, f audit.Filter) ([]EventDTO, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	events, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]EventDTO, 0, len(events))
	for i := range events {
		out = append(out, *toDTO(&events[i]))
	}
	return out, nil
}

func toDTO(e *audit.Event) *EventDTO {
	var data any
	if e.Payload != "" {
		_ = json.Unmarshal([]byte(e.Payload), &data)
	}
	return &EventDTO{
		ID:              e.ID,
		EventType:       e.EventType,
		EntityID:        e.EntityID,
		ActorID:         e.ActorID,
		Data:            data,
		LedgerTxID:      e.LedgerTxID,
		LedgerTimestamp: e.LedgerTimestamp,
		CreatedAt:       e.CreatedAt,
	}
}
