package audit

import "context"

// Filter narrows an audit trail query. Zero values mean "any".
type Filter struct {
	EventType string
	EntityID  string
	ActorID   string
	Limit     int
}

type Repository interface {
	Create(ctx context.Context, e *Event) error
	// List returns matching events newest-first.
	List(ctx context.Context, f Filter) ([]Event, error)
}
