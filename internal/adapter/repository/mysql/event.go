package mysql

import (
	"context"

	auditDomain "agrifund-ledger/internal/domain/audit"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *auditDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) List(ctx context.Context, f auditDomain.Filter) ([]auditDomain.Event, error) {
	q := r.db.WithContext(ctx).Model(&auditDomain.Event{})
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.ActorID != "" {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []auditDomain.Event
	// id is the tie-break so events from one transaction keep their
	// emission order.
	res := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out)
	return out, res.Error
}
