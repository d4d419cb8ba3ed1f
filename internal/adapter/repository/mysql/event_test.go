package mysql

import (
	"context"
	"testing"

	auditDomain "agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/pkg/id"
)

func TestEventListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	entity := id.NewID32()
	actor := id.NewID32()

	// Two events appended in one logical operation share a creation
	// second; the id tie-break must keep emission order.
	first, err := auditDomain.NewEvent(auditDomain.EventLoanCreated, entity, actor, map[string]any{"amount": 800})
	if err != nil {
		t.Fatal(err)
	}
	second, err := auditDomain.NewEvent(auditDomain.EventLoanFunded, entity, actor, map[string]any{"amount": 800})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := repo.List(ctx, auditDomain.Filter{EntityID: entity})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].EventType != auditDomain.EventLoanFunded || got[1].EventType != auditDomain.EventLoanCreated {
		t.Errorf("order = [%s, %s], want [LOAN_FUNDED, LOAN_CREATED]", got[0].EventType, got[1].EventType)
	}
}

func TestEventListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	actorA := id.NewID32()
	actorB := id.NewID32()

	seed := []struct {
		eventType string
		entity    string
		actor     string
	}{
		{auditDomain.EventTokenMinted, id.NewID32(), actorA},
		{auditDomain.EventTokenMinted, id.NewID32(), actorB},
		{auditDomain.EventLoanCreated, id.NewID32(), actorA},
	}
	for _, s := range seed {
		ev, err := auditDomain.NewEvent(s.eventType, s.entity, s.actor, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	mints, err := repo.List(ctx, auditDomain.Filter{EventType: auditDomain.EventTokenMinted})
	if err != nil {
		t.Fatal(err)
	}
	if len(mints) != 2 {
		t.Errorf("event_type filter: got %d, want 2", len(mints))
	}

	byActor, err := repo.List(ctx, auditDomain.Filter{ActorID: actorA})
	if err != nil {
		t.Fatal(err)
	}
	if len(byActor) != 2 {
		t.Errorf("actor filter: got %d, want 2", len(byActor))
	}

	limited, err := repo.List(ctx, auditDomain.Filter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d, want 1", len(limited))
	}
}
