package audit

import (
	"context"
	"testing"

	"agrifund-ledger/internal/adapter/repository/mysql"
	auditDomain "agrifund-ledger/internal/domain/audit"
	"agrifund-ledger/internal/testutil/testdb"
	"agrifund-ledger/pkg/id"

	"github.com/rs/zerolog"
)

func TestRecordAndQuery(t *testing.T) {
	db := testdb.Open(t)
	uc := NewUsecase(mysql.NewEventRepository(db), zerolog.Nop())
	ctx := context.Background()

	entity := id.NewID32()
	actor := id.NewID32()

	dto, err := uc.Record(ctx, auditDomain.EventTokenMinted, entity, actor,
		map[string]any{"crop_type": "maize"}, "0xabc123")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if dto.LedgerTxID != "0xabc123" {
		t.Errorf("ledger tx id = %s, want 0xabc123", dto.LedgerTxID)
	}
	if dto.LedgerTimestamp == 0 {
		t.Error("ledger timestamp not set")
	}

	got, err := uc.Query(ctx, auditDomain.Filter{EntityID: entity})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	data, ok := got[0].Data.(map[string]any)
	if !ok || data["crop_type"] != "maize" {
		t.Errorf("payload round trip failed: %+v", got[0].Data)
	}
}

func TestQuery_LimitClamped(t *testing.T) {
	db := testdb.Open(t)
	uc := NewUsecase(mysql.NewEventRepository(db), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if _, err := uc.Record(ctx, auditDomain.EventUserRegistered, id.NewID32(), id.NewID32(), nil, ""); err != nil {
			t.Fatal(err)
		}
	}

	byDefault, err := uc.Query(ctx, auditDomain.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDefault) != defaultLimit {
		t.Errorf("default limit: got %d, want %d", len(byDefault), defaultLimit)
	}

	capped, err := uc.Query(ctx, auditDomain.Filter{Limit: 10_000})
	if err != nil {
		t.Fatal(err)
	}
	if len(capped) != 60 {
		t.Errorf("oversized limit: got %d, want all 60", len(capped))
	}
}
