package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	collateralDomain "agrifund-ledger/internal/domain/collateral"
	"agrifund-ledger/pkg/id"

	"gorm.io/gorm"
)

func makeToken(tokenID, ownerID string, qty int64, price float64) *collateralDomain.Token {
	return &collateralDomain.Token{
		TokenID:           tokenID,
		OwnerID:           ownerID,
		CropType:          "maize",
		Quantity:          qty,
		QualityGrade:      "A",
		WarehouseLocation: "Warehouse 4, Arusha",
		HarvestDate:       time.Now().UTC(),
		UnitPrice:         price,
	}
}

func TestTokenCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	tokenID := id.NewID32()
	owner := id.NewID32()

	if err := repo.Create(ctx, makeToken(tokenID, owner, 500, 2.00)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		t.Fatalf("GetByTokenID: %v", err)
	}
	if got.OwnerID != owner || got.Quantity != 500 {
		t.Errorf("unexpected token: %+v", got)
	}
	if got.Pledged {
		t.Error("new token must not be pledged")
	}
	if got.TotalValue() != 1000 {
		t.Errorf("TotalValue = %v, want 1000", got.TotalValue())
	}
}

func TestTokenGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)

	_, err := repo.GetByTokenID(context.Background(), id.NewID32())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTokenSave_PledgeFlag(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	tokenID := id.NewID32()
	tok := makeToken(tokenID, id.NewID32(), 100, 3.50)
	if err := repo.Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := tok.Pledge(); err != nil {
		t.Fatalf("Pledge: %v", err)
	}
	if err := repo.Save(ctx, tok); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		t.Fatalf("GetByTokenID: %v", err)
	}
	if !got.Pledged {
		t.Error("pledge flag not persisted")
	}
	if err := got.Pledge(); !errors.Is(err, collateralDomain.ErrAlreadyPledged) {
		t.Fatalf("second Pledge = %v, want ErrAlreadyPledged", err)
	}
}

func TestTokenSumValueByOwner(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	owner := id.NewID32()
	other := id.NewID32()

	seed := []*collateralDomain.Token{
		makeToken(id.NewID32(), owner, 500, 2.00),  // 1000
		makeToken(id.NewID32(), owner, 10, 250.00), // 2500
		makeToken(id.NewID32(), other, 99, 99.00),
	}
	for _, tok := range seed {
		if err := repo.Create(ctx, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.SumValueByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("SumValueByOwner: %v", err)
	}
	if got != 3500 {
		t.Errorf("SumValueByOwner = %v, want 3500", got)
	}

	// owner with no tokens sums to zero, not an error
	none, err := repo.SumValueByOwner(ctx, id.NewID32())
	if err != nil || none != 0 {
		t.Errorf("empty owner sum = (%v, %v), want (0, nil)", none, err)
	}
}

func TestTokenListByOwner_Order(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	owner := id.NewID32()
	first := id.NewID32()
	second := id.NewID32()
	if err := repo.Create(ctx, makeToken(first, owner, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, makeToken(second, owner, 2, 1)); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 || got[0].TokenID != first || got[1].TokenID != second {
		t.Errorf("unexpected order: %+v", got)
	}
}
