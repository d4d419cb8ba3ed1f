package analytics

import (
	"context"
	"testing"
	"time"

	"agrifund-ledger/internal/adapter/repository/mysql"
	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	userDomain "agrifund-ledger/internal/domain/user"
	"agrifund-ledger/internal/testutil/testdb"
	"agrifund-ledger/pkg/id"

	"gorm.io/gorm"
)

func seedLoan(t *testing.T, db *gorm.DB, amount, rate float64, status loanDomain.Status) {
	t.Helper()
	err := mysql.NewLoanRepository(db).Create(context.Background(), &loanDomain.Loan{
		ContractID:        id.NewID32(),
		BorrowerID:        id.NewID32(),
		Amount:            amount,
		InterestRate:      rate,
		DurationMonths:    6,
		CollateralTokenID: id.NewID32(),
		LTVRatio:          50,
		Status:            status,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSummary(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	users := mysql.NewUserRepository(db)
	for _, ut := range []userDomain.Type{userDomain.TypeFarmer, userDomain.TypeFarmer, userDomain.TypeLender} {
		acct := id.NewID32()
		if err := users.Create(ctx, &userDomain.User{
			AccountID: acct, UserType: ut, Name: "n", Email: acct + "@example.com",
		}); err != nil {
			t.Fatal(err)
		}
	}

	if err := mysql.NewTokenRepository(db).Create(ctx, &collateralDomain.Token{
		TokenID: id.NewID32(), OwnerID: id.NewID32(), CropType: "maize",
		Quantity: 500, UnitPrice: 2.00, HarvestDate: time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	seedLoan(t, db, 500, 10, loanDomain.StatusPending)
	seedLoan(t, db, 1000, 10, loanDomain.StatusFunded)
	seedLoan(t, db, 3000, 20, loanDomain.StatusFunded)
	seedLoan(t, db, 200, 5, loanDomain.StatusDefaulted)

	uc := NewUsecase(mysql.NewLoanRepository(db), mysql.NewTokenRepository(db), users)
	got, err := uc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if got.TotalLoans != 4 || got.FundedLoans != 2 {
		t.Errorf("counts = (%d, %d), want (4, 2)", got.TotalLoans, got.FundedLoans)
	}
	if got.TotalFundedAmount != 4000 {
		t.Errorf("funded amount = %v, want 4000", got.TotalFundedAmount)
	}
	if got.TotalCollateralValue != 1000 {
		t.Errorf("collateral value = %v, want 1000", got.TotalCollateralValue)
	}
	if got.AverageInterestRate != 15 {
		t.Errorf("avg rate = %v, want 15", got.AverageInterestRate)
	}
	if got.DefaultRate != 50 {
		t.Errorf("default rate = %v, want 50 (1 defaulted / 2 funded)", got.DefaultRate)
	}
	if got.ActiveFarmers != 2 || got.ActiveLenders != 1 {
		t.Errorf("users = (%d, %d), want (2, 1)", got.ActiveFarmers, got.ActiveLenders)
	}
}

func TestSummary_EmptyLedger(t *testing.T) {
	db := testdb.Open(t)

	uc := NewUsecase(mysql.NewLoanRepository(db), mysql.NewTokenRepository(db), mysql.NewUserRepository(db))
	got, err := uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary on empty ledger: %v", err)
	}
	if got.TotalLoans != 0 || got.DefaultRate != 0 || got.TotalFundedAmount != 0 {
		t.Errorf("empty summary = %+v, want zeroes", got)
	}
}
