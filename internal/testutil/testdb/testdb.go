package testdb

import (
	"testing"

	auditDomain "agrifund-ledger/internal/domain/audit"
	collateralDomain "agrifund-ledger/internal/domain/collateral"
	loanDomain "agrifund-ledger/internal/domain/loan"
	pricingDomain "agrifund-ledger/internal/domain/pricing"
	userDomain "agrifund-ledger/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open creates an in-memory sqlite database with the full schema
// migrated. Each call returns an isolated database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{},
		&collateralDomain.Token{},
		&loanDomain.Loan{},
		&pricingDomain.Quote{},
		&auditDomain.Event{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
