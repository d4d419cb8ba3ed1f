package collateral

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("collateral token not found")
	ErrNotOwner       = errors.New("collateral token not owned by borrower")
	ErrAlreadyPledged = errors.New("token already pledged as collateral")
	ErrNotPledged     = errors.New("token is not pledged")
)

// Token is one tokenized crop lot usable as loan collateral.
// Identity, crop type and quantity are immutable after mint; only the
// unit price (revaluation) and the pledge flag ever change.
type Token struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	TokenID           string    `gorm:"size:32;uniqueIndex:ux_tokens_token_id" json:"token_id"`
	OwnerID           string    `gorm:"size:32;index:idx_tokens_owner" json:"owner_id"`
	CropType          string    `gorm:"size:50" json:"crop_type"`
	Quantity          int64     `json:"quantity"`
	QualityGrade      string    `gorm:"size:5" json:"quality_grade"`
	WarehouseLocation string    `gorm:"size:200" json:"warehouse_location"`
	HarvestDate       time.Time `gorm:"type:date" json:"harvest_date"`
	UnitPrice         float64   `gorm:"type:decimal(10,2)" json:"unit_price"`
	Metadata          string    `gorm:"type:text" json:"-"`
	Pledged           bool      `gorm:"default:false;index:idx_tokens_pledged" json:"is_pledged"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Token) TableName() string { return "rwa_tokens" }

// TotalValue is the collateral value at the stored unit price.
func (t *Token) TotalValue() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// Pledge reserves the token for a loan. Exactly one open loan may hold
// the pledge at a time.
func (t *Token) Pledge() error {
	if t.Pledged {
		return ErrAlreadyPledged
	}
	t.Pledged = true
	return nil
}

// Release returns the token to the unpledged pool.
func (t *Token) Release() error {
	if !t.Pledged {
		return ErrNotPledged
	}
	t.Pledged = false
	return nil
}
