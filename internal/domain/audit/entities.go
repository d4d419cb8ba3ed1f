package audit

import "time"

// Domain event tags. One audit event is appended per mutating operation.
const (
	EventUserRegistered = "USER_REGISTERED"
	EventTokenMinted    = "TOKEN_MINTED"
	EventTokenRevalued  = "TOKEN_REVALUED"
	EventLoanCreated    = "LOAN_CREATED"
	EventLoanFunded     = "LOAN_FUNDED"
	EventLoanRepaid     = "LOAN_REPAID"
	EventLoanDefaulted  = "LOAN_DEFAULTED"
	EventLoanLiquidated = "LOAN_LIQUIDATED"
)

// Event is one append-only audit trail entry. Rows are never updated or
// deleted; the repository deliberately exposes no mutation beyond Create.
type Event struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"id"`
	EventType string `gorm:"size:50;index:idx_audit_event_type" json:"event_type"`
	EntityID  string `gorm:"size:50;index:idx_audit_entity" json:"entity_id"`
	ActorID   string `gorm:"size:32;index:idx_audit_actor" json:"actor_id"`
	// Payload is the JSON-encoded event body; opaque to this package.
	Payload string `gorm:"type:text" json:"payload"`
	// LedgerTxID is an opaque external-ledger transaction reference; the
	// core never interprets it.
	LedgerTxID string `gorm:"size:100" json:"ledger_tx_id,omitempty"`
	// LedgerTimestamp is the domain timestamp in nanoseconds.
	LedgerTimestamp int64     `json:"ledger_timestamp"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_audit_created" json:"created_at"`
}

func (Event) TableName() string { return "audit_events" }
