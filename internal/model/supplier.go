package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a barter partner carrying a running credit balance.
// CurrentAmount is derived state: it always equals InitialAmount minus the
// sum of all Approved order amounts since the last initialize/reset, and is
// only ever mutated through order approval, supplier edit, or initialize.
type Supplier struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"initial_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"current_amount"` // may go negative (overdraft)
	Orders        []Order         `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceEntryType enum constants
const (
	BalanceEntryApproval   = "APPROVAL"
	BalanceEntryInitialize = "INITIALIZE"
	BalanceEntryEdit       = "EDIT"
)

// BalanceEntry is an append-only ledger row recording every balance mutation
// for a supplier. Amount is the signed delta applied to the balance.
type BalanceEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	EntryType    string          `gorm:"type:varchar(20);not null" json:"entry_type"` // APPROVAL, INITIALIZE, EDIT
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// OrderArchive is the snapshot written when a supplier is initialized with
// export-history enabled. It preserves the count and totals of the cleared
// orders plus a full JSON copy for later display.
type OrderArchive struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	OrderCount     int             `gorm:"not null" json:"order_count"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	ApprovedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"approved_amount"`
	Snapshot       string          `gorm:"type:jsonb;not null" json:"snapshot"` // archived orders as JSON
	ResetBy        string          `gorm:"type:varchar(100)" json:"reset_by"`
	CreatedAt      time.Time       `json:"created_at"`
}
