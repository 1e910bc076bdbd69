package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus constants. Pending is the only initial state; Approved and
// Rejected are terminal; there is no re-opening an order once handled.
const (
	OrderStatusPending  = "Pending"
	OrderStatusApproved = "Approved"
	OrderStatusRejected = "Rejected"
)

// Order is a barter order submitted by a staff member against a supplier's
// balance. Business fields are immutable after submission; only Status and
// Handler change, exactly once, when an admin approves or rejects.
type Order struct {
	OrderID    string          `gorm:"type:varchar(64);primaryKey" json:"order_id"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"supplier,omitempty"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	Category   string          `gorm:"type:varchar(100)" json:"category"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	OrderDate  time.Time       `gorm:"not null" json:"order_date"`
	OrderedBy  string          `gorm:"type:varchar(100);not null" json:"ordered_by"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Status     string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Handler    string          `gorm:"type:varchar(100)" json:"handler"` // empty while Pending
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderCategory is an admin-managed label staff pick when submitting orders.
type OrderCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
