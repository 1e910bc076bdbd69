package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateSupplier     = "CREATE_SUPPLIER"
	ActionUpdateSupplier     = "UPDATE_SUPPLIER"
	ActionDeleteSupplier     = "DELETE_SUPPLIER"
	ActionInitializeSupplier = "INITIALIZE_SUPPLIER"
	ActionSubmitOrder        = "SUBMIT_ORDER"
	ActionApproveOrder       = "APPROVE_ORDER"
	ActionRejectOrder        = "REJECT_ORDER"
	ActionCreateCategory     = "CREATE_CATEGORY"
	ActionDeleteCategory     = "DELETE_CATEGORY"
)

// AuditLog tracks Who, What, and When for balance-affecting changes.
// Actor is the handler/submitter name recorded with the action. It is a
// display name rather than a FK, because order handlers are free-form names.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Actor     string    `gorm:"type:varchar(100)" json:"actor"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID  string    `gorm:"type:varchar(64);index" json:"entity_id"`
	Details   string    `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
