package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants. Admins handle approvals and supplier administration,
// staff submit orders.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is an account that can log into the barter system.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
