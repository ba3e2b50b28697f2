package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
)

// User represents a staff member of an establishment.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	EstablishmentID uint           `gorm:"not null;index" json:"establishment_id"`
	Establishment   Establishment  `gorm:"foreignKey:EstablishmentID" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	Role            string         `gorm:"not null;default:'cashier'" json:"role"` // admin, cashier, kitchen
	Active          bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
