package models

import (
	"time"

	"gorm.io/gorm"
)

// Establishment represents a tenant (restaurant) in the system.
// All catalog, order and kitchen data is scoped to one establishment.
type Establishment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"` // public menu URL segment
	Active         bool           `gorm:"not null;default:true" json:"active"`
	HasKitchen     bool           `gorm:"not null;default:false" json:"has_kitchen"`      // spawns kitchen tickets on order creation
	OnlineOrdering bool           `gorm:"not null;default:false" json:"online_ordering"` // allows unauthenticated customer orders
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Establishment model
func (Establishment) TableName() string {
	return "establishments"
}
