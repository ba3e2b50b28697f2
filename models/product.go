package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog item offered by an establishment.
// Orders snapshot the name and price at creation time, so editing a
// product never rewrites history.
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	EstablishmentID uint           `gorm:"not null;index" json:"establishment_id"`
	Establishment   Establishment  `gorm:"foreignKey:EstablishmentID" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `json:"description"`
	Category        string         `gorm:"index" json:"category"`
	PriceCents      int64          `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	ImageS3Key      *string        `json:"image_s3_key,omitempty"`
	ImageURL        *string        `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
