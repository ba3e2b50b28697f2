package models

import "time"

// OrderItem is a line of an order. Name and unit price are snapshots of
// the product at creation time; catalog edits never touch existing orders.
// Items are created once with their order and are immutable afterwards.
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	ProductName    string    `gorm:"not null" json:"product_name"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// SubtotalCents is quantity times the snapshotted unit price.
func (i *OrderItem) SubtotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
