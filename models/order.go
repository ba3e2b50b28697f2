package models

import (
	"time"

	"gorm.io/gorm"
)

// Order lifecycle status. Payment settlement is tracked separately on
// PaymentStatus; an order can be financially settled while still open.
const (
	OrderStatusOpen     = "open"
	OrderStatusClosed   = "closed"
	OrderStatusCanceled = "canceled"
)

// Derived payment status, a pure function of PaidCents vs TotalCents.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order represents a customer tab (comanda): a set of items that may be
// paid incrementally. All monetary values are integer cents.
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	EstablishmentID uint           `gorm:"not null;index" json:"establishment_id"`
	Establishment   Establishment  `gorm:"foreignKey:EstablishmentID" json:"-"`
	Code            string         `gorm:"index" json:"code"`
	CustomerName    *string        `json:"customer_name,omitempty"`
	Status          string         `gorm:"not null;default:'open';index" json:"status"` // open, closed, canceled
	PaymentStatus   string         `gorm:"not null;default:'unpaid';index" json:"payment_status"` // unpaid, partial, paid
	TotalCents      int64          `gorm:"not null" json:"total_cents"`
	PaidCents       int64          `gorm:"not null;default:0" json:"paid_cents"`
	CreatedByID     *uint          `gorm:"index" json:"created_by_id,omitempty"` // nil for public customer orders
	CreatedBy       *User          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	Payments        []Payment      `gorm:"foreignKey:OrderID" json:"payments"`
	Ticket          *KitchenTicket `gorm:"foreignKey:OrderID" json:"ticket,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// RemainingCents is the outstanding balance. Never negative, over-payment
// is clamped for display purposes.
func (o *Order) RemainingCents() int64 {
	if o.PaidCents >= o.TotalCents {
		return 0
	}
	return o.TotalCents - o.PaidCents
}

// DerivePaymentStatus computes the payment status for a cumulative paid
// amount against a total.
func DerivePaymentStatus(paidCents, totalCents int64) string {
	switch {
	case paidCents >= totalCents:
		return PaymentStatusPaid
	case paidCents > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}
