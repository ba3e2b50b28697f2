package models

import "time"

// Payment methods
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodPix  = "pix"
)

// Payment is one entry of an order's append-only payment ledger.
// Payments are never updated or deleted; the order's PaidCents is the
// running sum of its payments.
type Payment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	Method       string    `gorm:"not null" json:"method"` // cash, card, pix
	AmountCents  int64     `gorm:"not null;check:amount_cents > 0" json:"amount_cents"`
	ReceivedByID *uint     `json:"received_by_id,omitempty"`
	ReceivedBy   *User     `gorm:"foreignKey:ReceivedByID" json:"received_by,omitempty"`
	ReceivedAt   time.Time `gorm:"not null" json:"received_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard || m == PaymentMethodPix
}
