package models

import "time"

// Kitchen ticket statuses. Transitions between them are governed by the
// adjacency table in services.KitchenTransitions.
const (
	TicketStatusQueue     = "queue"
	TicketStatusPreparing = "preparing"
	TicketStatusReady     = "ready"
	TicketStatusDelivered = "delivered"
)

// KitchenTicket is the kitchen-facing work item spawned with an order when
// the establishment has kitchen service enabled. TicketNumber is sequential
// per establishment and is the display identity on kitchen screens.
// UpdatedAt marks the last status change and drives preparation-time stats.
type KitchenTicket struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	OrderID         uint          `gorm:"not null;uniqueIndex" json:"order_id"`
	Order           *Order        `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	EstablishmentID uint          `gorm:"not null;index" json:"establishment_id"`
	Establishment   Establishment `gorm:"foreignKey:EstablishmentID" json:"-"`
	TicketNumber    int           `gorm:"not null" json:"ticket_number"`
	Status          string        `gorm:"not null;default:'queue';index" json:"status"` // queue, preparing, ready, delivered
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the KitchenTicket model
func (KitchenTicket) TableName() string {
	return "kitchen_tickets"
}
