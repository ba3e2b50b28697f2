package models

import "time"

// AuditLog records who did what to which entity. Writes are fire-and-forget:
// a failed audit insert must never abort the operation that triggered it.
type AuditLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EstablishmentID uint      `gorm:"not null;index" json:"establishment_id"`
	UserID          *uint     `json:"user_id,omitempty"` // nil for public customer actions
	Action          string    `gorm:"not null" json:"action"`
	Entity          string    `gorm:"not null" json:"entity"`
	EntityID        uint      `gorm:"not null;index" json:"entity_id"`
	Payload         string    `gorm:"type:text" json:"payload"` // JSON blob with action details
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
