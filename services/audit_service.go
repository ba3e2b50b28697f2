package services

import (
	"encoding/json"
	"log"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"gorm.io/gorm"
)

// AuditService persists audit trail entries. Recording is fire-and-forget:
// a failed insert is logged and swallowed so it never aborts the operation
// that triggered it.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// Record writes one audit entry. payload is marshaled to JSON; values that
// cannot be marshaled are stored as an empty object.
func (s *AuditService) Record(establishmentID uint, userID *uint, action, entity string, entityID uint, payload interface{}) {
	body := "{}"
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			body = string(raw)
		} else {
			log.Printf("audit: failed to marshal payload for %s %s/%d: %v", action, entity, entityID, err)
		}
	}

	entry := models.AuditLog{
		EstablishmentID: establishmentID,
		UserID:          userID,
		Action:          action,
		Entity:          entity,
		EntityID:        entityID,
		Payload:         body,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s %s/%d: %v", action, entity, entityID, err)
	}
}

// List returns the most recent entries for an establishment.
func (s *AuditService) List(establishmentID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.AuditLog
	err := s.DB.Where("establishment_id = ?", establishmentID).
		Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
