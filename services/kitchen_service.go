package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"gorm.io/gorm"
)

// KitchenTransitions is the ticket status adjacency table. Forward flow is
// queue → preparing → ready → delivered, each step may be corrected one step
// back, and queue → delivered is a fast path for items that need no
// preparation. Arbitrary jumps are rejected so preparation-time stats stay
// meaningful.
var KitchenTransitions = map[string][]string{
	models.TicketStatusQueue:     {models.TicketStatusPreparing, models.TicketStatusDelivered},
	models.TicketStatusPreparing: {models.TicketStatusReady, models.TicketStatusQueue},
	models.TicketStatusReady:     {models.TicketStatusDelivered, models.TicketStatusPreparing},
	models.TicketStatusDelivered: {models.TicketStatusQueue},
}

// CanTransition reports whether the ticket status machine allows moving from
// one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range KitchenTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// KitchenStats is the kitchen dashboard aggregate.
type KitchenStats struct {
	Queue              int64 `json:"queue"`
	Preparing          int64 `json:"preparing"`
	Ready              int64 `json:"ready"`
	DeliveredToday     int64 `json:"delivered_today"`
	AvgPrepTimeMinutes int64 `json:"avg_prep_time_minutes"`
}

// TicketListFilter narrows List results. Zero values mean "no filter".
type TicketListFilter struct {
	Status string
	Since  *time.Time
	Limit  int
}

// KitchenService governs the ticket workflow: the only stateful machine in
// the system. Tickets are created by the order service inside the order
// transaction; this service only advances them.
type KitchenService struct {
	DB    *gorm.DB
	Audit *AuditService
	Hub   *realtime.Hub
}

func NewKitchenService(db *gorm.DB, audit *AuditService, hub *realtime.Hub) *KitchenService {
	return &KitchenService{DB: db, Audit: audit, Hub: hub}
}

// UpdateStatus advances a ticket through the transition table. The update is
// guarded on the current status, so two concurrent transitions cannot both
// win; the loser sees a ConflictError.
func (s *KitchenService) UpdateStatus(establishmentID, ticketID uint, newStatus string, actorID *uint) (*models.KitchenTicket, error) {
	if _, known := KitchenTransitions[newStatus]; !known {
		return nil, &ValidationError{Message: "invalid ticket status: " + newStatus}
	}

	ticket, err := s.getScoped(establishmentID, ticketID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ticket.Status, newStatus) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("invalid transition from %s to %s", ticket.Status, newStatus),
		}
	}

	res := s.DB.Model(&models.KitchenTicket{}).
		Where("id = ? AND status = ?", ticket.ID, ticket.Status).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &ConflictError{Message: "ticket was modified concurrently, reload and retry"}
	}

	s.Audit.Record(establishmentID, actorID, "kitchen.ticket_status_updated", "kitchen_ticket", ticket.ID, map[string]interface{}{
		"ticket_number": ticket.TicketNumber,
		"order_id":      ticket.OrderID,
		"from":          ticket.Status,
		"to":            newStatus,
	})
	s.Hub.Publish(establishmentID, realtime.EventTicketStatusChange, map[string]interface{}{
		"ticket_id":       ticket.ID,
		"ticket_number":   ticket.TicketNumber,
		"order_id":        ticket.OrderID,
		"previous_status": ticket.Status,
		"status":          newStatus,
	})

	return s.GetByID(establishmentID, ticketID)
}

// GetByID returns the ticket with its order and items, scoped to the
// establishment.
func (s *KitchenService) GetByID(establishmentID, ticketID uint) (*models.KitchenTicket, error) {
	var ticket models.KitchenTicket
	err := s.DB.Preload("Order").Preload("Order.Items").
		Where("id = ? AND establishment_id = ?", ticketID, establishmentID).
		First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "kitchen ticket", ID: ticketID}
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List returns tickets matching the filter, oldest first so kitchen screens
// show work in arrival order.
func (s *KitchenService) List(establishmentID uint, f TicketListFilter) ([]models.KitchenTicket, error) {
	q := s.DB.Preload("Order").Preload("Order.Items").
		Where("establishment_id = ?", establishmentID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var tickets []models.KitchenTicket
	err := q.Order("id ASC").Limit(limit).Find(&tickets).Error
	return tickets, err
}

// Stats aggregates the kitchen dashboard counters. Queue, preparing and
// ready count everything open; delivered is counted for the current local
// calendar day only. Average preparation time is the floored mean of
// (updated_at - created_at) over the 10 most recently delivered tickets,
// zero when nothing has been delivered yet.
func (s *KitchenService) Stats(establishmentID uint) (*KitchenStats, error) {
	stats := &KitchenStats{}

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.TicketStatusQueue, &stats.Queue},
		{models.TicketStatusPreparing, &stats.Preparing},
		{models.TicketStatusReady, &stats.Ready},
	}
	for _, c := range counts {
		err := s.DB.Model(&models.KitchenTicket{}).
			Where("establishment_id = ? AND status = ?", establishmentID, c.status).
			Count(c.dest).Error
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := s.DB.Model(&models.KitchenTicket{}).
		Where("establishment_id = ? AND status = ? AND updated_at >= ?",
			establishmentID, models.TicketStatusDelivered, midnight).
		Count(&stats.DeliveredToday).Error
	if err != nil {
		return nil, err
	}

	var recent []models.KitchenTicket
	err = s.DB.Where("establishment_id = ? AND status = ?", establishmentID, models.TicketStatusDelivered).
		Order("updated_at DESC").Limit(10).Find(&recent).Error
	if err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		var totalMinutes float64
		for _, t := range recent {
			totalMinutes += t.UpdatedAt.Sub(t.CreatedAt).Minutes()
		}
		stats.AvgPrepTimeMinutes = int64(totalMinutes / float64(len(recent)))
	}

	return stats, nil
}

func (s *KitchenService) getScoped(establishmentID, ticketID uint) (*models.KitchenTicket, error) {
	var ticket models.KitchenTicket
	err := s.DB.Where("id = ? AND establishment_id = ?", ticketID, establishmentID).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "kitchen ticket", ID: ticketID}
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// nextTicketNumber allocates the next sequential display number for the
// establishment. Called inside the order-creation transaction.
func nextTicketNumber(tx *gorm.DB, establishmentID uint) (int, error) {
	var row struct{ Max int }
	err := tx.Model(&models.KitchenTicket{}).
		Select("COALESCE(MAX(ticket_number), 0) AS max").
		Where("establishment_id = ?", establishmentID).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Max + 1, nil
}
