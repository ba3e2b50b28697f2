package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"gorm.io/gorm"
)

// OrderService is the order ledger and settlement coordinator: it computes
// totals at creation, persists orders atomically with their items (plus an
// optional immediate payment and kitchen ticket), and applies incremental
// payments with the derived payment status.
type OrderService struct {
	DB             *gorm.DB
	Products       *ProductService
	Establishments *EstablishmentService
	Audit          *AuditService
	Hub            *realtime.Hub
}

func NewOrderService(db *gorm.DB, products *ProductService, establishments *EstablishmentService, audit *AuditService, hub *realtime.Hub) *OrderService {
	return &OrderService{
		DB:             db,
		Products:       products,
		Establishments: establishments,
		Audit:          audit,
		Hub:            hub,
	}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Note      string `json:"note"`
}

// CreateOrderInput carries everything needed to settle a new order in one
// unit: the items, an optional customer name, and an optional immediate
// full payment (staff flow only).
type CreateOrderInput struct {
	Items         []OrderItemInput
	CustomerName  *string
	PayNow        bool
	PaymentMethod string
}

// OrderListFilter narrows List results. Zero values mean "no filter".
type OrderListFilter struct {
	Status        string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Search        string
	Limit         int
}

// Create validates and persists a staff-initiated order. actorID is the
// authenticated user creating the order; it is nil only for the public flow,
// which goes through CreatePublic.
func (s *OrderService) Create(establishmentID uint, actorID *uint, in CreateOrderInput) (*models.Order, error) {
	est, err := s.Establishments.GetByID(establishmentID)
	if err != nil {
		return nil, err
	}
	if !est.Active {
		return nil, &ValidationError{Message: "establishment is not active"}
	}
	if in.PayNow && !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, &ValidationError{Message: "invalid payment method: " + in.PaymentMethod}
	}
	return s.create(est, actorID, in)
}

// CreatePublic handles unauthenticated customer orders placed through the
// public menu. The establishment is resolved by slug and must be active with
// online ordering enabled; otherwise the tenant is reported as not found,
// regardless of the item payload.
func (s *OrderService) CreatePublic(slug string, in CreateOrderInput) (*models.Order, error) {
	est, err := s.Establishments.GetActiveBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !est.OnlineOrdering {
		return nil, &NotFoundError{Entity: "establishment"}
	}
	in.PayNow = false
	in.PaymentMethod = ""
	return s.create(est, nil, in)
}

// create is the shared settlement path: resolve products, snapshot prices,
// then write order + items + optional payment + optional kitchen ticket in
// one transaction. All validation happens before the transaction opens.
func (s *OrderService) create(est *models.Establishment, actorID *uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "order must have at least one item"}
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Message: "item quantity must be positive"}
		}
	}

	distinct := make([]uint, 0, len(in.Items))
	seen := make(map[uint]bool, len(in.Items))
	for _, it := range in.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			distinct = append(distinct, it.ProductID)
		}
	}

	products, err := s.Products.FindActiveByIDs(est.ID, distinct)
	if err != nil {
		return nil, err
	}
	// Every requested product must resolve active and in-tenant, or the whole
	// order is rejected. No partial orders.
	if len(products) != len(distinct) {
		return nil, &ValidationError{Message: "one or more products not found or inactive"}
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var totalCents int64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p := byID[it.ProductID]
		totalCents += p.PriceCents * int64(it.Quantity)
		items = append(items, models.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
			Note:           it.Note,
		})
	}

	order := models.Order{
		EstablishmentID: est.ID,
		Code:            newOrderCode(),
		CustomerName:    trimmedName(in.CustomerName),
		Status:          models.OrderStatusOpen,
		PaymentStatus:   models.PaymentStatusUnpaid,
		TotalCents:      totalCents,
		CreatedByID:     actorID,
	}

	var ticket *models.KitchenTicket
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if in.PayNow {
			now := time.Now()
			order.PaidCents = totalCents
			order.PaymentStatus = models.DerivePaymentStatus(totalCents, totalCents)
			order.ClosedAt = &now
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if in.PayNow {
			payment := models.Payment{
				OrderID:      order.ID,
				Method:       in.PaymentMethod,
				AmountCents:  totalCents,
				ReceivedByID: actorID,
				ReceivedAt:   time.Now(),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}

		if est.HasKitchen {
			number, err := nextTicketNumber(tx, est.ID)
			if err != nil {
				return err
			}
			ticket = &models.KitchenTicket{
				OrderID:         order.ID,
				EstablishmentID: est.ID,
				TicketNumber:    number,
				Status:          models.TicketStatusQueue,
			}
			if err := tx.Create(ticket).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(est.ID, actorID, "order.created", "order", order.ID, map[string]interface{}{
		"code":           order.Code,
		"total_cents":    order.TotalCents,
		"item_count":     len(items),
		"payment_status": order.PaymentStatus,
	})
	s.Hub.Publish(est.ID, realtime.EventOrderCreated, map[string]interface{}{
		"order_id":    order.ID,
		"code":        order.Code,
		"total_cents": order.TotalCents,
	})
	if ticket != nil {
		s.Hub.Publish(est.ID, realtime.EventTicketCreated, map[string]interface{}{
			"ticket_id":     ticket.ID,
			"ticket_number": ticket.TicketNumber,
			"order_id":      order.ID,
			"status":        ticket.Status,
		})
	}

	return s.GetByID(est.ID, order.ID)
}

// ApplyPayment appends an immutable payment to the order's ledger and
// recomputes the derived payment status. When amount is nil the payment
// settles the full order total, not the remaining balance.
//
// The order row update is guarded on the previously read paid amount, so two
// concurrent payments on the same order cannot silently lose an update; the
// loser gets a ConflictError and should retry.
func (s *OrderService) ApplyPayment(establishmentID, orderID uint, method string, amount *int64, receivedBy *uint) (*models.Order, error) {
	order, err := s.getScoped(establishmentID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, &ValidationError{Message: "order already paid"}
	}
	if order.Status == models.OrderStatusCanceled {
		return nil, &ValidationError{Message: "cannot apply payment to a canceled order"}
	}
	if !models.ValidPaymentMethod(method) {
		return nil, &ValidationError{Message: "invalid payment method: " + method}
	}

	amt := order.TotalCents
	if amount != nil {
		amt = *amount
	}
	if amt <= 0 {
		return nil, &ValidationError{Message: "payment amount must be positive"}
	}

	newPaid := order.PaidCents + amt
	newStatus := models.DerivePaymentStatus(newPaid, order.TotalCents)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		payment := models.Payment{
			OrderID:      order.ID,
			Method:       method,
			AmountCents:  amt,
			ReceivedByID: receivedBy,
			ReceivedAt:   time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"paid_cents":     newPaid,
			"payment_status": newStatus,
		}
		if newStatus == models.PaymentStatusPaid {
			updates["closed_at"] = time.Now()
		}
		// Compare-and-swap on the paid amount read above. Zero rows affected
		// means a concurrent payment landed first; abort so the ledger and
		// the accumulated amount stay reconciled.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND paid_cents = ?", order.ID, order.PaidCents).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Message: "order was modified concurrently, retry the payment"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(establishmentID, receivedBy, "order.payment_applied", "order", order.ID, map[string]interface{}{
		"method":         method,
		"amount_cents":   amt,
		"paid_cents":     newPaid,
		"payment_status": newStatus,
	})
	if newStatus == models.PaymentStatusPaid {
		s.Hub.Publish(establishmentID, realtime.EventOrderPaid, map[string]interface{}{
			"order_id":    order.ID,
			"code":        order.Code,
			"total_cents": order.TotalCents,
		})
	}

	return s.GetByID(establishmentID, orderID)
}

// UpdateStatus sets the order lifecycle status. Any of the known statuses is
// accepted from any other; unlike kitchen tickets there is no adjacency
// table on this axis. ClosedAt is stamped when closing and cleared when
// reopening or canceling.
func (s *OrderService) UpdateStatus(establishmentID, orderID uint, status string, actorID *uint) (*models.Order, error) {
	if status != models.OrderStatusOpen && status != models.OrderStatusClosed && status != models.OrderStatusCanceled {
		return nil, &ValidationError{Message: "invalid order status: " + status}
	}
	order, err := s.getScoped(establishmentID, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusClosed {
		updates["closed_at"] = time.Now()
	} else {
		updates["closed_at"] = nil
	}
	if err := s.DB.Model(order).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(establishmentID, actorID, "order.status_updated", "order", order.ID, map[string]interface{}{
		"from": previous,
		"to":   status,
	})

	return s.GetByID(establishmentID, orderID)
}

// GetByID returns the fully hydrated order (items, payments, ticket) scoped
// to the establishment.
func (s *OrderService) GetByID(establishmentID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("Payments").Preload("Ticket").Preload("CreatedBy").
		Where("id = ? AND establishment_id = ?", orderID, establishmentID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "order", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders matching the filter, newest first.
func (s *OrderService) List(establishmentID uint, f OrderListFilter) ([]models.Order, error) {
	q := s.DB.Preload("Items").Where("establishment_id = ?", establishmentID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("code LIKE ? OR customer_name LIKE ?", like, like)
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var orders []models.Order
	err := q.Order("id DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (s *OrderService) getScoped(establishmentID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Where("id = ? AND establishment_id = ?", orderID, establishmentID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "order", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// newOrderCode produces a short human-readable order code.
func newOrderCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func trimmedName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
