package services

import (
	"time"

	"github.com/tallesnicacio/a-pay-sub001/models"
	"gorm.io/gorm"
)

// ReportService produces read-only sales aggregates per establishment.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// MethodTotal is revenue collected through one payment method.
type MethodTotal struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
	Count       int64  `json:"count"`
}

// TopProduct is a product ranked by quantity sold.
type TopProduct struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// SalesSummary is the sales report for one period.
type SalesSummary struct {
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	OrderCount    int64         `json:"order_count"`
	RevenueCents  int64         `json:"revenue_cents"` // sum of payments received in the period
	OpenCents     int64         `json:"open_cents"`    // outstanding balance of unpaid/partial orders
	ByMethod      []MethodTotal `json:"by_method"`
	TopProducts   []TopProduct  `json:"top_products"`
	CanceledCount int64         `json:"canceled_count"`
}

// SalesSummary aggregates orders and payments between from (inclusive) and
// to (exclusive).
func (s *ReportService) SalesSummary(establishmentID uint, from, to time.Time) (*SalesSummary, error) {
	out := &SalesSummary{From: from, To: to}

	base := s.DB.Model(&models.Order{}).
		Where("establishment_id = ? AND created_at >= ? AND created_at < ?", establishmentID, from, to)

	if err := base.Session(&gorm.Session{}).Count(&out.OrderCount).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.OrderStatusCanceled).
		Count(&out.CanceledCount).Error; err != nil {
		return nil, err
	}

	var open struct{ Total int64 }
	err := base.Session(&gorm.Session{}).
		Where("status <> ? AND payment_status <> ?", models.OrderStatusCanceled, models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_cents - paid_cents), 0) AS total").
		Scan(&open).Error
	if err != nil {
		return nil, err
	}
	out.OpenCents = open.Total

	err = s.DB.Model(&models.Payment{}).
		Select("payments.method, COALESCE(SUM(payments.amount_cents), 0) AS amount_cents, COUNT(*) AS count").
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.establishment_id = ? AND payments.received_at >= ? AND payments.received_at < ?", establishmentID, from, to).
		Group("payments.method").
		Scan(&out.ByMethod).Error
	if err != nil {
		return nil, err
	}
	for _, m := range out.ByMethod {
		out.RevenueCents += m.AmountCents
	}

	err = s.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, COALESCE(SUM(order_items.quantity), 0) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.establishment_id = ? AND orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?",
			establishmentID, from, to, models.OrderStatusCanceled).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC").
		Limit(10).
		Scan(&out.TopProducts).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}
