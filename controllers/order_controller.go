package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// OrderController exposes the staff order operations: creation with optional
// immediate payment, listing, payment application and status updates.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrderRequest represents the request body for POST /orders
type CreateOrderRequest struct {
	Items         []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	CustomerName  *string                   `json:"customer_name"`
	PayNow        bool                      `json:"pay_now"`
	PaymentMethod string                    `json:"payment_method"`
}

// Create handles POST /api/v1/orders
func (ctl *OrderController) Create(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := ctl.Orders.Create(establishmentID, &userID, services.CreateOrderInput{
		Items:         req.Items,
		CustomerName:  req.CustomerName,
		PayNow:        req.PayNow,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// List handles GET /api/v1/orders
func (ctl *OrderController) List(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	filter := services.OrderListFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Search:        c.Query("search"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	orders, err := ctl.Orders.List(establishmentID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, orders)
}

// Get handles GET /api/v1/orders/:id
func (ctl *OrderController) Get(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctl.Orders.GetByID(establishmentID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// ApplyPaymentRequest represents the request body for POST /orders/:id/payments.
// Amount is optional; when omitted the payment settles the full order total.
type ApplyPaymentRequest struct {
	Method      string `json:"method" binding:"required"`
	AmountCents *int64 `json:"amount_cents"`
}

// ApplyPayment handles POST /api/v1/orders/:id/payments
func (ctl *OrderController) ApplyPayment(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := ctl.Orders.ApplyPayment(establishmentID, orderID, req.Method, req.AmountCents, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// UpdateStatusRequest represents the request body for PATCH /orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := ctl.Orders.UpdateStatus(establishmentID, orderID, req.Status, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
