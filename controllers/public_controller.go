package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// PublicController serves the unauthenticated customer-facing menu and
// ordering flow, addressed by establishment slug.
type PublicController struct {
	Orders         *services.OrderService
	Products       *services.ProductService
	Establishments *services.EstablishmentService
}

func NewPublicController(orders *services.OrderService, products *services.ProductService, establishments *services.EstablishmentService) *PublicController {
	return &PublicController{Orders: orders, Products: products, Establishments: establishments}
}

// Menu handles GET /api/v1/public/:slug/menu
func (ctl *PublicController) Menu(c *gin.Context) {
	est, err := ctl.Establishments.GetActiveBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := ctl.Products.List(est.ID, c.Query("category"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"establishment": gin.H{
			"name":            est.Name,
			"slug":            est.Slug,
			"online_ordering": est.OnlineOrdering,
		},
		"products": products,
	})
}

// PublicOrderRequest represents the request body for public order creation.
type PublicOrderRequest struct {
	Items        []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	CustomerName *string                   `json:"customer_name"`
}

// CreateOrder handles POST /api/v1/public/:slug/orders
func (ctl *PublicController) CreateOrder(c *gin.Context) {
	var req PublicOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := ctl.Orders.CreatePublic(c.Param("slug"), services.CreateOrderInput{
		Items:        req.Items,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// GetOrder handles GET /api/v1/public/:slug/orders/:id - customers track
// their order without authentication, scoped by the tenant slug.
func (ctl *PublicController) GetOrder(c *gin.Context) {
	est, err := ctl.Establishments.GetActiveBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := ctl.Orders.GetByID(est.ID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
