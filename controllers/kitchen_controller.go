package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// KitchenController exposes the kitchen ticket workflow.
type KitchenController struct {
	Kitchen *services.KitchenService
}

func NewKitchenController(kitchen *services.KitchenService) *KitchenController {
	return &KitchenController{Kitchen: kitchen}
}

// List handles GET /api/v1/kitchen/tickets
func (ctl *KitchenController) List(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	filter := services.TicketListFilter{Status: c.Query("status")}
	if since, err := time.Parse(time.RFC3339, c.Query("since")); err == nil {
		filter.Since = &since
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	tickets, err := ctl.Kitchen.List(establishmentID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tickets)
}

// Get handles GET /api/v1/kitchen/tickets/:id
func (ctl *KitchenController) Get(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ticket, err := ctl.Kitchen.GetByID(establishmentID, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// UpdateTicketStatusRequest represents the request body for
// PATCH /kitchen/tickets/:id/status
type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/kitchen/tickets/:id/status
func (ctl *KitchenController) UpdateStatus(c *gin.Context) {
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
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := ctl.Kitchen.UpdateStatus(establishmentID, ticketID, req.Status, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// Stats handles GET /api/v1/kitchen/stats
func (ctl *KitchenController) Stats(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	stats, err := ctl.Kitchen.Stats(establishmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
