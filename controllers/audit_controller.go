package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// AuditController exposes the tenant audit trail.
type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

// List handles GET /api/v1/audit (admins only)
func (ctl *AuditController) List(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	limit := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}

	entries, err := ctl.Audit.List(establishmentID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entries)
}
