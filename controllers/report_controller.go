package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

// ReportController exposes read-only sales aggregates.
type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// Sales handles GET /api/v1/reports/sales?from=...&to=...
// Defaults to the current local calendar day.
func (ctl *ReportController) Sales(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		from = v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		to = v
	}
	if !to.After(from) {
		respondErrorCode(c, 400, "VALIDATION_ERROR", "'to' must be after 'from'")
		return
	}

	summary, err := ctl.Reports.SalesSummary(establishmentID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}
