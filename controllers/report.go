// controllers/report.go
package controllers

import (
	"net/http"

	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct {
	reports *services.ReportService
	resp    *utils.ErrorResponder
}

func NewReportController(reports *services.ReportService, resp *utils.ErrorResponder) *ReportController {
	return &ReportController{reports: reports, resp: resp}
}

// GetSalesSummary returns the complete dashboard summary
func (rc *ReportController) GetSalesSummary(c *gin.Context) {
	summary, err := rc.reports.SalesSummary(c.Request.Context())
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", summary)
}
