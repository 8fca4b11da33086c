package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	reportapp "github.com/phonestore/backend/internal/application/report"
	"github.com/phonestore/backend/internal/infrastructure/telemetry"
)

// ReportHandler serves the admin dashboard and revenue reports
type ReportHandler struct {
	BaseHandler
	reportService    *reportapp.ReportService
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, dashboardService *reportapp.DashboardService) *ReportHandler {
	return &ReportHandler{
		reportService:    reportService,
		dashboardService: dashboardService,
	}
}

// Dashboard godoc
// @Summary      Admin dashboard
// @Description  Entity counts, revenue, low-stock products, recent orders and pending claims
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Overview godoc
// @Summary      Revenue overview
// @Description  Revenue by month, best-selling products, top customers and orders per status. Cancelled orders are excluded from revenue.
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.OverviewResponse}
// @Security     BearerAuth
// @Router       /admin/reports/revenue [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	overview, err := h.reportService.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// Export godoc
// @Summary      Export revenue as a spreadsheet
// @Description  Both dates are inclusive and use yyyy-MM-dd. Without dates the last 30 days are exported.
// @Tags         admin-reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        startDate query string false "First day" format(date)
// @Param        endDate query string false "Last day" format(date)
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/revenue/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var req reportapp.ExportRequest
	if !h.bindQuery(c, &req) {
		return
	}

	var (
		file *reportapp.ExportFile
		err  error
	)
	telemetry.WithProfilingLabels(c.Request.Context(), telemetry.OperationLabels("report.export", nil), func(ctx context.Context) {
		file, err = h.reportService.Export(ctx, req)
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
