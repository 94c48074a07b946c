package handlers

import (
	"tabitha-home/internal/core/services"
	"tabitha-home/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles aggregate report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns the landing-page summary
// @Summary Dashboard summary
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.reportService.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard", dashboard)
}

// Demographics returns the demographic breakdown of active children
// @Summary Demographics report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/demographics [get]
func (h *ReportHandler) Demographics(c *fiber.Ctx) error {
	demographics, err := h.reportService.Demographics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build demographics report")
	}

	return response.Success(c, "Demographics report", demographics)
}

// Health returns health indicators for active children
// @Summary Health report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/health [get]
func (h *ReportHandler) Health(c *fiber.Ctx) error {
	report, err := h.reportService.Health(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build health report")
	}

	return response.Success(c, "Health report", report)
}
