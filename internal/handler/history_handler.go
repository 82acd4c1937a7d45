package handler

import (
	"net/http"

	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Timeline returns the patient's events grouped by day, newest first
func (h *HistoryHandler) Timeline(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	groups, err := h.historyService.Timeline(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err, "Failed to build history")
		return
	}
	utils.SuccessResponse(c, gin.H{"groups": groups})
}

// Report returns the full patient report, as JSON or as a printable page with ?format=html
func (h *HistoryHandler) Report(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	report, err := h.historyService.Report(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err, "Failed to build report")
		return
	}

	if c.Query("format") != "html" {
		utils.SuccessResponse(c, report)
		return
	}

	page, err := h.historyService.RenderReportHTML(report)
	if err != nil {
		respondError(c, err, "Failed to render report")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
