package handler

import (
	"net/http"
	"strconv"

	"ward-rounds/internal/repository"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	reference *service.ReferenceData
	auditRepo *repository.AuditRepository
}

func NewReferenceHandler(reference *service.ReferenceData, auditRepo *repository.AuditRepository) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, auditRepo: auditRepo}
}

func (h *ReferenceHandler) Reference(c *gin.Context) {
	utils.SuccessResponse(c, h.reference)
}

// AuditLogs lists the newest audit entries, ?limit= defaults to 100
func (h *ReferenceHandler) AuditLogs(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	logs, err := h.auditRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to fetch audit logs")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
