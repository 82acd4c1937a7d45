package handler

import (
	"ward-rounds/internal/middleware"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CapdHandler struct {
	capdService *service.CapdService
}

func NewCapdHandler(capdService *service.CapdService) *CapdHandler {
	return &CapdHandler{capdService: capdService}
}

// CapdRequest maps item codes to their 0-4 scores
type CapdRequest struct {
	Items map[string]int `json:"items" binding:"required,dive,keys,capd_item,endkeys,min=0,max=4"`
}

func (h *CapdHandler) Items(c *gin.Context) {
	utils.SuccessResponse(c, h.capdService.Items())
}

// Evaluate scores a questionnaire without storing it
func (h *CapdHandler) Evaluate(c *gin.Context) {
	var req CapdRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.capdService.Evaluate(req.Items)
	if err != nil {
		respondError(c, err, "Failed to evaluate CAP-D")
		return
	}
	utils.SuccessResponse(c, result)
}

func (h *CapdHandler) Record(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req CapdRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.capdService.Record(c.Request.Context(), pid, req.Items, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to record CAP-D")
		return
	}
	utils.CreatedResponse(c, record)
}

// History lists a patient's evaluations with the latest one interpreted
func (h *CapdHandler) History(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	history, err := h.capdService.History(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err, "Failed to fetch CAP-D history")
		return
	}
	utils.SuccessResponse(c, history)
}

func (h *CapdHandler) Latest(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	latest, err := h.capdService.Latest(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err, "Failed to fetch latest CAP-D")
		return
	}
	utils.SuccessResponse(c, latest)
}
