package handler

import (
	"ward-rounds/internal/middleware"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	roundService *service.RoundService
}

func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// RoundRequest maps question IDs to answers
type RoundRequest struct {
	Answers map[uint]string `json:"answers" binding:"required,dive,answer"`
}

func (h *RoundHandler) Overview(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}

	overview, err := h.roundService.Overview(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err, "Failed to fetch round")
		return
	}
	utils.SuccessResponse(c, overview)
}

func (h *RoundHandler) Questions(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	cid, ok := parseID(c, "categoryId", "category")
	if !ok {
		return
	}

	questions, err := h.roundService.Questions(c.Request.Context(), pid, cid)
	if err != nil {
		respondError(c, err, "Failed to fetch questions")
		return
	}
	utils.SuccessResponse(c, questions)
}

func (h *RoundHandler) Submit(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	cid, ok := parseID(c, "categoryId", "category")
	if !ok {
		return
	}
	var req RoundRequest
	if !bindJSON(c, &req) {
		return
	}

	overview, err := h.roundService.Submit(c.Request.Context(), pid, cid, req.Answers, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to submit round")
		return
	}
	utils.SuccessResponse(c, overview)
}
