package handler

import (
	"ward-rounds/internal/middleware"
	"ward-rounds/internal/models"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Name string `json:"name" binding:"max=100"`
}

type ProfileRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Role       string `json:"role" binding:"max=100"`
	Department string `json:"department" binding:"max=100"`
	AvatarURL  string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// ThemeRequest with an empty theme toggles the current one
type ThemeRequest struct {
	Theme models.Theme `json:"theme" binding:"omitempty,oneof=light dark"`
}

// Login opens a staff session. An empty body logs in as the default on-call profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	utils.SuccessResponse(c, response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	staffID, _ := middleware.StaffID(c)

	staff, err := h.authService.Profile(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}
	utils.SuccessResponse(c, staff)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	staffID, _ := middleware.StaffID(c)
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.authService.UpdateProfile(c.Request.Context(), staffID, service.ProfileInput{
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	utils.SuccessResponse(c, staff)
}

func (h *AuthHandler) SetTheme(c *gin.Context) {
	staffID, _ := middleware.StaffID(c)
	var req ThemeRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	staff, err := h.authService.SetTheme(c.Request.Context(), staffID, req.Theme)
	if err != nil {
		respondError(c, err, "Failed to update theme")
		return
	}
	utils.SuccessResponse(c, staff)
}
