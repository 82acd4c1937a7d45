package handler

import (
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// List returns the ward overview, optionally filtered by ?search=
func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to fetch patients")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	patient, err := h.patientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch patient")
		return
	}
	utils.SuccessResponse(c, patient)
}

// Active lists the non-archived devices, medications and exams
func (h *PatientHandler) Active(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	active, err := h.patientService.Active(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch active records")
		return
	}
	utils.SuccessResponse(c, active)
}
