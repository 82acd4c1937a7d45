package handler

import (
	"ward-rounds/internal/middleware"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CareRecordHandler struct {
	recordService *service.CareRecordService
}

func NewCareRecordHandler(recordService *service.CareRecordService) *CareRecordHandler {
	return &CareRecordHandler{recordService: recordService}
}

type DeviceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Location    string  `json:"location" binding:"required,max=100"`
	StartDate   string  `json:"start_date" binding:"required,ymd"`
	RemovalDate *string `json:"removal_date" binding:"omitempty,ymd"`
}

type MedicationRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Dosage    string  `json:"dosage" binding:"required,max=100"`
	StartDate string  `json:"start_date" binding:"required,ymd"`
	EndDate   *string `json:"end_date" binding:"omitempty,ymd"`
}

type ExamRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Date        string `json:"date" binding:"required,ymd"`
	Result      string `json:"result" binding:"omitempty,oneof=Pendente Normal Alterado"`
	Observation string `json:"observation"`
}

type ExamUpdateRequest struct {
	Date        string `json:"date" binding:"required,ymd"`
	Observation string `json:"observation"`
}

type SurgeryRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Surgeon string `json:"surgeon" binding:"required,max=100"`
	Date    string `json:"date" binding:"required,ymd"`
}

type RemovalRequest struct {
	RemovalDate string `json:"removal_date" binding:"required,ymd"`
}

type EndRequest struct {
	EndDate string `json:"end_date" binding:"required,ymd"`
}

func (r DeviceRequest) input() service.DeviceInput {
	return service.DeviceInput{Name: r.Name, Location: r.Location, StartDate: r.StartDate, RemovalDate: r.RemovalDate}
}

func (r MedicationRequest) input() service.MedicationInput {
	return service.MedicationInput{Name: r.Name, Dosage: r.Dosage, StartDate: r.StartDate, EndDate: r.EndDate}
}

func (r SurgeryRequest) input() service.SurgeryInput {
	return service.SurgeryInput{Name: r.Name, Surgeon: r.Surgeon, Date: r.Date}
}

func (h *CareRecordHandler) AddDevice(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req DeviceRequest
	if !bindJSON(c, &req) {
		return
	}

	device, err := h.recordService.AddDevice(c.Request.Context(), pid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to add device")
		return
	}
	utils.CreatedResponse(c, device)
}

func (h *CareRecordHandler) UpdateDevice(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req DeviceRequest
	if !bindJSON(c, &req) {
		return
	}

	device, err := h.recordService.UpdateDevice(c.Request.Context(), pid, rid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to update device")
		return
	}
	utils.SuccessResponse(c, device)
}

// SetDeviceRemoval records when a device was taken out
func (h *CareRecordHandler) SetDeviceRemoval(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req RemovalRequest
	if !bindJSON(c, &req) {
		return
	}

	device, err := h.recordService.SetDeviceRemoval(c.Request.Context(), pid, rid, req.RemovalDate, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to set removal date")
		return
	}
	utils.SuccessResponse(c, device)
}

func (h *CareRecordHandler) ArchiveDevice(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.recordService.ArchiveDevice(c.Request.Context(), pid, rid, middleware.StaffIDPtr(c)); err != nil {
		respondError(c, err, "Failed to archive device")
		return
	}
	utils.MessageResponse(c, "Device archived")
}

func (h *CareRecordHandler) AddMedication(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	medication, err := h.recordService.AddMedication(c.Request.Context(), pid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to add medication")
		return
	}
	utils.CreatedResponse(c, medication)
}

func (h *CareRecordHandler) UpdateMedication(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req MedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	medication, err := h.recordService.UpdateMedication(c.Request.Context(), pid, rid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to update medication")
		return
	}
	utils.SuccessResponse(c, medication)
}

func (h *CareRecordHandler) SetMedicationEnd(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req EndRequest
	if !bindJSON(c, &req) {
		return
	}

	medication, err := h.recordService.SetMedicationEnd(c.Request.Context(), pid, rid, req.EndDate, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to set end date")
		return
	}
	utils.SuccessResponse(c, medication)
}

func (h *CareRecordHandler) ArchiveMedication(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.recordService.ArchiveMedication(c.Request.Context(), pid, rid, middleware.StaffIDPtr(c)); err != nil {
		respondError(c, err, "Failed to archive medication")
		return
	}
	utils.MessageResponse(c, "Medication archived")
}

func (h *CareRecordHandler) AddExam(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req ExamRequest
	if !bindJSON(c, &req) {
		return
	}

	exam, err := h.recordService.AddExam(c.Request.Context(), pid, service.ExamInput{
		Name:        req.Name,
		Date:        req.Date,
		Result:      req.Result,
		Observation: req.Observation,
	}, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to add exam")
		return
	}
	utils.CreatedResponse(c, exam)
}

// UpdateExam changes only the date and observation; the result is fixed at creation
func (h *CareRecordHandler) UpdateExam(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req ExamUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	exam, err := h.recordService.UpdateExam(c.Request.Context(), pid, rid, service.ExamUpdate{
		Date:        req.Date,
		Observation: req.Observation,
	}, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to update exam")
		return
	}
	utils.SuccessResponse(c, exam)
}

func (h *CareRecordHandler) ArchiveExam(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.recordService.ArchiveExam(c.Request.Context(), pid, rid, middleware.StaffIDPtr(c)); err != nil {
		respondError(c, err, "Failed to archive exam")
		return
	}
	utils.MessageResponse(c, "Exam archived")
}

func (h *CareRecordHandler) AddSurgery(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req SurgeryRequest
	if !bindJSON(c, &req) {
		return
	}

	surgery, err := h.recordService.AddSurgery(c.Request.Context(), pid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to add surgery")
		return
	}
	utils.CreatedResponse(c, surgery)
}

func (h *CareRecordHandler) UpdateSurgery(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var req SurgeryRequest
	if !bindJSON(c, &req) {
		return
	}

	surgery, err := h.recordService.UpdateSurgery(c.Request.Context(), pid, rid, req.input(), middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to update surgery")
		return
	}
	utils.SuccessResponse(c, surgery)
}
