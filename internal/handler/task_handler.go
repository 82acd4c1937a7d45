package handler

import (
	"context"
	"net/http"
	"strconv"

	"ward-rounds/internal/middleware"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
	"ward-rounds/internal/service"
	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Sweeper runs one status re-derivation pass on demand
type Sweeper interface {
	RunOnce(ctx context.Context) (*service.SweepResult, error)
}

type TaskHandler struct {
	taskService *service.TaskService
	sweeper     Sweeper
}

func NewTaskHandler(taskService *service.TaskService, sweeper Sweeper) *TaskHandler {
	return &TaskHandler{taskService: taskService, sweeper: sweeper}
}

// CreateTaskRequest takes an RFC3339 deadline or a relative option such as "2 horas"
type CreateTaskRequest struct {
	CategoryID     uint   `json:"category_id" binding:"required"`
	Description    string `json:"description" binding:"required,max=500"`
	Responsible    string `json:"responsible" binding:"required,max=100"`
	Deadline       string `json:"deadline" binding:"required_without=DeadlineOption"`
	DeadlineOption string `json:"deadline_option" binding:"required_without=Deadline"`
}

type JustificationRequest struct {
	Justification string `json:"justification" binding:"required"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), service.CreateTaskInput{
		PatientID:      pid,
		CategoryID:     req.CategoryID,
		Description:    req.Description,
		Responsible:    req.Responsible,
		Deadline:       req.Deadline,
		DeadlineOption: req.DeadlineOption,
	}, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	utils.CreatedResponse(c, task)
}

func (h *TaskHandler) ListForPatient(c *gin.Context) {
	pid, ok := patientID(c)
	if !ok {
		return
	}
	h.list(c, repository.TaskFilter{PatientID: pid, Status: models.TaskStatus(c.Query("status"))})
}

// List accepts ?status= and ?patient_id= filters
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{Status: models.TaskStatus(c.Query("status"))}
	if raw := c.Query("patient_id"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid patient ID")
			return
		}
		filter.PatientID = uint(pid)
	}
	h.list(c, filter)
}

func (h *TaskHandler) list(c *gin.Context, filter repository.TaskFilter) {
	tasks, err := h.taskService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch tasks")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}
	utils.SuccessResponse(c, task)
}

func (h *TaskHandler) Justify(c *gin.Context) {
	id, ok := parseID(c, "id", "task")
	if !ok {
		return
	}
	var req JustificationRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Justify(c.Request.Context(), id, req.Justification, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to justify task")
		return
	}
	utils.SuccessResponse(c, task)
}

func (h *TaskHandler) MarkDone(c *gin.Context) {
	id, ok := parseID(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.MarkDone(c.Request.Context(), id, middleware.StaffIDPtr(c))
	if err != nil {
		respondError(c, err, "Failed to conclude task")
		return
	}
	utils.SuccessResponse(c, task)
}

func (h *TaskHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.taskService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	utils.SuccessResponse(c, dashboard)
}

// Sweep re-derives task statuses immediately instead of waiting for the scheduler
func (h *TaskHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to sweep tasks")
		return
	}
	utils.SuccessResponse(c, result)
}
