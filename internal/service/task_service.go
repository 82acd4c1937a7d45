package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

type TaskService struct {
	taskRepo     *repository.TaskRepository
	patientRepo  *repository.PatientRepository
	catalog      *clinical.Catalog
	clock        clinical.Clock
	triageWindow time.Duration
	audit        Auditor
	logger       zerolog.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	patientRepo *repository.PatientRepository,
	catalog *clinical.Catalog,
	clock clinical.Clock,
	triageWindow time.Duration,
	audit Auditor,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		patientRepo:  patientRepo,
		catalog:      catalog,
		clock:        clock,
		triageWindow: triageWindow,
		audit:        audit,
		logger:       logger.With().Str("component", "tasks").Logger(),
	}
}

// CreateTaskInput takes either an absolute Deadline (RFC3339) or a DeadlineOption such as "2 horas".
type CreateTaskInput struct {
	PatientID      uint
	CategoryID     uint
	Description    string
	Responsible    string
	Deadline       string
	DeadlineOption string
}

type CategoryAlerts struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Count        int64   `json:"count"`
	Percentage   float64 `json:"percentage"`
}

type Dashboard struct {
	Counts           map[models.TaskStatus]int64 `json:"counts"`
	Total            int64                       `json:"total"`
	AlertsByCategory []CategoryAlerts            `json:"alerts_by_category"`
}

// SweepResult summarises one status re-derivation pass
type SweepResult struct {
	Evaluated    int           `json:"evaluated"`
	Updated      int           `json:"updated"`
	Failed       int           `json:"failed"`
	NewlyOverdue []models.Task `json:"newly_overdue"`
}

// Create raises a new alert. Tasks always start in alerta, whatever the deadline.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, staffID *uint) (*models.Task, error) {
	description, err := required("description", in.Description)
	if err != nil {
		return nil, err
	}
	responsible, err := required("responsible", in.Responsible)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var deadline time.Time
	switch {
	case strings.TrimSpace(in.Deadline) != "":
		if deadline, err = clinical.ParseDeadline(in.Deadline); err != nil {
			return nil, err
		}
	case strings.TrimSpace(in.DeadlineOption) != "":
		offset, err := clinical.ParseDeadlineOption(in.DeadlineOption)
		if err != nil {
			return nil, err
		}
		deadline = now.Add(offset)
	default:
		return nil, apperr.Validation("deadline", "is required")
	}

	// stored timestamps compare as text in sqlite, so they share one offset
	deadline = deadline.UTC()

	if _, err := s.catalog.Category(in.CategoryID); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, in.PatientID); err != nil {
		return nil, err
	}

	task := &models.Task{
		PatientID:   in.PatientID,
		CategoryID:  in.CategoryID,
		Description: description,
		Responsible: responsible,
		Deadline:    deadline,
		Status:      models.TaskStatusAlert,
		CreatedBy:   staffID,
		CreatedAt:   now,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.audit.record(ctx, staffID, "task_created", "Created task %d for patient %d due %s", task.ID, task.PatientID, deadline.Format(time.RFC3339))
	return task, nil
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Validation("status", "unknown status %q", filter.Status)
	}
	return s.taskRepo.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// Justify attaches a reason to a task that is or was overdue
func (s *TaskService) Justify(ctx context.Context, id uint, text string, staffID *uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	justification, err := clinical.ValidateJustification(*task, text)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetJustification(ctx, id, justification); err != nil {
		return nil, err
	}
	task.Justification = &justification

	s.audit.record(ctx, staffID, "task_justified", "Justified overdue task %d", id)
	return task, nil
}

// MarkDone concludes a task. Repeating it on a concluded task is a no-op.
func (s *TaskService) MarkDone(ctx context.Context, id uint, staffID *uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskStatusDone {
		return task, nil
	}

	if err := s.taskRepo.MarkDone(ctx, id, s.clock.Now().UTC()); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "task_done", "Concluded task %d (was %s)", id, task.Status)
	return s.taskRepo.GetByID(ctx, id)
}

// Dashboard counts tasks per status and ranks categories by open alerts
func (s *TaskService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	dashboard := &Dashboard{Counts: make(map[models.TaskStatus]int64, len(models.TaskStatuses))}
	for _, status := range models.TaskStatuses {
		dashboard.Counts[status] = counts[status]
		dashboard.Total += counts[status]
	}

	byCategory, err := s.taskRepo.CountByCategory(ctx, models.TaskStatusAlert)
	if err != nil {
		return nil, err
	}
	dashboard.AlertsByCategory = make([]CategoryAlerts, 0, len(byCategory))
	var max int64
	for _, row := range byCategory {
		if row.Count > max {
			max = row.Count
		}
	}
	for _, row := range byCategory {
		entry := CategoryAlerts{CategoryID: row.CategoryID, Count: row.Count}
		if cat, err := s.catalog.Category(row.CategoryID); err == nil {
			entry.CategoryName = cat.Name
		}
		if max > 0 {
			entry.Percentage = float64(row.Count) / float64(max) * 100
		}
		dashboard.AlertsByCategory = append(dashboard.AlertsByCategory, entry)
	}
	return dashboard, nil
}

// Sweep re-derives the status of every open task that is due for evaluation.
// A task concluded while the sweep runs keeps concluido.
func (s *TaskService) Sweep(ctx context.Context) (*SweepResult, error) {
	tasks, err := s.taskRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := &SweepResult{NewlyOverdue: []models.Task{}}
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !clinical.DueForEvaluation(task, now, s.triageWindow) {
			continue
		}
		result.Evaluated++

		next := clinical.EvaluateTask(task, now)
		if next.Status == task.Status && sameInstant(next.OverdueSince, task.OverdueSince) {
			continue
		}

		applied, err := s.taskRepo.ApplyEvaluation(ctx, next)
		if err != nil {
			result.Failed++
			s.logger.Error().Err(err).Uint("task_id", task.ID).Msg("failed to apply task status")
			continue
		}
		if !applied {
			continue
		}

		result.Updated++
		s.logger.Debug().
			Uint("task_id", task.ID).
			Str("from", string(task.Status)).
			Str("to", string(next.Status)).
			Msg("task status derived")
		if next.Status == models.TaskStatusOverdue && task.Status != models.TaskStatusOverdue {
			result.NewlyOverdue = append(result.NewlyOverdue, next)
		}
	}
	return result, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
