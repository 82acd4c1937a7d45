package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows List. Zero values match everything.
type TaskFilter struct {
	Status    models.TaskStatus
	PatientID uint
}

// CategoryCount is the number of tasks in one category
type CategoryCount struct {
	CategoryID uint  `json:"category_id"`
	Count      int64 `json:"count"`
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateBatch inserts tasks in one statement, used when seeding
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tasks).Error; err != nil {
		return fmt.Errorf("create tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task", id)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// List retrieves tasks ordered by deadline, soonest first
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}

	var tasks []models.Task
	if err := query.Order("deadline ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListOpen retrieves every task that is not concluido
func (r *TaskRepository) ListOpen(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Where("status <> ?", models.TaskStatusDone).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}
	return tasks, nil
}

// ApplyEvaluation persists a derived status unless the task was concluded in the meantime.
// It reports whether the row was updated.
func (r *TaskRepository) ApplyEvaluation(ctx context.Context, task models.Task) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status <> ?", task.ID, models.TaskStatusDone).
		Updates(map[string]interface{}{
			"status":        task.Status,
			"overdue_since": task.OverdueSince,
		})
	if result.Error != nil {
		return false, fmt.Errorf("apply task status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *TaskRepository) SetJustification(ctx context.Context, id uint, justification string) error {
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("justification", justification).Error; err != nil {
		return fmt.Errorf("set justification: %w", err)
	}
	return nil
}

// MarkDone moves a task to concluido. It is terminal, so a second call keeps the first timestamp.
func (r *TaskRepository) MarkDone(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status <> ?", id, models.TaskStatusDone).
		Updates(map[string]interface{}{
			"status":       models.TaskStatusDone,
			"completed_at": at,
		}).Error; err != nil {
		return fmt.Errorf("mark task done: %w", err)
	}
	return nil
}

// CountByStatus returns the number of tasks per status
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByCategory counts tasks in the given status grouped by category, largest first
func (r *TaskRepository) CountByCategory(ctx context.Context, status models.TaskStatus) ([]CategoryCount, error) {
	var rows []CategoryCount
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("category_id, COUNT(*) AS count").
		Where("status = ?", status).
		Group("category_id").
		Order("count DESC, category_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks by category: %w", err)
	}
	return rows, nil
}
