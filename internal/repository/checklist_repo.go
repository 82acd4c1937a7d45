package repository

import (
	"context"
	"fmt"

	"ward-rounds/internal/models"

	"gorm.io/gorm"
)

// ChecklistRepository stores which categories were completed per patient and day,
// and the answers given in each round.
type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepo(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) CompletedCategories(ctx context.Context, patientID uint, day string) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.ChecklistCompletion{}).
		Where("patient_id = ? AND day = ?", patientID, day).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list completed categories: %w", err)
	}
	return ids, nil
}

// MarkCompleted is idempotent: completing a category twice on the same day keeps one row
func (r *ChecklistRepository) MarkCompleted(ctx context.Context, patientID uint, day string, categoryID uint) error {
	completion := models.ChecklistCompletion{}
	if err := r.db.WithContext(ctx).
		Where(models.ChecklistCompletion{PatientID: patientID, Day: day, CategoryID: categoryID}).
		FirstOrCreate(&completion).Error; err != nil {
		return fmt.Errorf("mark category completed: %w", err)
	}
	return nil
}

// RecordAnswers replaces the answers of one round (patient, day, category)
func (r *ChecklistRepository) RecordAnswers(ctx context.Context, answers []models.ChecklistAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	first := answers[0]
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ? AND day = ? AND category_id = ?", first.PatientID, first.Day, first.CategoryID).
			Delete(&models.ChecklistAnswer{}).Error; err != nil {
			return fmt.Errorf("clear previous answers: %w", err)
		}
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("record answers: %w", err)
		}
		return nil
	})
}

// ListAnswers returns the answers of one round ordered by question
func (r *ChecklistRepository) ListAnswers(ctx context.Context, patientID uint, day string, categoryID uint) ([]models.ChecklistAnswer, error) {
	var answers []models.ChecklistAnswer
	if err := r.db.WithContext(ctx).
		Where("patient_id = ? AND day = ? AND category_id = ?", patientID, day, categoryID).
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}
