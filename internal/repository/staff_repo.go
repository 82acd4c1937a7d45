package repository

import (
	"context"
	"errors"
	"fmt"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// UpsertByName returns the profile with this name, creating it from defaults on first login
func (r *StaffRepository) UpsertByName(ctx context.Context, name string, defaults models.Staff) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where(models.Staff{Name: name}).
		Attrs(defaults).
		FirstOrCreate(&staff).Error; err != nil {
		return nil, fmt.Errorf("upsert staff: %w", err)
	}
	return &staff, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("staff", id)
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &staff, nil
}

// NameTaken reports whether another profile already uses name
func (r *StaffRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check staff name: %w", err)
	}
	return count > 0, nil
}

func (r *StaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Save(staff).Error; err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}
