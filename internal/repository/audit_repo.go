package repository

import (
	"context"

	"ward-rounds/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, staffID *uint, action string, details string) error {
	log := &models.AuditLog{
		StaffID: staffID,
		Action:  action,
		Details: details,
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListRecent returns the newest entries first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
