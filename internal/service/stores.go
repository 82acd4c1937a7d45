package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/repository"
)

// CompletionStore records which checklist categories were completed for a patient on a calendar day.
// Days are YYYY-MM-DD keys, so each new day starts empty.
type CompletionStore interface {
	CompletedCategories(ctx context.Context, patientID uint, day string) ([]uint, error)
	MarkCompleted(ctx context.Context, patientID uint, day string, categoryID uint) error
}

var (
	_ CompletionStore = (*repository.ChecklistRepository)(nil)
	_ CompletionStore = (*repository.MemoryCompletionStore)(nil)
)

// Auditor writes audit entries without failing the caller's operation
type Auditor struct {
	repo   *repository.AuditRepository
	logger zerolog.Logger
}

func NewAuditor(repo *repository.AuditRepository, logger zerolog.Logger) Auditor {
	return Auditor{repo: repo, logger: logger}
}

func (a Auditor) record(ctx context.Context, staffID *uint, action, format string, args ...any) {
	if a.repo == nil {
		return
	}
	details := fmt.Sprintf(format, args...)
	if err := a.repo.CreateAuditLog(ctx, staffID, action, details); err != nil {
		a.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

func required(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperr.Validation(field, "is required")
	}
	return trimmed, nil
}
