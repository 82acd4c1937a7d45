package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/fixtures"
	"ward-rounds/internal/repository"
)

// SeedService loads the demo ward into an empty database.
type SeedService struct {
	patientRepo *repository.PatientRepository
	taskRepo    *repository.TaskRepository
	seed        *fixtures.Seed
	clock       clinical.Clock
	logger      zerolog.Logger
}

func NewSeedService(
	patientRepo *repository.PatientRepository,
	taskRepo *repository.TaskRepository,
	seed *fixtures.Seed,
	clock clinical.Clock,
	logger zerolog.Logger,
) *SeedService {
	return &SeedService{patientRepo: patientRepo, taskRepo: taskRepo, seed: seed, clock: clock, logger: logger}
}

// SeedIfEmpty inserts fixture patients and tasks unless patients already exist.
// It reports whether anything was written.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.patientRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.Debug().Int64("patients", count).Msg("database already seeded")
		return false, nil
	}

	patients, err := s.seed.BuildPatients()
	if err != nil {
		return false, err
	}
	for i := range patients {
		if err := s.patientRepo.Create(ctx, &patients[i]); err != nil {
			return false, fmt.Errorf("seed patient %s: %w", patients[i].Name, err)
		}
	}

	tasks, err := s.seed.BuildTasks(s.clock.Now())
	if err != nil {
		return false, err
	}
	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return false, err
	}

	s.logger.Info().Int("patients", len(patients)).Int("tasks", len(tasks)).Msg("seeded ward fixtures")
	return true, nil
}
