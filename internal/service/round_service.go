package service

import (
	"context"
	"time"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

// RoundService runs the per-category checklist of a patient and tracks today's completion.
type RoundService struct {
	patientRepo *repository.PatientRepository
	answers     *repository.ChecklistRepository
	completions CompletionStore
	catalog     *clinical.Catalog
	clock       clinical.Clock
	loc         *time.Location
	audit       Auditor
}

func NewRoundService(
	patientRepo *repository.PatientRepository,
	answers *repository.ChecklistRepository,
	completions CompletionStore,
	catalog *clinical.Catalog,
	clock clinical.Clock,
	loc *time.Location,
	audit Auditor,
) *RoundService {
	return &RoundService{
		patientRepo: patientRepo,
		answers:     answers,
		completions: completions,
		catalog:     catalog,
		clock:       clock,
		loc:         loc,
		audit:       audit,
	}
}

type CategoryStatus struct {
	models.Category
	QuestionCount int  `json:"question_count"`
	DoneToday     bool `json:"done_today"`
}

type RoundOverview struct {
	PatientID  uint             `json:"patient_id"`
	Day        string           `json:"day"`
	Categories []CategoryStatus `json:"categories"`
	Completed  int              `json:"completed"`
	Progress   float64          `json:"progress"`
}

type CategoryQuestions struct {
	Category  models.Category   `json:"category"`
	Questions []models.Question `json:"questions"`
	DoneToday bool              `json:"done_today"`
}

// Overview lists the categories of today's round for a patient
func (s *RoundService) Overview(ctx context.Context, patientID uint) (*RoundOverview, error) {
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	day := s.today()
	done, err := s.doneSet(ctx, patientID, day)
	if err != nil {
		return nil, err
	}

	overview := &RoundOverview{PatientID: patientID, Day: day}
	for _, cat := range s.catalog.Categories() {
		qs, _ := s.catalog.Questions(cat.ID)
		status := CategoryStatus{Category: cat, QuestionCount: len(qs), DoneToday: done[cat.ID]}
		if status.DoneToday {
			overview.Completed++
		}
		overview.Categories = append(overview.Categories, status)
	}
	overview.Progress = clinical.RoundProgress(overview.Completed, s.catalog.Len())
	return overview, nil
}

func (s *RoundService) Questions(ctx context.Context, patientID, categoryID uint) (*CategoryQuestions, error) {
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	cat, err := s.catalog.Category(categoryID)
	if err != nil {
		return nil, err
	}
	qs, err := s.catalog.Questions(categoryID)
	if err != nil {
		return nil, err
	}
	done, err := s.doneSet(ctx, patientID, s.today())
	if err != nil {
		return nil, err
	}
	return &CategoryQuestions{Category: cat, Questions: qs, DoneToday: done[categoryID]}, nil
}

// Submit validates a complete set of answers, stores them and marks the category done for today.
func (s *RoundService) Submit(ctx context.Context, patientID, categoryID uint, answers map[uint]string, staffID *uint) (*RoundOverview, error) {
	qs, err := s.catalog.Questions(categoryID)
	if err != nil {
		return nil, err
	}
	parsed, err := clinical.ValidateRound(qs, answers)
	if err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}

	day := s.today()
	if s.answers != nil {
		rows := make([]models.ChecklistAnswer, 0, len(qs))
		for _, q := range qs {
			rows = append(rows, models.ChecklistAnswer{
				PatientID:  patientID,
				Day:        day,
				CategoryID: categoryID,
				QuestionID: q.ID,
				Answer:     parsed[q.ID],
				AnsweredBy: staffID,
			})
		}
		if err := s.answers.RecordAnswers(ctx, rows); err != nil {
			return nil, err
		}
	}
	if err := s.completions.MarkCompleted(ctx, patientID, day, categoryID); err != nil {
		return nil, err
	}

	s.audit.record(ctx, staffID, "round_completed", "Category %d completed for patient %d on %s", categoryID, patientID, day)
	return s.Overview(ctx, patientID)
}

func (s *RoundService) today() string {
	return clinical.DayKey(s.clock.Now(), s.loc)
}

func (s *RoundService) doneSet(ctx context.Context, patientID uint, day string) (map[uint]bool, error) {
	ids, err := s.completions.CompletedCategories(ctx, patientID, day)
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}
