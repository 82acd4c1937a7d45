package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

type PatientService struct {
	patientRepo *repository.PatientRepository
	completions CompletionStore
	catalog     *clinical.Catalog
	clock       clinical.Clock
	loc         *time.Location
}

func NewPatientService(
	patientRepo *repository.PatientRepository,
	completions CompletionStore,
	catalog *clinical.Catalog,
	clock clinical.Clock,
	loc *time.Location,
) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		completions: completions,
		catalog:     catalog,
		clock:       clock,
		loc:         loc,
	}
}

// PatientSummary is one bed on the ward overview
type PatientSummary struct {
	ID                  uint    `json:"id"`
	Name                string  `json:"name"`
	BedNumber           int     `json:"bed_number"`
	MotherName          string  `json:"mother_name"`
	DateOfBirth         string  `json:"dob"`
	WardCode            string  `json:"ward_code"`
	CompletedCategories int     `json:"completed_categories"`
	TotalCategories     int     `json:"total_categories"`
	RoundProgress       float64 `json:"round_progress"`
	ActiveDevices       int     `json:"active_devices"`
	LatestCapdScore     *int    `json:"latest_capd_score,omitempty"`
}

// ActiveRecords holds the non-archived devices, medications and exams of a patient
type ActiveRecords struct {
	Devices     []models.Device     `json:"devices"`
	Medications []models.Medication `json:"medications"`
	Exams       []models.Exam       `json:"exams"`
}

// List returns the ward overview. search matches a name substring or a bed number, case-insensitively.
func (s *PatientService) List(ctx context.Context, search string) ([]PatientSummary, error) {
	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	day := clinical.DayKey(s.clock.Now(), s.loc)
	query := strings.ToLower(strings.TrimSpace(search))

	summaries := make([]PatientSummary, 0, len(patients))
	for _, p := range patients {
		if query != "" && !matchesSearch(p, query) {
			continue
		}

		done, err := s.completions.CompletedCategories(ctx, p.ID, day)
		if err != nil {
			return nil, err
		}

		summary := PatientSummary{
			ID:                  p.ID,
			Name:                p.Name,
			BedNumber:           p.BedNumber,
			MotherName:          p.MotherName,
			DateOfBirth:         p.DateOfBirth,
			WardCode:            p.WardCode,
			CompletedCategories: len(done),
			TotalCategories:     s.catalog.Len(),
			RoundProgress:       clinical.RoundProgress(len(done), s.catalog.Len()),
		}
		for _, d := range p.Devices {
			if d.InUse() {
				summary.ActiveDevices++
			}
		}
		if latest, ok := clinical.LatestCapd(p.CapdScales); ok {
			score := latest.Score
			summary.LatestCapdScore = &score
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

func (s *PatientService) Active(ctx context.Context, id uint) (*ActiveRecords, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := ActiveRecordsOf(*patient)
	return &active, nil
}

// ActiveRecordsOf filters out archived records. Removed devices and ended medications stay listed.
func ActiveRecordsOf(p models.Patient) ActiveRecords {
	active := ActiveRecords{
		Devices:     []models.Device{},
		Medications: []models.Medication{},
		Exams:       []models.Exam{},
	}
	for _, d := range p.Devices {
		if !d.IsArchived {
			active.Devices = append(active.Devices, d)
		}
	}
	for _, m := range p.Medications {
		if !m.IsArchived {
			active.Medications = append(active.Medications, m)
		}
	}
	for _, e := range p.Exams {
		if !e.IsArchived {
			active.Exams = append(active.Exams, e)
		}
	}
	return active
}

func matchesSearch(p models.Patient, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strconv.Itoa(p.BedNumber), query)
}
