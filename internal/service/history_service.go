package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

// HistoryService assembles the chronological view of a patient and the printable report.
type HistoryService struct {
	patientRepo *repository.PatientRepository
	taskRepo    *repository.TaskRepository
	clock       clinical.Clock
	loc         *time.Location
}

func NewHistoryService(
	patientRepo *repository.PatientRepository,
	taskRepo *repository.TaskRepository,
	clock clinical.Clock,
	loc *time.Location,
) *HistoryService {
	return &HistoryService{patientRepo: patientRepo, taskRepo: taskRepo, clock: clock, loc: loc}
}

type Report struct {
	Patient      models.Patient           `json:"patient"`
	Active       ActiveRecords            `json:"active"`
	Surgeries    []models.Surgery         `json:"surgeries"`
	CapdScales   []models.CapdScale       `json:"capd_scales"`
	LatestCapd   *CapdRecord              `json:"latest_capd"`
	ActiveAlerts []models.Task            `json:"active_alerts"`
	Timeline     []clinical.TimelineGroup `json:"timeline"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

func (s *HistoryService) Timeline(ctx context.Context, patientID uint) ([]clinical.TimelineGroup, error) {
	patient, alerts, err := s.load(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return clinical.BuildTimeline(*patient, alerts, s.loc)
}

func (s *HistoryService) Report(ctx context.Context, patientID uint) (*Report, error) {
	patient, alerts, err := s.load(ctx, patientID)
	if err != nil {
		return nil, err
	}
	timeline, err := clinical.BuildTimeline(*patient, alerts, s.loc)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Patient:      *patient,
		Active:       ActiveRecordsOf(*patient),
		Surgeries:    patient.Surgeries,
		CapdScales:   patient.CapdScales,
		ActiveAlerts: alerts,
		Timeline:     timeline,
		GeneratedAt:  s.clock.Now().In(s.loc),
	}
	if latest, ok := clinical.LatestCapd(patient.CapdScales); ok {
		result, err := clinical.InterpretCapd(latest.Score)
		if err != nil {
			return nil, err
		}
		report.LatestCapd = &CapdRecord{Scale: latest, Result: result}
	}
	return report, nil
}

// RenderReportHTML renders the report as a standalone printable page
func (s *HistoryService) RenderReportHTML(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, reportView{Report: report, loc: s.loc}); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *HistoryService) load(ctx context.Context, patientID uint) (*models.Patient, []models.Task, error) {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	alerts, err := s.taskRepo.List(ctx, repository.TaskFilter{PatientID: patientID, Status: models.TaskStatusAlert})
	if err != nil {
		return nil, nil, err
	}
	return patient, alerts, nil
}
