package service

import (
	"context"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

type CapdService struct {
	patientRepo *repository.PatientRepository
	clock       clinical.Clock
	audit       Auditor
}

func NewCapdService(patientRepo *repository.PatientRepository, clock clinical.Clock, audit Auditor) *CapdService {
	return &CapdService{patientRepo: patientRepo, clock: clock, audit: audit}
}

// CapdRecord is a stored evaluation with its interpretation
type CapdRecord struct {
	Scale  models.CapdScale    `json:"scale"`
	Result clinical.CapdResult `json:"result"`
}

type CapdHistory struct {
	Scales []models.CapdScale `json:"scales"`
	Latest *CapdRecord        `json:"latest"`
}

func (s *CapdService) Items() []clinical.CapdItem {
	return clinical.CapdItems
}

// Evaluate scores items without storing anything
func (s *CapdService) Evaluate(items map[string]int) (clinical.CapdResult, error) {
	return clinical.EvaluateCapd(items)
}

// Record scores items and stores the evaluation at the current instant
func (s *CapdService) Record(ctx context.Context, patientID uint, items map[string]int, staffID *uint) (*CapdRecord, error) {
	scale, result, err := clinical.NewCapdScale(patientID, items, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	scale.EvaluatedBy = staffID
	if err := s.patientRepo.CreateCapdScale(ctx, &scale); err != nil {
		return nil, err
	}

	s.audit.record(ctx, staffID, "capd_recorded", "CAP-D score %d recorded for patient %d", scale.Score, patientID)
	return &CapdRecord{Scale: scale, Result: result}, nil
}

// History lists every evaluation of a patient and interprets the latest one
func (s *CapdService) History(ctx context.Context, patientID uint) (*CapdHistory, error) {
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	scales, err := s.patientRepo.ListCapdScales(ctx, patientID)
	if err != nil {
		return nil, err
	}

	history := &CapdHistory{Scales: scales}
	if latest, ok := clinical.LatestCapd(scales); ok {
		result, err := clinical.InterpretCapd(latest.Score)
		if err != nil {
			return nil, err
		}
		history.Latest = &CapdRecord{Scale: latest, Result: result}
	}
	return history, nil
}

func (s *CapdService) Latest(ctx context.Context, patientID uint) (*CapdRecord, error) {
	history, err := s.History(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if history.Latest == nil {
		return nil, &apperr.NotFoundError{Resource: "capd scale for patient", ID: patientID}
	}
	return history.Latest, nil
}
