package repository

import (
	"context"
	"errors"
	"fmt"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// withRecords preloads every child collection in a stable order
func withRecords(db *gorm.DB) *gorm.DB {
	byID := func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }
	return db.
		Preload("Devices", byID).
		Preload("Medications", byID).
		Preload("Exams", byID).
		Preload("Surgeries", byID).
		Preload("CapdScales", func(tx *gorm.DB) *gorm.DB { return tx.Order("evaluated_at ASC, id ASC") })
}

// List retrieves all patients with their records, ordered by bed
func (r *PatientRepository) List(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := withRecords(r.db.WithContext(ctx)).Order("bed_number ASC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// GetByID retrieves a patient with all records preloaded
func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := withRecords(r.db.WithContext(ctx)).First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient", id)
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &patient, nil
}

// Exists returns a NotFoundError when the patient is unknown
func (r *PatientRepository) Exists(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("patient", id)
	}
	return nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

// Create inserts a patient together with any child records it carries
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// Devices

func (r *PatientRepository) CreateDevice(ctx context.Context, device *models.Device) error {
	return createChild(ctx, r.db, "device", device)
}

func (r *PatientRepository) GetDevice(ctx context.Context, patientID, id uint) (*models.Device, error) {
	return findChild[models.Device](ctx, r.db, "device", patientID, id)
}

func (r *PatientRepository) UpdateDevice(ctx context.Context, device *models.Device) error {
	return saveChild(ctx, r.db, "device", device)
}

func (r *PatientRepository) ArchiveDevice(ctx context.Context, patientID, id uint) error {
	return archiveChild[models.Device](ctx, r.db, "device", patientID, id)
}

// Medications

func (r *PatientRepository) CreateMedication(ctx context.Context, medication *models.Medication) error {
	return createChild(ctx, r.db, "medication", medication)
}

func (r *PatientRepository) GetMedication(ctx context.Context, patientID, id uint) (*models.Medication, error) {
	return findChild[models.Medication](ctx, r.db, "medication", patientID, id)
}

func (r *PatientRepository) UpdateMedication(ctx context.Context, medication *models.Medication) error {
	return saveChild(ctx, r.db, "medication", medication)
}

func (r *PatientRepository) ArchiveMedication(ctx context.Context, patientID, id uint) error {
	return archiveChild[models.Medication](ctx, r.db, "medication", patientID, id)
}

// Exams

func (r *PatientRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	return createChild(ctx, r.db, "exam", exam)
}

func (r *PatientRepository) GetExam(ctx context.Context, patientID, id uint) (*models.Exam, error) {
	return findChild[models.Exam](ctx, r.db, "exam", patientID, id)
}

func (r *PatientRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	return saveChild(ctx, r.db, "exam", exam)
}

func (r *PatientRepository) ArchiveExam(ctx context.Context, patientID, id uint) error {
	return archiveChild[models.Exam](ctx, r.db, "exam", patientID, id)
}

// Surgeries

func (r *PatientRepository) CreateSurgery(ctx context.Context, surgery *models.Surgery) error {
	return createChild(ctx, r.db, "surgery", surgery)
}

func (r *PatientRepository) GetSurgery(ctx context.Context, patientID, id uint) (*models.Surgery, error) {
	return findChild[models.Surgery](ctx, r.db, "surgery", patientID, id)
}

func (r *PatientRepository) UpdateSurgery(ctx context.Context, surgery *models.Surgery) error {
	return saveChild(ctx, r.db, "surgery", surgery)
}

// CAP-D

func (r *PatientRepository) CreateCapdScale(ctx context.Context, scale *models.CapdScale) error {
	return createChild(ctx, r.db, "capd scale", scale)
}

func (r *PatientRepository) ListCapdScales(ctx context.Context, patientID uint) ([]models.CapdScale, error) {
	var scales []models.CapdScale
	if err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).
		Order("evaluated_at ASC, id ASC").
		Find(&scales).Error; err != nil {
		return nil, fmt.Errorf("list capd scales: %w", err)
	}
	return scales, nil
}

func createChild[T any](ctx context.Context, db *gorm.DB, resource string, record *T) error {
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create %s: %w", resource, err)
	}
	return nil
}

func saveChild[T any](ctx context.Context, db *gorm.DB, resource string, record *T) error {
	if err := db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	return nil
}

// findChild scopes the lookup to the owning patient so ids from other patients are not found
func findChild[T any](ctx context.Context, db *gorm.DB, resource string, patientID, id uint) (*T, error) {
	var record T
	err := db.WithContext(ctx).Where("id = ? AND patient_id = ?", id, patientID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(resource, id)
		}
		return nil, fmt.Errorf("get %s: %w", resource, err)
	}
	return &record, nil
}

func archiveChild[T any](ctx context.Context, db *gorm.DB, resource string, patientID, id uint) error {
	if _, err := findChild[T](ctx, db, resource, patientID, id); err != nil {
		return err
	}
	var record T
	if err := db.WithContext(ctx).Model(&record).
		Where("id = ? AND patient_id = ?", id, patientID).
		Update("is_archived", true).Error; err != nil {
		return fmt.Errorf("archive %s: %w", resource, err)
	}
	return nil
}
