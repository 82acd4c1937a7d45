package service

import (
	"context"
	"strings"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
	"ward-rounds/internal/repository"
)

// CareRecordService manages the devices, medications, exams and surgeries of a patient.
// Every input is validated before anything is written.
type CareRecordService struct {
	patientRepo *repository.PatientRepository
	audit       Auditor
}

func NewCareRecordService(patientRepo *repository.PatientRepository, audit Auditor) *CareRecordService {
	return &CareRecordService{patientRepo: patientRepo, audit: audit}
}

type DeviceInput struct {
	Name        string
	Location    string
	StartDate   string
	RemovalDate *string
}

type MedicationInput struct {
	Name      string
	Dosage    string
	StartDate string
	EndDate   *string
}

type ExamInput struct {
	Name        string
	Date        string
	Result      string
	Observation string
}

// ExamUpdate carries the only exam fields that may change after creation
type ExamUpdate struct {
	Date        string
	Observation string
}

type SurgeryInput struct {
	Name    string
	Surgeon string
	Date    string
}

// Devices

func (s *CareRecordService) AddDevice(ctx context.Context, patientID uint, in DeviceInput, staffID *uint) (*models.Device, error) {
	device := &models.Device{PatientID: patientID}
	if err := applyDevice(device, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.patientRepo.CreateDevice(ctx, device); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "device_added", "Added device %q (%d) to patient %d", device.Name, device.ID, patientID)
	return device, nil
}

func (s *CareRecordService) UpdateDevice(ctx context.Context, patientID, deviceID uint, in DeviceInput, staffID *uint) (*models.Device, error) {
	device, err := s.patientRepo.GetDevice(ctx, patientID, deviceID)
	if err != nil {
		return nil, err
	}
	if err := applyDevice(device, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.UpdateDevice(ctx, device); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "device_updated", "Updated device %d of patient %d", deviceID, patientID)
	return device, nil
}

func (s *CareRecordService) SetDeviceRemoval(ctx context.Context, patientID, deviceID uint, removalDate string, staffID *uint) (*models.Device, error) {
	device, err := s.patientRepo.GetDevice(ctx, patientID, deviceID)
	if err != nil {
		return nil, err
	}
	date, err := clinical.ValidateDate("removal_date", removalDate)
	if err != nil {
		return nil, err
	}
	if err := clinical.ValidateDateRange("removal_date", device.StartDate, date); err != nil {
		return nil, err
	}
	device.RemovalDate = &date
	if err := s.patientRepo.UpdateDevice(ctx, device); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "device_removed", "Device %d of patient %d removed on %s", deviceID, patientID, date)
	return device, nil
}

func (s *CareRecordService) ArchiveDevice(ctx context.Context, patientID, deviceID uint, staffID *uint) error {
	if err := s.patientRepo.ArchiveDevice(ctx, patientID, deviceID); err != nil {
		return err
	}
	s.audit.record(ctx, staffID, "device_archived", "Archived device %d of patient %d", deviceID, patientID)
	return nil
}

// Medications

func (s *CareRecordService) AddMedication(ctx context.Context, patientID uint, in MedicationInput, staffID *uint) (*models.Medication, error) {
	medication := &models.Medication{PatientID: patientID}
	if err := applyMedication(medication, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.patientRepo.CreateMedication(ctx, medication); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "medication_added", "Added medication %q (%d) to patient %d", medication.Name, medication.ID, patientID)
	return medication, nil
}

func (s *CareRecordService) UpdateMedication(ctx context.Context, patientID, medicationID uint, in MedicationInput, staffID *uint) (*models.Medication, error) {
	medication, err := s.patientRepo.GetMedication(ctx, patientID, medicationID)
	if err != nil {
		return nil, err
	}
	if err := applyMedication(medication, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.UpdateMedication(ctx, medication); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "medication_updated", "Updated medication %d of patient %d", medicationID, patientID)
	return medication, nil
}

func (s *CareRecordService) SetMedicationEnd(ctx context.Context, patientID, medicationID uint, endDate string, staffID *uint) (*models.Medication, error) {
	medication, err := s.patientRepo.GetMedication(ctx, patientID, medicationID)
	if err != nil {
		return nil, err
	}
	date, err := clinical.ValidateDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	if err := clinical.ValidateDateRange("end_date", medication.StartDate, date); err != nil {
		return nil, err
	}
	medication.EndDate = &date
	if err := s.patientRepo.UpdateMedication(ctx, medication); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "medication_ended", "Medication %d of patient %d ended on %s", medicationID, patientID, date)
	return medication, nil
}

func (s *CareRecordService) ArchiveMedication(ctx context.Context, patientID, medicationID uint, staffID *uint) error {
	if err := s.patientRepo.ArchiveMedication(ctx, patientID, medicationID); err != nil {
		return err
	}
	s.audit.record(ctx, staffID, "medication_archived", "Archived medication %d of patient %d", medicationID, patientID)
	return nil
}

// Exams

func (s *CareRecordService) AddExam(ctx context.Context, patientID uint, in ExamInput, staffID *uint) (*models.Exam, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	date, err := clinical.ValidateDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	result := models.ExamResult(strings.TrimSpace(in.Result))
	if result == "" {
		result = models.ExamResultPending
	}
	if !result.Valid() {
		return nil, apperr.Validation("result", "must be Pendente, Normal or Alterado, got %q", in.Result)
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		PatientID:   patientID,
		Name:        name,
		Date:        date,
		Result:      result,
		Observation: strings.TrimSpace(in.Observation),
	}
	if err := s.patientRepo.CreateExam(ctx, exam); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "exam_added", "Added exam %q (%d) to patient %d", exam.Name, exam.ID, patientID)
	return exam, nil
}

func (s *CareRecordService) UpdateExam(ctx context.Context, patientID, examID uint, in ExamUpdate, staffID *uint) (*models.Exam, error) {
	exam, err := s.patientRepo.GetExam(ctx, patientID, examID)
	if err != nil {
		return nil, err
	}
	date, err := clinical.ValidateDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	exam.Date = date
	exam.Observation = strings.TrimSpace(in.Observation)
	if err := s.patientRepo.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "exam_updated", "Updated exam %d of patient %d", examID, patientID)
	return exam, nil
}

func (s *CareRecordService) ArchiveExam(ctx context.Context, patientID, examID uint, staffID *uint) error {
	if err := s.patientRepo.ArchiveExam(ctx, patientID, examID); err != nil {
		return err
	}
	s.audit.record(ctx, staffID, "exam_archived", "Archived exam %d of patient %d", examID, patientID)
	return nil
}

// Surgeries

func (s *CareRecordService) AddSurgery(ctx context.Context, patientID uint, in SurgeryInput, staffID *uint) (*models.Surgery, error) {
	surgery := &models.Surgery{PatientID: patientID}
	if err := applySurgery(surgery, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.patientRepo.CreateSurgery(ctx, surgery); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "surgery_added", "Added surgery %q (%d) to patient %d", surgery.Name, surgery.ID, patientID)
	return surgery, nil
}

func (s *CareRecordService) UpdateSurgery(ctx context.Context, patientID, surgeryID uint, in SurgeryInput, staffID *uint) (*models.Surgery, error) {
	surgery, err := s.patientRepo.GetSurgery(ctx, patientID, surgeryID)
	if err != nil {
		return nil, err
	}
	if err := applySurgery(surgery, in); err != nil {
		return nil, err
	}
	if err := s.patientRepo.UpdateSurgery(ctx, surgery); err != nil {
		return nil, err
	}
	s.audit.record(ctx, staffID, "surgery_updated", "Updated surgery %d of patient %d", surgeryID, patientID)
	return surgery, nil
}

// applyDevice validates in and copies it onto device. device is untouched on error.
func applyDevice(device *models.Device, in DeviceInput) error {
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	location, err := required("location", in.Location)
	if err != nil {
		return err
	}
	start, err := clinical.ValidateDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	removal, err := optionalEndDate("removal_date", start, in.RemovalDate)
	if err != nil {
		return err
	}
	device.Name, device.Location, device.StartDate, device.RemovalDate = name, location, start, removal
	return nil
}

func applyMedication(medication *models.Medication, in MedicationInput) error {
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	dosage, err := required("dosage", in.Dosage)
	if err != nil {
		return err
	}
	start, err := clinical.ValidateDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := optionalEndDate("end_date", start, in.EndDate)
	if err != nil {
		return err
	}
	medication.Name, medication.Dosage, medication.StartDate, medication.EndDate = name, dosage, start, end
	return nil
}

func applySurgery(surgery *models.Surgery, in SurgeryInput) error {
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	surgeon, err := required("surgeon", in.Surgeon)
	if err != nil {
		return err
	}
	date, err := clinical.ValidateDate("date", in.Date)
	if err != nil {
		return err
	}
	surgery.Name, surgery.Surgeon, surgery.Date = name, surgeon, date
	return nil
}

func optionalEndDate(field, start string, end *string) (*string, error) {
	if end == nil || strings.TrimSpace(*end) == "" {
		return nil, nil
	}
	date, err := clinical.ValidateDate(field, *end)
	if err != nil {
		return nil, err
	}
	if err := clinical.ValidateDateRange(field, start, date); err != nil {
		return nil, err
	}
	return &date, nil
}
