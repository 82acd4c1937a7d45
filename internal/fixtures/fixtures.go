// Package fixtures loads the static ward data: checklist reference tables,
// demo patients with their records, open tasks and form option lists.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"ward-rounds/internal/clinical"
	"ward-rounds/internal/models"
)

//go:embed seed.yaml
var embedded []byte

type Seed struct {
	Categories []models.Category `yaml:"categories"`
	Questions  []models.Question `yaml:"questions"`
	Patients   []PatientSeed     `yaml:"patients"`
	Tasks      []TaskSeed        `yaml:"tasks"`
	Options    Options           `yaml:"options"`
	Staff      StaffSeed         `yaml:"staff"`
}

type PatientSeed struct {
	ID          uint             `yaml:"id"`
	Name        string           `yaml:"name"`
	BedNumber   int              `yaml:"bed_number"`
	MotherName  string           `yaml:"mother_name"`
	DateOfBirth string           `yaml:"dob"`
	WardCode    string           `yaml:"ward_code"`
	Devices     []DeviceSeed     `yaml:"devices"`
	Medications []MedicationSeed `yaml:"medications"`
	Exams       []ExamSeed       `yaml:"exams"`
	Surgeries   []SurgerySeed    `yaml:"surgeries"`
	CapdScales  []CapdScaleSeed  `yaml:"capd_scales"`
}

type DeviceSeed struct {
	Name        string `yaml:"name"`
	Location    string `yaml:"location"`
	StartDate   string `yaml:"start_date"`
	RemovalDate string `yaml:"removal_date"`
}

type MedicationSeed struct {
	Name      string `yaml:"name"`
	Dosage    string `yaml:"dosage"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

type ExamSeed struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	Result      string `yaml:"result"`
	Observation string `yaml:"observation"`
}

type SurgerySeed struct {
	Name    string `yaml:"name"`
	Surgeon string `yaml:"surgeon"`
	Date    string `yaml:"date"`
}

type CapdScaleSeed struct {
	EvaluatedAt string `yaml:"evaluated_at"`
	Score       int    `yaml:"score"`
}

// TaskSeed deadlines are relative to the seeding instant so demo data never goes stale.
type TaskSeed struct {
	PatientID       uint   `yaml:"patient_id"`
	CategoryID      uint   `yaml:"category_id"`
	Description     string `yaml:"description"`
	Responsible     string `yaml:"responsible"`
	DeadlineInHours int    `yaml:"deadline_in_hours"`
	Status          string `yaml:"status"`
}

// Options are the choice lists offered by the data-entry forms.
type Options struct {
	DeviceTypes     []string `yaml:"device_types" json:"device_types"`
	DeviceLocations []string `yaml:"device_locations" json:"device_locations"`
	ExamStatuses    []string `yaml:"exam_statuses" json:"exam_statuses"`
	Responsibles    []string `yaml:"responsibles" json:"responsibles"`
	AlertDeadlines  []string `yaml:"alert_deadlines" json:"alert_deadlines"`
	SurgeonNames    []string `yaml:"surgeon_names" json:"surgeon_names"`
	DosageUnits     []string `yaml:"dosage_units" json:"dosage_units"`
}

type StaffSeed struct {
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
	AvatarURL  string `yaml:"avatar_url"`
}

// Load parses the file at path, or the embedded seed when path is empty.
func Load(path string) (*Seed, error) {
	data := embedded
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &seed, nil
}

func (s *Seed) Catalog() (*clinical.Catalog, error) {
	return clinical.NewCatalog(s.Categories, s.Questions)
}

// BuildPatients converts the seeded patients into models, validating every date.
func (s *Seed) BuildPatients() ([]models.Patient, error) {
	patients := make([]models.Patient, 0, len(s.Patients))
	for _, ps := range s.Patients {
		p := models.Patient{
			ID:          ps.ID,
			Name:        ps.Name,
			BedNumber:   ps.BedNumber,
			MotherName:  ps.MotherName,
			DateOfBirth: ps.DateOfBirth,
			WardCode:    ps.WardCode,
		}
		if _, err := clinical.ValidateDate("dob", ps.DateOfBirth); err != nil {
			return nil, fmt.Errorf("patient %d: %w", ps.ID, err)
		}

		for _, d := range ps.Devices {
			if _, err := clinical.ValidateDate("start_date", d.StartDate); err != nil {
				return nil, fmt.Errorf("patient %d device %q: %w", ps.ID, d.Name, err)
			}
			p.Devices = append(p.Devices, models.Device{
				Name: d.Name, Location: d.Location, StartDate: d.StartDate, RemovalDate: optional(d.RemovalDate),
			})
		}
		for _, m := range ps.Medications {
			if _, err := clinical.ValidateDate("start_date", m.StartDate); err != nil {
				return nil, fmt.Errorf("patient %d medication %q: %w", ps.ID, m.Name, err)
			}
			p.Medications = append(p.Medications, models.Medication{
				Name: m.Name, Dosage: m.Dosage, StartDate: m.StartDate, EndDate: optional(m.EndDate),
			})
		}
		for _, e := range ps.Exams {
			result := models.ExamResult(e.Result)
			if !result.Valid() {
				return nil, fmt.Errorf("patient %d exam %q: unknown result %q", ps.ID, e.Name, e.Result)
			}
			p.Exams = append(p.Exams, models.Exam{
				Name: e.Name, Date: e.Date, Result: result, Observation: e.Observation,
			})
		}
		for _, sg := range ps.Surgeries {
			p.Surgeries = append(p.Surgeries, models.Surgery{Name: sg.Name, Surgeon: sg.Surgeon, Date: sg.Date})
		}
		for _, c := range ps.CapdScales {
			at, err := time.Parse(time.RFC3339, c.EvaluatedAt)
			if err != nil {
				return nil, fmt.Errorf("patient %d capd scale: %w", ps.ID, err)
			}
			if _, err := clinical.InterpretCapd(c.Score); err != nil {
				return nil, fmt.Errorf("patient %d capd scale: %w", ps.ID, err)
			}
			p.CapdScales = append(p.CapdScales, models.CapdScale{EvaluatedAt: at.UTC(), Score: c.Score})
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// BuildTasks anchors relative deadlines at now. Tasks without a status start as alerta.
func (s *Seed) BuildTasks(now time.Time) ([]models.Task, error) {
	now = now.UTC()
	tasks := make([]models.Task, 0, len(s.Tasks))
	for i, ts := range s.Tasks {
		status := models.TaskStatusAlert
		if ts.Status != "" {
			status = models.TaskStatus(ts.Status)
		}
		if !status.Valid() {
			return nil, fmt.Errorf("task %d: unknown status %q", i, ts.Status)
		}

		task := models.Task{
			PatientID:   ts.PatientID,
			CategoryID:  ts.CategoryID,
			Description: ts.Description,
			Responsible: ts.Responsible,
			Deadline:    now.Add(time.Duration(ts.DeadlineInHours) * time.Hour),
			Status:      status,
			CreatedAt:   now,
		}
		switch status {
		case models.TaskStatusOverdue:
			since := task.Deadline
			task.OverdueSince = &since
		case models.TaskStatusDone:
			completed := now
			task.CompletedAt = &completed
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// StaffDefaults are the profile fields given to staff created at first login
func (s *Seed) StaffDefaults() models.Staff {
	return models.Staff{
		Name:       s.Staff.Name,
		Role:       s.Staff.Role,
		Department: s.Staff.Department,
		AvatarURL:  s.Staff.AvatarURL,
		Theme:      models.ThemeLight,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
