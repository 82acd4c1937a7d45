package models

import "time"

// Patient represents the patients table. A patient owns every child record below.
type Patient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	BedNumber   int       `gorm:"not null;index" json:"bed_number"`
	MotherName  string    `gorm:"size:150" json:"mother_name"`
	DateOfBirth string    `gorm:"size:10" json:"dob"`
	WardCode    string    `gorm:"size:50" json:"ward_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Devices     []Device     `gorm:"foreignKey:PatientID" json:"devices"`
	Medications []Medication `gorm:"foreignKey:PatientID" json:"medications"`
	Exams       []Exam       `gorm:"foreignKey:PatientID" json:"exams"`
	Surgeries   []Surgery    `gorm:"foreignKey:PatientID" json:"surgeries"`
	CapdScales  []CapdScale  `gorm:"foreignKey:PatientID" json:"capd_scales"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}

// Device represents an invasive device (catheter, tube, line) in place on a patient.
type Device struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	PatientID   uint    `gorm:"not null;index" json:"patient_id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Location    string  `gorm:"size:100" json:"location"`
	StartDate   string  `gorm:"size:10;not null" json:"start_date"`
	RemovalDate *string `gorm:"size:10" json:"removal_date,omitempty"`
	IsArchived  bool    `gorm:"default:false" json:"is_archived"`
}

func (Device) TableName() string {
	return "devices"
}

// InUse is false once the device has been removed or archived.
func (d Device) InUse() bool {
	return d.RemovalDate == nil && !d.IsArchived
}

type Medication struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	PatientID  uint    `gorm:"not null;index" json:"patient_id"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	Dosage     string  `gorm:"size:100" json:"dosage"`
	StartDate  string  `gorm:"size:10;not null" json:"start_date"`
	EndDate    *string `gorm:"size:10" json:"end_date,omitempty"`
	IsArchived bool    `gorm:"default:false" json:"is_archived"`
}

func (Medication) TableName() string {
	return "medications"
}

func (m Medication) InUse() bool {
	return m.EndDate == nil && !m.IsArchived
}

// ExamResult is the closed set of exam outcomes.
type ExamResult string

const (
	ExamResultPending  ExamResult = "Pendente"
	ExamResultNormal   ExamResult = "Normal"
	ExamResultAbnormal ExamResult = "Alterado"
)

func (r ExamResult) Valid() bool {
	switch r {
	case ExamResultPending, ExamResultNormal, ExamResultAbnormal:
		return true
	}
	return false
}

type Exam struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PatientID   uint       `gorm:"not null;index" json:"patient_id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Date        string     `gorm:"size:10;not null" json:"date"`
	Result      ExamResult `gorm:"size:20;not null" json:"result"`
	Observation string     `gorm:"type:text" json:"observation,omitempty"`
	IsArchived  bool       `gorm:"default:false" json:"is_archived"`
}

func (Exam) TableName() string {
	return "exams"
}

// Surgery is a historical record. It can be corrected but never archived.
type Surgery struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PatientID uint   `gorm:"not null;index" json:"patient_id"`
	Name      string `gorm:"size:150;not null" json:"name"`
	Surgeon   string `gorm:"size:100" json:"surgeon"`
	Date      string `gorm:"size:10;not null" json:"date"`
}

func (Surgery) TableName() string {
	return "surgeries"
}

// CapdScale is one CAP-D evaluation. Items is empty for scales imported with a bare score.
type CapdScale struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PatientID   uint      `gorm:"not null;index" json:"patient_id"`
	EvaluatedAt time.Time `gorm:"not null;index" json:"evaluated_at"`
	Score       int       `gorm:"not null" json:"score"`
	Items       CapdItems `gorm:"embedded;embeddedPrefix:item_" json:"items"`
	EvaluatedBy *uint     `gorm:"index" json:"evaluated_by,omitempty"`
}

func (CapdScale) TableName() string {
	return "capd_scales"
}

// CapdItems stores the eight item scores of a recorded evaluation.
type CapdItems struct {
	Consciousness          *int `json:"consciousness,omitempty"`
	Attention              *int `json:"attention,omitempty"`
	ComfortAgitation       *int `json:"comfort_agitation,omitempty"`
	Movements              *int `json:"movements,omitempty"`
	MuscleTone             *int `json:"muscle_tone,omitempty"`
	FacialExpression       *int `json:"facial_expression,omitempty"`
	SleepWakeCycle         *int `json:"sleep_wake_cycle,omitempty"`
	EnvironmentInteraction *int `json:"environment_interaction,omitempty"`
}
