package models

import "time"

type TaskStatus string

const (
	TaskStatusAlert   TaskStatus = "alerta"
	TaskStatusOnTime  TaskStatus = "no_prazo"
	TaskStatusOverdue TaskStatus = "fora_do_prazo"
	TaskStatusDone    TaskStatus = "concluido"
)

// TaskStatuses lists every status in dashboard order.
var TaskStatuses = []TaskStatus{TaskStatusAlert, TaskStatusOnTime, TaskStatusOverdue, TaskStatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusAlert, TaskStatusOnTime, TaskStatusOverdue, TaskStatusDone:
		return true
	}
	return false
}

// Task represents the tasks table: a time-bound follow-up raised for a patient.
type Task struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PatientID     uint       `gorm:"not null;index" json:"patient_id"`
	CategoryID    uint       `gorm:"not null;index" json:"category_id"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Responsible   string     `gorm:"size:100;not null" json:"responsible"`
	Deadline      time.Time  `gorm:"not null;index" json:"deadline"`
	Status        TaskStatus `gorm:"size:20;not null;index" json:"status"`
	Justification *string    `gorm:"type:text" json:"justification,omitempty"`
	OverdueSince  *time.Time `json:"overdue_since,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedBy     *uint      `gorm:"index" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}
