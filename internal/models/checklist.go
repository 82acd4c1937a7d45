package models

import "time"

// Category groups related checklist questions. Categories are reference data and are not persisted.
type Category struct {
	ID   uint   `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon,omitempty" yaml:"icon"`
}

type Question struct {
	ID         uint   `json:"id" yaml:"id"`
	CategoryID uint   `json:"category_id" yaml:"category_id"`
	Text       string `json:"text" yaml:"text"`
}

// Answer is the closed set of replies to a checklist question.
type Answer string

const (
	AnswerYes           Answer = "sim"
	AnswerNo            Answer = "nao"
	AnswerNotApplicable Answer = "nao_se_aplica"
)

// ChecklistCompletion marks a category as done for a patient on one calendar day.
type ChecklistCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PatientID   uint      `gorm:"not null;uniqueIndex:idx_completion_day" json:"patient_id"`
	Day         string    `gorm:"size:10;not null;uniqueIndex:idx_completion_day" json:"day"`
	CategoryID  uint      `gorm:"not null;uniqueIndex:idx_completion_day" json:"category_id"`
	CompletedBy *uint     `json:"completed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ChecklistCompletion) TableName() string {
	return "checklist_completions"
}

type ChecklistAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PatientID  uint      `gorm:"not null;index:idx_answer_round" json:"patient_id"`
	Day        string    `gorm:"size:10;not null;index:idx_answer_round" json:"day"`
	CategoryID uint      `gorm:"not null;index:idx_answer_round" json:"category_id"`
	QuestionID uint      `gorm:"not null" json:"question_id"`
	Answer     Answer    `gorm:"size:20;not null" json:"answer"`
	AnsweredBy *uint     `json:"answered_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChecklistAnswer) TableName() string {
	return "checklist_answers"
}
