package models

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Staff represents the staff table. Profiles are created on first login.
type Staff struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Role       string    `gorm:"size:100" json:"role"`
	Department string    `gorm:"size:100" json:"department"`
	AvatarURL  string    `gorm:"size:500" json:"avatar_url"`
	Theme      Theme     `gorm:"size:10;default:'light'" json:"theme"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Staff model
func (Staff) TableName() string {
	return "staff"
}
