package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	Language       string         `gorm:"column:language;not null;default:'sv'" json:"language"`
	Tone           string         `gorm:"column:tone;not null;default:'professional'" json:"tone"`
	CurrentStep    string         `gorm:"column:current_step;not null;default:'title'" json:"current_step"`
	CompletedSteps datatypes.JSON `gorm:"column:completed_steps;type:jsonb" json:"completed_steps"`
	Settings       datatypes.JSON `gorm:"column:settings;type:jsonb" json:"settings"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
