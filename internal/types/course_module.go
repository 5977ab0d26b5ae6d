package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseModule struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID           uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_course_module_number,priority:1" json:"course_id"`
	Course             *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Number             int            `gorm:"column:number;not null;uniqueIndex:idx_course_module_number,priority:2" json:"number"`
	Title              string         `gorm:"column:title;not null" json:"title"`
	Description        string         `gorm:"column:description" json:"description"`
	Duration           int            `gorm:"column:duration;not null;default:0" json:"duration"`
	LearningObjectives datatypes.JSON `gorm:"column:learning_objectives;type:jsonb" json:"learning_objectives"`
	SubTopics          datatypes.JSON `gorm:"column:sub_topics;type:jsonb" json:"sub_topics"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseModule) TableName() string { return "course_module" }
