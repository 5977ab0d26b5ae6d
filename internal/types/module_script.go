package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// One script row per (course, module); regeneration upserts in place.
type ModuleScript struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID          uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_script_course_module,priority:1" json:"course_id"`
	ModuleID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_script_course_module,priority:2" json:"module_id"`
	ModuleTitle       string         `gorm:"column:module_title;not null" json:"module_title"`
	Sections          datatypes.JSON `gorm:"column:sections;type:jsonb" json:"sections"`
	Citations         datatypes.JSON `gorm:"column:citations;type:jsonb" json:"citations"`
	TotalWords        int            `gorm:"column:total_words;not null;default:0" json:"total_words"`
	EstimatedDuration int            `gorm:"column:estimated_duration;not null;default:0" json:"estimated_duration"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ModuleScript) TableName() string { return "module_script" }
