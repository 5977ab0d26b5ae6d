package types

import (
	"time"

	"github.com/google/uuid"
)

type ModuleExercise struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_exercise_module_position,priority:1" json:"module_id"`
	Position     int       `gorm:"column:position;not null;uniqueIndex:idx_exercise_module_position,priority:2" json:"position"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Instructions string    `gorm:"column:instructions" json:"instructions"`
	ExerciseType string    `gorm:"column:exercise_type;not null;default:'reflection'" json:"exercise_type"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ModuleExercise) TableName() string { return "module_exercise" }
