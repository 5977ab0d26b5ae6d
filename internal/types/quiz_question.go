package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID        uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_quiz_module_position,priority:1" json:"module_id"`
	Position        int            `gorm:"column:position;not null;uniqueIndex:idx_quiz_module_position,priority:2" json:"position"`
	QuestionID      string         `gorm:"column:question_id;not null" json:"question_id"`
	Question        string         `gorm:"column:question;not null" json:"question"`
	Options         datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`
	CorrectOptionID string         `gorm:"column:correct_option_id;not null" json:"correct_option_id"`
	Explanation     string         `gorm:"column:explanation" json:"explanation"`
	Difficulty      string         `gorm:"column:difficulty;not null;default:'medium'" json:"difficulty"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
