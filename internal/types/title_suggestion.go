package types

import (
	"time"

	"github.com/google/uuid"
)

type TitleSuggestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	SuggestionID string    `gorm:"column:suggestion_id;not null" json:"suggestion_id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Explanation  string    `gorm:"column:explanation" json:"explanation"`
	Selected     bool      `gorm:"column:selected;not null;default:false" json:"selected"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TitleSuggestion) TableName() string { return "title_suggestion" }
