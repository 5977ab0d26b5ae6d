package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Slide struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	SlideNumber         int            `gorm:"column:slide_number;not null" json:"slide_number"`
	Title               string         `gorm:"column:title;not null" json:"title"`
	Subtitle            string         `gorm:"column:subtitle" json:"subtitle,omitempty"`
	Content             string         `gorm:"column:content;not null" json:"content"`
	BulletPoints        datatypes.JSON `gorm:"column:bullet_points;type:jsonb" json:"bullet_points,omitempty"`
	KeyTakeaway         string         `gorm:"column:key_takeaway" json:"key_takeaway,omitempty"`
	SpeakerNotes        string         `gorm:"column:speaker_notes" json:"speaker_notes"`
	Layout              string         `gorm:"column:layout;not null;default:'title-content'" json:"layout"`
	SuggestedImageQuery string         `gorm:"column:suggested_image_query" json:"suggested_image_query"`
	ImageURL            string         `gorm:"column:image_url" json:"image_url,omitempty"`
	ImageSource         string         `gorm:"column:image_source" json:"image_source,omitempty"`
	ImageAttribution    string         `gorm:"column:image_attribution" json:"image_attribution,omitempty"`
	BackgroundColor     string         `gorm:"column:background_color" json:"background_color,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Slide) TableName() string { return "slide" }
