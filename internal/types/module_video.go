package types

import (
	"time"

	"github.com/google/uuid"
)

type ModuleVideo struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_video_course_module,priority:1" json:"course_id"`
	ModuleID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_video_course_module,priority:2" json:"module_id"`
	ProviderVideoID string    `gorm:"column:provider_video_id;not null" json:"provider_video_id"`
	AvatarID        string    `gorm:"column:avatar_id" json:"avatar_id"`
	Status          string    `gorm:"column:status;not null;default:'pending'" json:"status"` // pending|processing|completed|failed
	VideoURL        string    `gorm:"column:video_url" json:"video_url,omitempty"`
	ThumbnailURL    string    `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	HostedURL       string    `gorm:"column:hosted_url" json:"hosted_url,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ModuleVideo) TableName() string { return "module_video" }
