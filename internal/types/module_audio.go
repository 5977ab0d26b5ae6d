package types

import (
	"time"

	"github.com/google/uuid"
)

// At most one narration per (course, module); regeneration overwrites.
type ModuleAudio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_audio_course_module,priority:1" json:"course_id"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_audio_course_module,priority:2" json:"module_id"`
	AudioURL  string    `gorm:"column:audio_url;not null" json:"audio_url"`
	VoiceID   string    `gorm:"column:voice_id;not null" json:"voice_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ModuleAudio) TableName() string { return "module_audio" }
