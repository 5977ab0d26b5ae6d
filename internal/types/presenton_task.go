package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Export-track task; lifecycle is independent of the main pipeline.
type PresentonTask struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	TaskID      string         `gorm:"column:task_id;not null;uniqueIndex" json:"task_id"`
	Status      string         `gorm:"column:status;not null;default:'idle'" json:"status"` // idle|pending|processing|completed|failed
	Progress    int            `gorm:"column:progress;not null;default:0" json:"progress"`
	DownloadURL string         `gorm:"column:download_url" json:"download_url,omitempty"`
	EditURL     string         `gorm:"column:edit_url" json:"edit_url,omitempty"`
	History     datatypes.JSON `gorm:"column:history;type:jsonb" json:"history"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PresentonTask) TableName() string { return "presenton_task" }
