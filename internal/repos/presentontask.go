package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type PresentonTaskRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, task *types.PresentonTask) (*types.PresentonTask, error)
	GetLatestByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.PresentonTask, error)
}

type presentonTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPresentonTaskRepo(db *gorm.DB, baseLog *logger.Logger) PresentonTaskRepo {
	repoLog := baseLog.With("repo", "PresentonTaskRepo")
	return &presentonTaskRepo{db: db, log: repoLog}
}

// Upsert is keyed by the provider task id; poll updates land on the same
// row the start call created.
func (r *presentonTaskRepo) Upsert(ctx context.Context, tx *gorm.DB, task *types.PresentonTask) (*types.PresentonTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "progress", "download_url", "edit_url", "history", "updated_at",
			}),
		}).
		Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *presentonTaskRepo) GetLatestByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.PresentonTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var task types.PresentonTask
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}
