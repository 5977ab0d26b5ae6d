package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type ModuleVideoRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, video *types.ModuleVideo) (*types.ModuleVideo, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleVideo, error)
}

type moduleVideoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleVideoRepo(db *gorm.DB, baseLog *logger.Logger) ModuleVideoRepo {
	repoLog := baseLog.With("repo", "ModuleVideoRepo")
	return &moduleVideoRepo{db: db, log: repoLog}
}

func (r *moduleVideoRepo) Upsert(ctx context.Context, tx *gorm.DB, video *types.ModuleVideo) (*types.ModuleVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider_video_id", "avatar_id", "status", "video_url", "thumbnail_url", "hosted_url", "updated_at",
			}),
		}).
		Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

func (r *moduleVideoRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var videos []*types.ModuleVideo
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
