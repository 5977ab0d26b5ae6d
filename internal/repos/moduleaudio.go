package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type ModuleAudioRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, audio *types.ModuleAudio) (*types.ModuleAudio, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleAudio, error)
}

type moduleAudioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleAudioRepo(db *gorm.DB, baseLog *logger.Logger) ModuleAudioRepo {
	repoLog := baseLog.With("repo", "ModuleAudioRepo")
	return &moduleAudioRepo{db: db, log: repoLog}
}

func (r *moduleAudioRepo) Upsert(ctx context.Context, tx *gorm.DB, audio *types.ModuleAudio) (*types.ModuleAudio, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if audio.ID == uuid.Nil {
		audio.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"audio_url", "voice_id", "updated_at",
			}),
		}).
		Create(audio).Error; err != nil {
		return nil, err
	}
	return audio, nil
}

func (r *moduleAudioRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleAudio, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var audio []*types.ModuleAudio
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&audio).Error; err != nil {
		return nil, err
	}
	return audio, nil
}
