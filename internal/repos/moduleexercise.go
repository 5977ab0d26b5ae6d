package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type ModuleExerciseRepo interface {
	ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, exercises []*types.ModuleExercise) error
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.ModuleExercise, error)
}

type moduleExerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ModuleExerciseRepo {
	repoLog := baseLog.With("repo", "ModuleExerciseRepo")
	return &moduleExerciseRepo{db: db, log: repoLog}
}

func (r *moduleExerciseRepo) ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, exercises []*types.ModuleExercise) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("module_id = ?", moduleID).
			Delete(&types.ModuleExercise{}).Error; err != nil {
			return err
		}
		if len(exercises) == 0 {
			return nil
		}
		for i, ex := range exercises {
			if ex.ID == uuid.Nil {
				ex.ID = uuid.New()
			}
			ex.CourseID = courseID
			ex.ModuleID = moduleID
			ex.Position = i + 1
		}
		return t.Create(&exercises).Error
	})
}

func (r *moduleExerciseRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.ModuleExercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var exercises []*types.ModuleExercise
	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("position ASC").
		Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}
