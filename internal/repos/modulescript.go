package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type ModuleScriptRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, script *types.ModuleScript) (*types.ModuleScript, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleScript, error)
	GetByModuleID(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID) (*types.ModuleScript, error)
}

type moduleScriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleScriptRepo(db *gorm.DB, baseLog *logger.Logger) ModuleScriptRepo {
	repoLog := baseLog.With("repo", "ModuleScriptRepo")
	return &moduleScriptRepo{db: db, log: repoLog}
}

// Upsert is keyed by (course_id, module_id); a regenerated script replaces
// its predecessor, riding the unique index. Saving twice is a no-op shape.
func (r *moduleScriptRepo) Upsert(ctx context.Context, tx *gorm.DB, script *types.ModuleScript) (*types.ModuleScript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if script.ID == uuid.Nil {
		script.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"module_title", "sections", "citations", "total_words", "estimated_duration", "updated_at",
			}),
		}).
		Create(script).Error; err != nil {
		return nil, err
	}
	return script, nil
}

func (r *moduleScriptRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.ModuleScript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var scripts []*types.ModuleScript
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

func (r *moduleScriptRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID) (*types.ModuleScript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var script types.ModuleScript
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND module_id = ?", courseID, moduleID).
		First(&script).Error; err != nil {
		return nil, err
	}
	return &script, nil
}
