package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type CourseModuleRepo interface {
	UpsertAll(ctx context.Context, tx *gorm.DB, modules []*types.CourseModule) ([]*types.CourseModule, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error)
	DeleteAboveNumber(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, keep int) error
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	repoLog := baseLog.With("repo", "CourseModuleRepo")
	return &courseModuleRepo{db: db, log: repoLog}
}

// UpsertAll writes an outline's modules keyed by (course_id, number), so a
// regenerated outline replaces rows in place and keeps stable ids.
func (r *courseModuleRepo) UpsertAll(ctx context.Context, tx *gorm.DB, modules []*types.CourseModule) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(modules) == 0 {
		return []*types.CourseModule{}, nil
	}
	for _, m := range modules {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "duration", "learning_objectives", "sub_topics", "updated_at",
			}),
		}).
		Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var modules []*types.CourseModule
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("number ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// DeleteAboveNumber trims rows left behind when a regenerated outline has
// fewer modules than the previous one. The delete is unscoped: a soft-deleted
// row would keep occupying its (course_id, number) slot in the unique index
// and block the upsert if the outline grows back, and trimmed modules are
// fully regenerable anyway.
func (r *courseModuleRepo) DeleteAboveNumber(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, keep int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("course_id = ? AND number > ?", courseID, keep).
		Delete(&types.CourseModule{}).Error
}
