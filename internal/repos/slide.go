package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type SlideRepo interface {
	ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, slides []*types.Slide) error
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.Slide, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Slide, error)
}

type slideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSlideRepo(db *gorm.DB, baseLog *logger.Logger) SlideRepo {
	repoLog := baseLog.With("repo", "SlideRepo")
	return &slideRepo{db: db, log: repoLog}
}

// ReplaceForModule deletes and re-inserts a module's slide deck in one
// transaction. Slide sets are replaced whole; partial decks are never
// visible to readers.
func (r *slideRepo) ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, slides []*types.Slide) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("course_id = ? AND module_id = ?", courseID, moduleID).
			Delete(&types.Slide{}).Error; err != nil {
			return err
		}
		if len(slides) == 0 {
			return nil
		}
		for _, s := range slides {
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.CourseID = courseID
			s.ModuleID = moduleID
		}
		return t.Create(&slides).Error
	})
}

func (r *slideRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var slides []*types.Slide
	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("slide_number ASC").
		Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *slideRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var slides []*types.Slide
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("module_id, slide_number ASC").
		Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}
