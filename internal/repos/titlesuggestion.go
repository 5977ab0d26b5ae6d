package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type TitleSuggestionRepo interface {
	ReplaceForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, suggestions []*types.TitleSuggestion) error
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.TitleSuggestion, error)
	MarkSelected(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, suggestionID string) error
}

type titleSuggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTitleSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) TitleSuggestionRepo {
	repoLog := baseLog.With("repo", "TitleSuggestionRepo")
	return &titleSuggestionRepo{db: db, log: repoLog}
}

// ReplaceForCourse swaps the full suggestion set in one transaction; a
// regeneration never leaves a mix of old and new suggestions behind.
func (r *titleSuggestionRepo) ReplaceForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, suggestions []*types.TitleSuggestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("course_id = ?", courseID).
			Delete(&types.TitleSuggestion{}).Error; err != nil {
			return err
		}
		if len(suggestions) == 0 {
			return nil
		}
		for _, s := range suggestions {
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.CourseID = courseID
		}
		return t.Create(&suggestions).Error
	})
}

func (r *titleSuggestionRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.TitleSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var suggestions []*types.TitleSuggestion
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("suggestion_id ASC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (r *titleSuggestionRepo) MarkSelected(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, suggestionID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Model(&types.TitleSuggestion{}).
			Where("course_id = ?", courseID).
			Update("selected", false).Error; err != nil {
			return err
		}
		return t.Model(&types.TitleSuggestion{}).
			Where("course_id = ? AND suggestion_id = ?", courseID, suggestionID).
			Update("selected", true).Error
	})
}
