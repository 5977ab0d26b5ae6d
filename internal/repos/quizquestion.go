package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/types"
)

type QuizQuestionRepo interface {
	ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, questions []*types.QuizQuestion) error
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	repoLog := baseLog.With("repo", "QuizQuestionRepo")
	return &quizQuestionRepo{db: db, log: repoLog}
}

func (r *quizQuestionRepo) ReplaceForModule(ctx context.Context, tx *gorm.DB, courseID, moduleID uuid.UUID, questions []*types.QuizQuestion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("module_id = ?", moduleID).
			Delete(&types.QuizQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i, q := range questions {
			if q.ID == uuid.Nil {
				q.ID = uuid.New()
			}
			q.CourseID = courseID
			q.ModuleID = moduleID
			q.Position = i + 1
		}
		return t.Create(&questions).Error
	})
}

func (r *quizQuestionRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var questions []*types.QuizQuestion
	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
