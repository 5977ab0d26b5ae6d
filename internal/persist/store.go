package persist

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/repos"
	"github.com/vardkurs/coursegen-backend/internal/types"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// Store maps workflow artifacts onto durable rows. It is the orchestrator's
// best-effort persistence adapter: callers fire it in the background and a
// failure is logged, never propagated into workflow state.
type Store struct {
	log         *logger.Logger
	courses     repos.CourseRepo
	modules     repos.CourseModuleRepo
	titles      repos.TitleSuggestionRepo
	scripts     repos.ModuleScriptRepo
	slides      repos.SlideRepo
	quizzes     repos.QuizQuestionRepo
	exercises   repos.ModuleExerciseRepo
	moduleAudio repos.ModuleAudioRepo
	videos      repos.ModuleVideoRepo
	exports     repos.PresentonTaskRepo
}

var _ workflow.Store = (*Store)(nil)

func NewStore(
	courses repos.CourseRepo,
	modules repos.CourseModuleRepo,
	titles repos.TitleSuggestionRepo,
	scripts repos.ModuleScriptRepo,
	slides repos.SlideRepo,
	quizzes repos.QuizQuestionRepo,
	exercises repos.ModuleExerciseRepo,
	moduleAudio repos.ModuleAudioRepo,
	videos repos.ModuleVideoRepo,
	exports repos.PresentonTaskRepo,
	baseLog *logger.Logger,
) *Store {
	return &Store{
		log:         baseLog.With("service", "WorkflowStore"),
		courses:     courses,
		modules:     modules,
		titles:      titles,
		scripts:     scripts,
		slides:      slides,
		quizzes:     quizzes,
		exercises:   exercises,
		moduleAudio: moduleAudio,
		videos:      videos,
		exports:     exports,
	}
}

func toJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (s *Store) SaveCourse(ctx context.Context, courseID uuid.UUID, fields map[string]any) error {
	// Slice-valued fields must land as jsonb, not driver-specific arrays.
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		switch v.(type) {
		case []string, []any, map[string]any:
			normalized[k] = toJSON(v)
		default:
			normalized[k] = v
		}
	}
	return s.courses.UpdateFields(ctx, nil, courseID, normalized)
}

func (s *Store) SaveTitleSuggestions(ctx context.Context, courseID uuid.UUID, suggestions []workflow.TitleSuggestion, selectedID string) error {
	rows := make([]*types.TitleSuggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		rows = append(rows, &types.TitleSuggestion{
			CourseID:     courseID,
			SuggestionID: sg.ID,
			Title:        sg.Title,
			Explanation:  sg.Explanation,
			Selected:     selectedID != "" && sg.ID == selectedID,
		})
	}
	return s.titles.ReplaceForCourse(ctx, nil, courseID, rows)
}

func (s *Store) SaveOutline(ctx context.Context, courseID uuid.UUID, outline *workflow.CourseOutline) error {
	rows := make([]*types.CourseModule, 0, len(outline.Modules))
	for _, m := range outline.Modules {
		rows = append(rows, &types.CourseModule{
			ID:                 m.ID,
			CourseID:           courseID,
			Number:             m.Number,
			Title:              m.Title,
			Description:        m.Description,
			Duration:           m.Duration,
			LearningObjectives: toJSON(m.LearningObjectives),
			SubTopics:          toJSON(m.SubTopics),
		})
	}
	if _, err := s.modules.UpsertAll(ctx, nil, rows); err != nil {
		return err
	}
	return s.modules.DeleteAboveNumber(ctx, nil, courseID, len(rows))
}

func (s *Store) SaveScript(ctx context.Context, courseID uuid.UUID, script *workflow.ModuleScript) error {
	_, err := s.scripts.Upsert(ctx, nil, &types.ModuleScript{
		CourseID:          courseID,
		ModuleID:          script.ModuleID,
		ModuleTitle:       script.ModuleTitle,
		Sections:          toJSON(script.Sections),
		Citations:         toJSON(script.Citations),
		TotalWords:        script.TotalWords,
		EstimatedDuration: script.EstimatedDuration,
	})
	return err
}

func (s *Store) ReplaceSlides(ctx context.Context, courseID uuid.UUID, moduleID uuid.UUID, slides []workflow.Slide) error {
	rows := make([]*types.Slide, 0, len(slides))
	for _, sl := range slides {
		rows = append(rows, &types.Slide{
			CourseID:            courseID,
			ModuleID:            moduleID,
			SlideNumber:         sl.SlideNumber,
			Title:               sl.Title,
			Subtitle:            sl.Subtitle,
			Content:             sl.Content,
			BulletPoints:        toJSON(sl.BulletPoints),
			KeyTakeaway:         sl.KeyTakeaway,
			SpeakerNotes:        sl.SpeakerNotes,
			Layout:              sl.Layout,
			SuggestedImageQuery: sl.SuggestedImageQuery,
			ImageURL:            sl.ImageURL,
			ImageSource:         sl.ImageSource,
			ImageAttribution:    sl.ImageAttribution,
			BackgroundColor:     sl.BackgroundColor,
		})
	}
	return s.slides.ReplaceForModule(ctx, nil, courseID, moduleID, rows)
}

func (s *Store) SaveExercises(ctx context.Context, courseID uuid.UUID, exercises *workflow.ModuleExercises) error {
	rows := make([]*types.ModuleExercise, 0, len(exercises.Exercises))
	for _, ex := range exercises.Exercises {
		rows = append(rows, &types.ModuleExercise{
			CourseID:     courseID,
			ModuleID:     exercises.ModuleID,
			Title:        ex.Title,
			Instructions: ex.Instructions,
			ExerciseType: ex.ExerciseType,
		})
	}
	return s.exercises.ReplaceForModule(ctx, nil, courseID, exercises.ModuleID, rows)
}

func (s *Store) SaveQuiz(ctx context.Context, courseID uuid.UUID, quiz *workflow.ModuleQuiz) error {
	rows := make([]*types.QuizQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		rows = append(rows, &types.QuizQuestion{
			CourseID:        courseID,
			ModuleID:        quiz.ModuleID,
			QuestionID:      q.ID,
			Question:        q.Question,
			Options:         toJSON(q.Options),
			CorrectOptionID: q.CorrectOptionID,
			Explanation:     q.Explanation,
			Difficulty:      q.Difficulty,
		})
	}
	return s.quizzes.ReplaceForModule(ctx, nil, courseID, quiz.ModuleID, rows)
}

func (s *Store) SaveAudio(ctx context.Context, courseID uuid.UUID, audio *workflow.ModuleAudio) error {
	_, err := s.moduleAudio.Upsert(ctx, nil, &types.ModuleAudio{
		CourseID: courseID,
		ModuleID: audio.ModuleID,
		AudioURL: audio.AudioURL,
		VoiceID:  audio.VoiceID,
	})
	return err
}

func (s *Store) SaveVideo(ctx context.Context, courseID uuid.UUID, video *workflow.ModuleVideo) error {
	_, err := s.videos.Upsert(ctx, nil, &types.ModuleVideo{
		CourseID:        courseID,
		ModuleID:        video.ModuleID,
		ProviderVideoID: video.ProviderVideoID,
		AvatarID:        video.AvatarID,
		Status:          video.Status,
		VideoURL:        video.VideoURL,
		ThumbnailURL:    video.ThumbnailURL,
		HostedURL:       video.HostedURL,
	})
	return err
}

func (s *Store) SaveExport(ctx context.Context, courseID uuid.UUID, export *workflow.PresentonState) error {
	_, err := s.exports.Upsert(ctx, nil, &types.PresentonTask{
		CourseID:    courseID,
		TaskID:      export.TaskID,
		Status:      export.Status,
		Progress:    export.Progress,
		DownloadURL: export.DownloadURL,
		EditURL:     export.EditURL,
		History:     toJSON(export.GenerationHistory),
	})
	return err
}
