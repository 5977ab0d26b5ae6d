package workflow

import (
	"context"

	"github.com/google/uuid"
)

// Step inputs handed to the generation adapter. The orchestrator builds them
// from the aggregate; adapters never read workflow state directly.

type TitlesInput struct {
	Topic             string
	AdditionalContext string
}

type OutlineInput struct {
	Title             string
	NumModules        int
	AdditionalContext string
}

type ScriptInput struct {
	CourseTitle       string
	Module            OutlineModule
	TargetDuration    int
	AdditionalContext string
}

type SlidesInput struct {
	CourseTitle string
	Module      OutlineModule
	Script      *ModuleScript
	NumSlides   int
}

type ExercisesInput struct {
	CourseTitle string
	Module      OutlineModule
	Script      *ModuleScript
}

type QuizInput struct {
	CourseTitle string
	Module      OutlineModule
	Script      *ModuleScript
}

type VoiceInput struct {
	Module  OutlineModule
	Script  *ModuleScript
	VoiceID string
}

type VideoInput struct {
	Module   OutlineModule
	Script   *ModuleScript
	AvatarID string
	VoiceID  string
}

type UploadInput struct {
	CourseTitle string
	Module      OutlineModule
	Video       ModuleVideo
}

type ExportInput struct {
	CourseTitle   string
	ModuleTitle   string
	ScriptContent string
	NumSlides     int
	ExportFormat  string
}

// GenerationAdapter is one asynchronous operation per workflow step. Every
// call validates its input before touching a collaborator, applies the
// demo-mode policy, and is all-or-nothing: on error no partial artifact is
// returned.
type GenerationAdapter interface {
	GenerateTitles(ctx context.Context, in TitlesInput, settings CourseSettings) ([]TitleSuggestion, error)
	GenerateOutline(ctx context.Context, in OutlineInput, settings CourseSettings) (*CourseOutline, error)
	GenerateScript(ctx context.Context, in ScriptInput, settings CourseSettings) (*ModuleScript, error)
	GenerateSlides(ctx context.Context, in SlidesInput, settings CourseSettings) ([]Slide, error)
	GenerateExercises(ctx context.Context, in ExercisesInput, settings CourseSettings) (*ModuleExercises, error)
	GenerateQuiz(ctx context.Context, in QuizInput, settings CourseSettings) (*ModuleQuiz, error)
	GenerateVoice(ctx context.Context, in VoiceInput, settings CourseSettings) (*ModuleAudio, error)
	CreateVideo(ctx context.Context, in VideoInput, settings CourseSettings) (*ModuleVideo, error)
	PollVideo(ctx context.Context, providerVideoID string) (*ModuleVideo, error)
	UploadVideo(ctx context.Context, in UploadInput) (*ModuleVideo, error)
	StartExport(ctx context.Context, in ExportInput, settings CourseSettings) (*PresentonState, error)
	PollExport(ctx context.Context, taskID string) (*PresentonState, error)
}

// Store is the persistence adapter: best-effort durable writes with partial
// update semantics, idempotent upserts keyed by (course, module). Failures
// never roll back or block the in-memory pipeline.
type Store interface {
	SaveCourse(ctx context.Context, courseID uuid.UUID, fields map[string]any) error
	SaveTitleSuggestions(ctx context.Context, courseID uuid.UUID, suggestions []TitleSuggestion, selectedID string) error
	SaveOutline(ctx context.Context, courseID uuid.UUID, outline *CourseOutline) error
	SaveScript(ctx context.Context, courseID uuid.UUID, script *ModuleScript) error
	ReplaceSlides(ctx context.Context, courseID uuid.UUID, moduleID uuid.UUID, slides []Slide) error
	SaveExercises(ctx context.Context, courseID uuid.UUID, exercises *ModuleExercises) error
	SaveQuiz(ctx context.Context, courseID uuid.UUID, quiz *ModuleQuiz) error
	SaveAudio(ctx context.Context, courseID uuid.UUID, audio *ModuleAudio) error
	SaveVideo(ctx context.Context, courseID uuid.UUID, video *ModuleVideo) error
	SaveExport(ctx context.Context, courseID uuid.UUID, export *PresentonState) error
}
