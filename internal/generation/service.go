package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/cache"
	"github.com/vardkurs/coursegen-backend/internal/clients/aigateway"
	"github.com/vardkurs/coursegen-backend/internal/clients/bunny"
	"github.com/vardkurs/coursegen-backend/internal/clients/elevenlabs"
	"github.com/vardkurs/coursegen-backend/internal/clients/heygen"
	"github.com/vardkurs/coursegen-backend/internal/clients/media"
	"github.com/vardkurs/coursegen-backend/internal/clients/presenton"
	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// demo narration cap keeps TTS spend negligible during sales demos
const demoNarrationChars = 1200

// capNarration trims text to at most demoNarrationChars bytes without
// splitting a multi-byte rune. Narration defaults to Swedish, so a naive
// byte slice could land inside an å/ä/ö.
func capNarration(text string) string {
	if len(text) <= demoNarrationChars {
		return text
	}
	cut := demoNarrationChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// Service implements the per-step generation operations. Every operation
// validates its input before any network call, applies demo-mode caps both
// before the request and after the response, and returns either a complete
// artifact or an error.
type Service struct {
	log        *logger.Logger
	ai         aigateway.Client
	voice      elevenlabs.Client
	avatar     heygen.Client
	hosting    bunny.Client
	exporter   presenton.Client
	photos     media.Client
	mediaCache cache.SearchCache
}

var _ workflow.GenerationAdapter = (*Service)(nil)

// Optional collaborators may be nil; the steps that need them fail with a
// validation error instead of a nil deref.
func NewService(
	ai aigateway.Client,
	voice elevenlabs.Client,
	avatar heygen.Client,
	hosting bunny.Client,
	exporter presenton.Client,
	photos media.Client,
	mediaCache cache.SearchCache,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		log:        baseLog.With("service", "GenerationService"),
		ai:         ai,
		voice:      voice,
		avatar:     avatar,
		hosting:    hosting,
		exporter:   exporter,
		photos:     photos,
		mediaCache: mediaCache,
	}
}

func (s *Service) GenerateTitles(ctx context.Context, in workflow.TitlesInput, settings workflow.CourseSettings) ([]workflow.TitleSuggestion, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, apperrors.NewValidation("course title or topic is required")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	data, err := s.ai.GenerateJSON(ctx,
		titleSystemPrompt(settings.Language),
		titleUserPrompt(in),
		aigateway.Options{Model: stepModel(s.log, "title"), MaxTokens: stepMaxTokens(s.log, "title")},
	)
	if err != nil {
		return nil, err
	}
	return normalizeTitleSuggestions(data)
}

func (s *Service) GenerateOutline(ctx context.Context, in workflow.OutlineInput, settings workflow.CourseSettings) (*workflow.CourseOutline, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.NewValidation("course title is required")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	numModules := in.NumModules
	if numModules <= 0 {
		numModules = settings.MaxModules
	}
	if numModules <= 0 {
		numModules = 5
	}
	// Demo cap applies before the request to keep token spend down, and
	// again after the response in case the model ignores the count.
	if settings.Demo.Enabled && settings.Demo.MaxModules > 0 && numModules > settings.Demo.MaxModules {
		numModules = settings.Demo.MaxModules
	}

	data, err := s.ai.GenerateJSON(ctx,
		outlineSystemPrompt(settings.Language, numModules),
		outlineUserPrompt(in),
		aigateway.Options{Model: stepModel(s.log, "outline"), MaxTokens: stepMaxTokens(s.log, "outline")},
	)
	if err != nil {
		return nil, err
	}

	outline, err := normalizeOutline(data, in.Title)
	if err != nil {
		return nil, err
	}

	if settings.Demo.Enabled && settings.Demo.MaxModules > 0 && len(outline.Modules) > settings.Demo.MaxModules {
		s.log.Info("Demo mode truncating outline",
			"requested", len(outline.Modules), "cap", settings.Demo.MaxModules)
		outline.Modules = outline.Modules[:settings.Demo.MaxModules]
		outline.TotalDuration = 0
		for _, m := range outline.Modules {
			outline.TotalDuration += m.Duration
		}
	}
	return outline, nil
}

func (s *Service) GenerateScript(ctx context.Context, in workflow.ScriptInput, settings workflow.CourseSettings) (*workflow.ModuleScript, error) {
	if strings.TrimSpace(in.Module.Title) == "" {
		return nil, apperrors.NewValidation("module title is required")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	data, err := s.ai.GenerateJSON(ctx,
		scriptSystemPrompt(settings.Language, settings.Tone, in.TargetDuration),
		scriptUserPrompt(in),
		aigateway.Options{Model: stepModel(s.log, "script"), MaxTokens: stepMaxTokens(s.log, "script")},
	)
	if err != nil {
		return nil, err
	}
	return normalizeScript(data, in.Module)
}

func (s *Service) GenerateSlides(ctx context.Context, in workflow.SlidesInput, settings workflow.CourseSettings) ([]workflow.Slide, error) {
	if in.Script == nil || in.Script.Text() == "" {
		return nil, apperrors.NewValidation("script content is required for slide generation")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	numSlides := in.NumSlides
	if numSlides <= 0 {
		numSlides = settings.SlidesPerModule
	}
	if numSlides <= 0 {
		numSlides = 10
	}
	if settings.Demo.Enabled && settings.Demo.MaxSlides > 0 && numSlides > settings.Demo.MaxSlides {
		numSlides = settings.Demo.MaxSlides
	}

	data, err := s.ai.GenerateJSON(ctx,
		slidesSystemPrompt(settings.Language, numSlides,
			verbosityGuidance(s.log, "standard"), toneGuidance(s.log, settings.Tone)),
		slidesUserPrompt(in),
		aigateway.Options{Model: stepModel(s.log, "slides"), MaxTokens: stepMaxTokens(s.log, "slides")},
	)
	if err != nil {
		return nil, err
	}

	slides, err := normalizeSlides(data, in.Module)
	if err != nil {
		return nil, err
	}

	if settings.Demo.Enabled && settings.Demo.MaxSlides > 0 && len(slides) > settings.Demo.MaxSlides {
		s.log.Info("Demo mode truncating slides",
			"returned", len(slides), "cap", settings.Demo.MaxSlides)
		slides = slides[:settings.Demo.MaxSlides]
	}

	s.resolveSlideImages(ctx, slides)
	return slides, nil
}

// resolveSlideImages fills image fields from stock photo search, one lookup
// per slide in parallel. Failures leave the slide without an image; slide
// generation never fails on imagery.
func (s *Service) resolveSlideImages(ctx context.Context, slides []workflow.Slide) {
	if s.photos == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range slides {
		if slides[i].ImageURL != "" || slides[i].SuggestedImageQuery == "" {
			continue
		}
		i := i
		g.Go(func() error {
			photo, ok := s.searchPhoto(gctx, slides[i].SuggestedImageQuery)
			if ok {
				slides[i].ImageURL = photo.URL
				slides[i].ImageSource = photo.Source
				slides[i].ImageAttribution = photo.Photographer
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) searchPhoto(ctx context.Context, query string) (media.Photo, bool) {
	key := strings.ToLower(strings.TrimSpace(query))

	if s.mediaCache != nil {
		var cached media.Photo
		if s.mediaCache.Get(ctx, key, &cached) && cached.URL != "" {
			return cached, true
		}
	}

	photos, err := s.photos.SearchPhotos(ctx, query, 1)
	if err != nil || len(photos) == 0 {
		if err != nil {
			s.log.Warn("Slide image lookup failed", "query", query, "error", err)
		}
		return media.Photo{}, false
	}

	if s.mediaCache != nil {
		s.mediaCache.Set(ctx, key, photos[0])
	}
	return photos[0], true
}

func (s *Service) GenerateExercises(ctx context.Context, in workflow.ExercisesInput, settings workflow.CourseSettings) (*workflow.ModuleExercises, error) {
	if in.Script == nil || in.Script.Text() == "" {
		return nil, apperrors.NewValidation("script content is required for exercise generation")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	data, err := s.ai.GenerateJSON(ctx,
		exercisesSystemPrompt(settings.Language),
		moduleScriptUserPrompt(in.CourseTitle, in.Module, in.Script),
		aigateway.Options{Model: stepModel(s.log, "exercises"), MaxTokens: stepMaxTokens(s.log, "exercises")},
	)
	if err != nil {
		return nil, err
	}
	return normalizeExercises(data, in.Module)
}

func (s *Service) GenerateQuiz(ctx context.Context, in workflow.QuizInput, settings workflow.CourseSettings) (*workflow.ModuleQuiz, error) {
	if in.Script == nil || in.Script.Text() == "" {
		return nil, apperrors.NewValidation("script content is required for quiz generation")
	}
	if s.ai == nil {
		return nil, apperrors.NewValidation("AI gateway is not configured")
	}

	data, err := s.ai.GenerateJSON(ctx,
		quizSystemPrompt(settings.Language),
		moduleScriptUserPrompt(in.CourseTitle, in.Module, in.Script),
		aigateway.Options{Model: stepModel(s.log, "quiz"), MaxTokens: stepMaxTokens(s.log, "quiz")},
	)
	if err != nil {
		return nil, err
	}

	quiz, dropped, err := normalizeQuiz(data, in.Module)
	if len(dropped) > 0 {
		s.log.Warn("Dropped quiz questions with invalid correct option",
			"module", in.Module.Title, "question_ids", strings.Join(dropped, ","))
	}
	return quiz, err
}

func (s *Service) GenerateVoice(ctx context.Context, in workflow.VoiceInput, settings workflow.CourseSettings) (*workflow.ModuleAudio, error) {
	if in.Script == nil || in.Script.Text() == "" {
		return nil, apperrors.NewValidation("script content is required for narration")
	}
	if s.voice == nil {
		return nil, apperrors.NewValidation("text-to-speech is not configured")
	}

	text := in.Script.Text()
	if settings.Demo.Enabled {
		text = capNarration(text)
	}

	audio, err := s.voice.Synthesize(ctx, text, in.VoiceID, elevenlabs.DefaultSynthesisOptions())
	if err != nil {
		return nil, err
	}

	return &workflow.ModuleAudio{
		ModuleID: in.Module.ID,
		AudioURL: "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio),
		VoiceID:  elevenlabs.EffectiveVoiceID(in.VoiceID),
	}, nil
}

func (s *Service) CreateVideo(ctx context.Context, in workflow.VideoInput, settings workflow.CourseSettings) (*workflow.ModuleVideo, error) {
	if in.Script == nil || in.Script.Text() == "" {
		return nil, apperrors.NewValidation("script content is required for video generation")
	}
	if strings.TrimSpace(in.AvatarID) == "" {
		return nil, apperrors.NewValidation("avatar id is required for video generation")
	}
	if s.avatar == nil {
		return nil, apperrors.NewValidation("avatar video rendering is not configured")
	}

	script := in.Script.Text()
	if settings.Demo.Enabled {
		script = capNarration(script)
	}

	job, err := s.avatar.GenerateVideo(ctx, in.Module.Title, script, in.AvatarID, in.VoiceID)
	if err != nil {
		return nil, err
	}

	return &workflow.ModuleVideo{
		ModuleID:        in.Module.ID,
		ProviderVideoID: job.VideoID,
		AvatarID:        in.AvatarID,
		Status:          workflow.VideoStatusProcessing,
	}, nil
}

func (s *Service) PollVideo(ctx context.Context, providerVideoID string) (*workflow.ModuleVideo, error) {
	if s.avatar == nil {
		return nil, apperrors.NewValidation("avatar video rendering is not configured")
	}

	status, err := s.avatar.VideoStatus(ctx, providerVideoID)
	if err != nil {
		return nil, err
	}

	out := &workflow.ModuleVideo{
		ProviderVideoID: providerVideoID,
		VideoURL:        status.VideoURL,
		ThumbnailURL:    status.ThumbnailURL,
	}
	switch status.Status {
	case "completed":
		out.Status = workflow.VideoStatusCompleted
	case "failed", "error":
		out.Status = workflow.VideoStatusFailed
	case "pending", "waiting":
		out.Status = workflow.VideoStatusPending
	default:
		out.Status = workflow.VideoStatusProcessing
	}
	return out, nil
}

func (s *Service) UploadVideo(ctx context.Context, in workflow.UploadInput) (*workflow.ModuleVideo, error) {
	if in.Video.VideoURL == "" {
		return nil, apperrors.NewValidation("rendered video url is required for publishing")
	}
	if s.hosting == nil {
		return nil, apperrors.NewValidation("video hosting is not configured")
	}

	title := fmt.Sprintf("%s - %s", in.CourseTitle, in.Module.Title)
	hosted, err := s.hosting.PublishFromURL(ctx, title, in.Video.VideoURL)
	if err != nil {
		return nil, err
	}

	out := in.Video
	out.HostedURL = hosted.VideoURL
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = hosted.ThumbnailURL
	}
	return &out, nil
}

func (s *Service) StartExport(ctx context.Context, in workflow.ExportInput, settings workflow.CourseSettings) (*workflow.PresentonState, error) {
	if s.exporter == nil {
		return nil, apperrors.NewValidation("presentation export is not configured")
	}

	numSlides := in.NumSlides
	if settings.Demo.Enabled && settings.Demo.MaxSlides > 0 && (numSlides <= 0 || numSlides > settings.Demo.MaxSlides) {
		numSlides = settings.Demo.MaxSlides
	}

	task, err := s.exporter.Generate(ctx, presenton.GenerateRequest{
		Topic:        in.ModuleTitle,
		Content:      in.ScriptContent,
		NumSlides:    numSlides,
		Language:     settings.Language,
		Style:        "professional",
		Tone:         settings.Tone,
		ExportFormat: in.ExportFormat,
	})
	if err != nil {
		return nil, err
	}

	return &workflow.PresentonState{
		TaskID:            task.TaskID,
		Status:            workflow.ExportStatusPending,
		GenerationHistory: []string{task.TaskID},
	}, nil
}

func (s *Service) PollExport(ctx context.Context, taskID string) (*workflow.PresentonState, error) {
	if s.exporter == nil {
		return nil, apperrors.NewValidation("presentation export is not configured")
	}

	status, err := s.exporter.Status(ctx, taskID)
	if err != nil {
		return nil, err
	}

	out := &workflow.PresentonState{
		TaskID:      taskID,
		Progress:    status.Progress,
		DownloadURL: status.DownloadURL,
		EditURL:     status.EditURL,
	}
	switch status.Status {
	case "completed":
		out.Status = workflow.ExportStatusCompleted
	case "failed", "error":
		out.Status = workflow.ExportStatusFailed
	case "pending":
		out.Status = workflow.ExportStatusPending
	default:
		out.Status = workflow.ExportStatusProcessing
	}
	return out, nil
}
