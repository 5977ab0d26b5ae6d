package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// DefaultGenerationTimeout bounds any single generation call so
// isProcessing can never hang indefinitely on a stuck collaborator.
const DefaultGenerationTimeout = 120 * time.Second

const persistTimeout = 30 * time.Second

// GenerateRequest carries the caller-supplied knobs for one generation call.
// ModuleID narrows a per-module step to a single module; when nil the
// orchestrator walks every outline module missing an artifact.
type GenerateRequest struct {
	Topic             string     `json:"topic,omitempty"`
	NumModules        int        `json:"num_modules,omitempty"`
	NumSlides         int        `json:"num_slides,omitempty"`
	ModuleID          *uuid.UUID `json:"module_id,omitempty"`
	AdditionalContext string     `json:"additional_context,omitempty"`
	VoiceID           string     `json:"voice_id,omitempty"`
	AvatarID          string     `json:"avatar_id,omitempty"`
	ExportFormat      string     `json:"export_format,omitempty"`
}

// Orchestrator owns the WorkflowState for one course and is its only
// writer. Collaborator calls run outside the lock; merges happen under it,
// so a reader always observes either the pre-call or post-call state.
type Orchestrator struct {
	mu    sync.Mutex
	log   *logger.Logger
	gen   GenerationAdapter
	store Store
	state *WorkflowState

	genTimeout time.Duration
}

func NewOrchestrator(courseID uuid.UUID, settings CourseSettings, gen GenerationAdapter, store Store, baseLog *logger.Logger) *Orchestrator {
	return &Orchestrator{
		log:        baseLog.With("service", "Orchestrator", "course_id", courseID.String()),
		gen:        gen,
		store:      store,
		state:      newState(courseID, settings),
		genTimeout: DefaultGenerationTimeout,
	}
}

// Snapshot returns an immutable deep copy of the current workflow state.
func (o *Orchestrator) Snapshot() *WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Generate runs the generation for a step. Legal only while the step is
// idle or error; a ready step must be regenerated explicitly and a
// generating step is rejected (single-flight, never queued).
func (o *Orchestrator) Generate(ctx context.Context, step Step, req GenerateRequest) error {
	return o.run(ctx, step, req, false)
}

// Regenerate is Generate but also legal from ready; the existing artifact
// for the step's scope is replaced rather than appended.
func (o *Orchestrator) Regenerate(ctx context.Context, step Step, req GenerateRequest) error {
	return o.run(ctx, step, req, true)
}

func (o *Orchestrator) run(ctx context.Context, step Step, req GenerateRequest, regen bool) error {
	if !step.Valid() {
		return apperrors.NewValidation("unknown workflow step %q", step)
	}

	o.mu.Lock()
	switch o.state.status(step) {
	case StatusGenerating:
		o.mu.Unlock()
		return apperrors.NewValidation("generation already in progress for step %q", step)
	case StatusReady:
		if !regen {
			o.mu.Unlock()
			return apperrors.NewValidation("step %q already generated; use regenerate to replace it", step)
		}
	}
	o.state.StepStatus[step] = StatusGenerating
	o.state.IsProcessing = true
	o.state.LastError = ""
	o.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	var err error
	switch step {
	case StepTitle:
		err = o.runTitle(tctx, req)
	case StepOutline:
		err = o.runOutline(tctx, req)
	case StepScript, StepSlides, StepExercises, StepQuiz, StepVoice, StepVideo, StepUpload:
		err = o.runPerModule(tctx, step, req, regen)
	default:
		err = apperrors.NewValidation("step %q has no generation operation", step)
	}
	if err != nil {
		o.fail(step, err)
		return err
	}
	return nil
}

func (o *Orchestrator) runTitle(ctx context.Context, req GenerateRequest) error {
	o.mu.Lock()
	in := TitlesInput{Topic: req.Topic, AdditionalContext: req.AdditionalContext}
	if in.Topic == "" {
		in.Topic = o.state.Title
	}
	settings := o.state.Settings
	o.mu.Unlock()

	suggestions, err := o.gen.GenerateTitles(ctx, in, settings)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.state.Suggestions = suggestions
	o.complete(StepTitle)
	courseID := o.state.CourseID
	o.mu.Unlock()

	o.persist("title_suggestions", func(pctx context.Context) error {
		return o.store.SaveTitleSuggestions(pctx, courseID, suggestions, "")
	})
	return nil
}

func (o *Orchestrator) runOutline(ctx context.Context, req GenerateRequest) error {
	o.mu.Lock()
	title := o.state.Title
	settings := o.state.Settings
	o.mu.Unlock()

	numModules := req.NumModules
	if numModules <= 0 {
		numModules = settings.MaxModules
	}
	in := OutlineInput{Title: title, NumModules: numModules, AdditionalContext: req.AdditionalContext}

	outline, err := o.gen.GenerateOutline(ctx, in, settings)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.mergeOutline(outline)
	o.complete(StepOutline)
	courseID := o.state.CourseID
	o.mu.Unlock()

	o.persist("outline", func(pctx context.Context) error {
		return o.store.SaveOutline(pctx, courseID, outline)
	})
	return nil
}

// mergeOutline replaces the outline while keeping stable module identities
// by position, so artifacts of surviving modules stay attached. Artifacts of
// modules that fell off the new outline are dropped from memory; their
// durable rows are retained until explicitly regenerated.
func (o *Orchestrator) mergeOutline(outline *CourseOutline) {
	if prev := o.state.Outline; prev != nil {
		for i := range outline.Modules {
			if i < len(prev.Modules) {
				outline.Modules[i].ID = prev.Modules[i].ID
			}
		}
	}
	o.state.Outline = outline
	if outline.Title != "" && o.state.Title == "" {
		o.state.Title = outline.Title
	}

	keep := make(map[uuid.UUID]bool, len(outline.Modules))
	for _, m := range outline.Modules {
		keep[m.ID] = true
	}
	pruneMap(o.state.Scripts, keep)
	for id := range o.state.Slides {
		if !keep[id] {
			delete(o.state.Slides, id)
		}
	}
	pruneMap(o.state.Exercises, keep)
	pruneMap(o.state.Quizzes, keep)
	pruneMap(o.state.Audio, keep)
	pruneMap(o.state.Videos, keep)

	o.recomputePerModuleCompletion()
}

func pruneMap[T any](m map[uuid.UUID]*T, keep map[uuid.UUID]bool) {
	for id := range m {
		if !keep[id] {
			delete(m, id)
		}
	}
}

func (o *Orchestrator) runPerModule(ctx context.Context, step Step, req GenerateRequest, regen bool) error {
	o.mu.Lock()
	if o.state.Outline == nil || len(o.state.Outline.Modules) == 0 {
		o.mu.Unlock()
		return apperrors.NewValidation("outline is required before %q generation", step)
	}
	targets, err := o.selectTargets(step, req, regen)
	settings := o.state.Settings
	courseTitle := o.state.Title
	courseID := o.state.CourseID
	videoSettings := o.state.VideoSettings
	o.mu.Unlock()
	if err != nil {
		return err
	}

	for _, mod := range targets {
		if err := o.runModule(ctx, step, req, mod, settings, courseTitle, courseID, videoSettings); err != nil {
			return err
		}
	}

	o.mu.Lock()
	if o.perModuleComplete(step) {
		o.complete(step)
	} else {
		// Partially generated steps stay idle so a plain generate can pick
		// up the remaining modules without forcing a regenerate.
		o.state.StepStatus[step] = StatusIdle
		o.state.IsProcessing = false
	}
	o.mu.Unlock()
	return nil
}

// selectTargets implements the module cursor: a specific module when asked,
// every module on regenerate, otherwise only modules missing the artifact.
// Callers hold the lock.
func (o *Orchestrator) selectTargets(step Step, req GenerateRequest, regen bool) ([]OutlineModule, error) {
	modules := o.state.Outline.Modules
	if req.ModuleID != nil {
		for _, m := range modules {
			if m.ID == *req.ModuleID {
				return []OutlineModule{m}, nil
			}
		}
		return nil, apperrors.NewValidation("module %s not found in outline", req.ModuleID)
	}
	if regen {
		return append([]OutlineModule(nil), modules...), nil
	}
	var out []OutlineModule
	for _, m := range modules {
		if !o.hasArtifact(step, m.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (o *Orchestrator) hasArtifact(step Step, moduleID uuid.UUID) bool {
	switch step {
	case StepScript:
		return o.state.Scripts[moduleID] != nil
	case StepSlides:
		return len(o.state.Slides[moduleID]) > 0
	case StepExercises:
		return o.state.Exercises[moduleID] != nil
	case StepQuiz:
		return o.state.Quizzes[moduleID] != nil
	case StepVoice:
		return o.state.Audio[moduleID] != nil
	case StepVideo:
		return o.state.Videos[moduleID] != nil
	case StepUpload:
		v := o.state.Videos[moduleID]
		return v != nil && v.HostedURL != ""
	default:
		return false
	}
}

func (o *Orchestrator) perModuleComplete(step Step) bool {
	if o.state.Outline == nil {
		return false
	}
	for _, m := range o.state.Outline.Modules {
		if step == StepVideo {
			v := o.state.Videos[m.ID]
			if v == nil || v.Status != VideoStatusCompleted {
				return false
			}
			continue
		}
		if !o.hasArtifact(step, m.ID) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) runModule(ctx context.Context, step Step, req GenerateRequest, mod OutlineModule, settings CourseSettings, courseTitle string, courseID uuid.UUID, videoSettings VideoSettings) error {
	o.mu.Lock()
	script := o.state.Scripts[mod.ID]
	video := o.state.Videos[mod.ID]
	o.mu.Unlock()

	switch step {
	case StepScript:
		artifact, err := o.gen.GenerateScript(ctx, ScriptInput{
			CourseTitle:       courseTitle,
			Module:            mod,
			TargetDuration:    mod.Duration,
			AdditionalContext: req.AdditionalContext,
		}, settings)
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Scripts[mod.ID] = artifact })
		o.persist("module_script", func(pctx context.Context) error {
			return o.store.SaveScript(pctx, courseID, artifact)
		})

	case StepSlides:
		if script == nil {
			return apperrors.NewValidation("module %d has no script; generate the script step first", mod.Number)
		}
		numSlides := req.NumSlides
		if numSlides <= 0 {
			numSlides = settings.SlidesPerModule
		}
		slides, err := o.gen.GenerateSlides(ctx, SlidesInput{
			CourseTitle: courseTitle,
			Module:      mod,
			Script:      script,
			NumSlides:   numSlides,
		}, settings)
		if err != nil {
			return err
		}
		for i := range slides {
			slides[i].ModuleID = mod.ID
		}
		o.mergeModule(func(st *WorkflowState) { st.Slides[mod.ID] = slides })
		o.persist("slides", func(pctx context.Context) error {
			return o.store.ReplaceSlides(pctx, courseID, mod.ID, slides)
		})

	case StepExercises:
		if script == nil {
			return apperrors.NewValidation("module %d has no script; generate the script step first", mod.Number)
		}
		artifact, err := o.gen.GenerateExercises(ctx, ExercisesInput{CourseTitle: courseTitle, Module: mod, Script: script}, settings)
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Exercises[mod.ID] = artifact })
		o.persist("exercises", func(pctx context.Context) error {
			return o.store.SaveExercises(pctx, courseID, artifact)
		})

	case StepQuiz:
		if script == nil {
			return apperrors.NewValidation("module %d has no script; generate the script step first", mod.Number)
		}
		artifact, err := o.gen.GenerateQuiz(ctx, QuizInput{CourseTitle: courseTitle, Module: mod, Script: script}, settings)
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Quizzes[mod.ID] = artifact })
		o.persist("quiz", func(pctx context.Context) error {
			return o.store.SaveQuiz(pctx, courseID, artifact)
		})

	case StepVoice:
		if script == nil {
			return apperrors.NewValidation("module %d has no script; generate the script step first", mod.Number)
		}
		voiceID := req.VoiceID
		if voiceID == "" {
			voiceID = videoSettings.VoiceID
		}
		artifact, err := o.gen.GenerateVoice(ctx, VoiceInput{Module: mod, Script: script, VoiceID: voiceID}, settings)
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Audio[mod.ID] = artifact })
		o.persist("module_audio", func(pctx context.Context) error {
			return o.store.SaveAudio(pctx, courseID, artifact)
		})

	case StepVideo:
		if script == nil {
			return apperrors.NewValidation("module %d has no script; generate the script step first", mod.Number)
		}
		avatarID := req.AvatarID
		if avatarID == "" {
			avatarID = videoSettings.AvatarID
		}
		artifact, err := o.gen.CreateVideo(ctx, VideoInput{Module: mod, Script: script, AvatarID: avatarID, VoiceID: videoSettings.VoiceID}, settings)
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Videos[mod.ID] = artifact })
		o.persist("module_video", func(pctx context.Context) error {
			return o.store.SaveVideo(pctx, courseID, artifact)
		})

	case StepUpload:
		if video == nil || video.Status != VideoStatusCompleted {
			return apperrors.NewValidation("module %d has no completed video to upload", mod.Number)
		}
		artifact, err := o.gen.UploadVideo(ctx, UploadInput{CourseTitle: courseTitle, Module: mod, Video: *video})
		if err != nil {
			return err
		}
		artifact.ModuleID = mod.ID
		o.mergeModule(func(st *WorkflowState) { st.Videos[mod.ID] = artifact })
		o.persist("module_video", func(pctx context.Context) error {
			return o.store.SaveVideo(pctx, courseID, artifact)
		})
	}
	return nil
}

func (o *Orchestrator) mergeModule(mutate func(st *WorkflowState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	mutate(o.state)
}

// PollVideos refreshes every non-terminal avatar video job and marks the
// video step completed once all modules reached a completed render.
func (o *Orchestrator) PollVideos(ctx context.Context) error {
	o.mu.Lock()
	pending := make([]*ModuleVideo, 0, len(o.state.Videos))
	for _, v := range o.state.Videos {
		if v.Status == VideoStatusPending || v.Status == VideoStatusProcessing {
			cp := *v
			pending = append(pending, &cp)
		}
	}
	courseID := o.state.CourseID
	o.mu.Unlock()

	for _, v := range pending {
		updated, err := o.gen.PollVideo(ctx, v.ProviderVideoID)
		if err != nil {
			o.fail(StepVideo, err)
			return err
		}
		updated.ModuleID = v.ModuleID
		if updated.AvatarID == "" {
			updated.AvatarID = v.AvatarID
		}
		o.mergeModule(func(st *WorkflowState) { st.Videos[v.ModuleID] = updated })
		o.persist("module_video", func(pctx context.Context) error {
			return o.store.SaveVideo(pctx, courseID, updated)
		})
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.perModuleComplete(StepVideo) {
		o.state.Completed[StepVideo] = true
		o.state.StepStatus[StepVideo] = StatusReady
	}
	return nil
}

// Advance moves the current step forward; legal only once the current step
// is completed.
func (o *Orchestrator) Advance() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Completed[o.state.CurrentStep] {
		return apperrors.NewValidation("step %q is not completed yet", o.state.CurrentStep)
	}
	next, ok := NextStep(o.state.CurrentStep)
	if !ok {
		return apperrors.NewValidation("workflow is already at the terminal step")
	}
	o.state.CurrentStep = next
	o.persistCourseProgress()
	return nil
}

// GoTo jumps to a reachable step for review or editing. Later artifacts are
// untouched until explicitly regenerated.
func (o *Orchestrator) GoTo(step Step) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !IsReachable(step, o.state.Completed) {
		return apperrors.NewValidation("step %q is not reachable from the current progress", step)
	}
	o.state.CurrentStep = step
	o.persistCourseProgress()
	return nil
}

// Skip marks an optional step completed with an empty artifact and advances
// past it when it is the current step.
func (o *Orchestrator) Skip(step Step) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !IsOptional(step) {
		return apperrors.NewValidation("step %q cannot be skipped", step)
	}
	if o.state.status(step) == StatusGenerating {
		return apperrors.NewValidation("generation already in progress for step %q", step)
	}
	o.state.Completed[step] = true
	o.state.StepStatus[step] = StatusReady
	if o.state.CurrentStep == step {
		if next, ok := NextStep(step); ok {
			o.state.CurrentStep = next
		}
	}
	o.persistCourseProgress()
	return nil
}

// Reset clears the in-memory aggregate back to the initial empty state.
// Durably persisted records are left untouched.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = newState(o.state.CourseID, DefaultSettings())
}

// SelectTitle makes one generated suggestion the course title.
func (o *Orchestrator) SelectTitle(suggestionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.state.Suggestions {
		if s.ID == suggestionID {
			o.state.Title = s.Title
			o.state.SelectedTitleID = s.ID
			courseID := o.state.CourseID
			title := s.Title
			o.persist("course", func(pctx context.Context) error {
				return o.store.SaveCourse(pctx, courseID, map[string]any{"title": title})
			})
			return nil
		}
	}
	return apperrors.NewValidation("title suggestion %q not found", suggestionID)
}

// SetTitle sets a custom course title typed by the user.
func (o *Orchestrator) SetTitle(title string) error {
	if title == "" {
		return apperrors.NewValidation("title is required")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Title = title
	o.state.SelectedTitleID = ""
	courseID := o.state.CourseID
	o.persist("course", func(pctx context.Context) error {
		return o.store.SaveCourse(pctx, courseID, map[string]any{"title": title})
	})
	return nil
}

// UpdateSettings is the only mutation path for course settings; settings are
// immutable for the duration of any single generation call.
func (o *Orchestrator) UpdateSettings(settings CourseSettings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if settings.Language == "" {
		settings.Language = o.state.Settings.Language
	}
	if settings.Tone == "" {
		settings.Tone = o.state.Settings.Tone
	}
	o.state.Settings = settings
}

func (o *Orchestrator) SetVideoSettings(vs VideoSettings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.VideoSettings = vs
}

// StartExport kicks off the Presenton export track for one module. Its
// lifecycle is independent of the main pipeline.
func (o *Orchestrator) StartExport(ctx context.Context, req GenerateRequest) error {
	o.mu.Lock()
	if o.state.Outline == nil {
		o.mu.Unlock()
		return apperrors.NewValidation("outline is required before export")
	}
	var mod *OutlineModule
	if req.ModuleID != nil {
		for i := range o.state.Outline.Modules {
			if o.state.Outline.Modules[i].ID == *req.ModuleID {
				mod = &o.state.Outline.Modules[i]
				break
			}
		}
	} else if len(o.state.Outline.Modules) > 0 {
		mod = &o.state.Outline.Modules[0]
	}
	if mod == nil {
		o.mu.Unlock()
		return apperrors.NewValidation("module %s not found in outline", req.ModuleID)
	}
	in := ExportInput{
		CourseTitle:  o.state.Title,
		ModuleTitle:  mod.Title,
		NumSlides:    req.NumSlides,
		ExportFormat: req.ExportFormat,
	}
	if script := o.state.Scripts[mod.ID]; script != nil {
		in.ScriptContent = script.Text()
	}
	settings := o.state.Settings
	courseID := o.state.CourseID
	o.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	export, err := o.gen.StartExport(tctx, in, settings)
	if err != nil {
		return err
	}

	o.mu.Lock()
	if prev := o.state.Presenton; prev != nil {
		export.GenerationHistory = append(append([]string(nil), prev.GenerationHistory...), export.GenerationHistory...)
	}
	o.state.Presenton = export
	o.mu.Unlock()

	o.persist("presenton_task", func(pctx context.Context) error {
		return o.store.SaveExport(pctx, courseID, export)
	})
	return nil
}

// PollExport refreshes the export track state until it reaches a terminal
// status.
func (o *Orchestrator) PollExport(ctx context.Context) error {
	o.mu.Lock()
	p := o.state.Presenton
	courseID := o.state.CourseID
	o.mu.Unlock()
	if p == nil || p.TaskID == "" {
		return apperrors.NewValidation("no export task has been started")
	}
	if p.Status == ExportStatusCompleted || p.Status == ExportStatusFailed {
		return nil
	}

	updated, err := o.gen.PollExport(ctx, p.TaskID)
	if err != nil {
		return err
	}

	o.mu.Lock()
	updated.GenerationHistory = append(append([]string(nil), p.GenerationHistory...), updated.GenerationHistory...)
	o.state.Presenton = updated
	o.mu.Unlock()

	o.persist("presenton_task", func(pctx context.Context) error {
		return o.store.SaveExport(pctx, courseID, updated)
	})
	return nil
}

// complete marks a step ready and completed. Callers hold the lock.
func (o *Orchestrator) complete(step Step) {
	o.state.StepStatus[step] = StatusReady
	o.state.Completed[step] = true
	o.state.IsProcessing = false
	o.state.LastError = ""
	o.persistCourseProgress()
}

// fail records a generation error: sub-status error, lastError populated,
// no partial artifact, isProcessing cleared.
func (o *Orchestrator) fail(step Step, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.StepStatus[step] = StatusError
	o.state.LastError = err.Error()
	o.state.IsProcessing = false
	o.log.Warn("Step generation failed", "step", string(step), "error", err)
}

// recomputePerModuleCompletion re-derives completion of per-module steps
// after an outline edit changed the module set. Callers hold the lock.
func (o *Orchestrator) recomputePerModuleCompletion() {
	for _, s := range stepOrder {
		if !PerModule(s) || !o.state.Completed[s] {
			continue
		}
		if !o.perModuleComplete(s) {
			delete(o.state.Completed, s)
			if o.state.status(s) == StatusReady {
				o.state.StepStatus[s] = StatusIdle
			}
		}
	}
}

// persistCourseProgress fires a best-effort partial update of course-scoped
// workflow fields. Callers hold the lock.
func (o *Orchestrator) persistCourseProgress() {
	courseID := o.state.CourseID
	fields := map[string]any{
		"current_step":    string(o.state.CurrentStep),
		"completed_steps": stepsToStrings(o.state.CompletedSteps()),
	}
	o.persist("course", func(pctx context.Context) error {
		return o.store.SaveCourse(pctx, courseID, fields)
	})
}

// persist runs a durable write in the background: ordered after the merge
// that precedes it, never awaited by the caller, and fatal to nothing.
func (o *Orchestrator) persist(kind string, fn func(ctx context.Context) error) {
	if o.store == nil {
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := fn(pctx); err != nil {
			perr := &apperrors.PersistenceError{EntityKind: kind, Cause: err}
			o.log.Warn("Durable write failed; in-memory state remains authoritative", "entity", kind, "error", perr)
		}
	}()
}

func stepsToStrings(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}
