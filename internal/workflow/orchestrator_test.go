package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// fakeGen dispatches to per-step function fields; unconfigured steps fail
// loudly so a test cannot silently exercise the wrong path.
type fakeGen struct {
	titlesFn    func(in TitlesInput) ([]TitleSuggestion, error)
	outlineFn   func(in OutlineInput) (*CourseOutline, error)
	scriptFn    func(in ScriptInput) (*ModuleScript, error)
	slidesFn    func(in SlidesInput) ([]Slide, error)
	exercisesFn func(in ExercisesInput) (*ModuleExercises, error)
	quizFn      func(in QuizInput) (*ModuleQuiz, error)
	voiceFn     func(in VoiceInput) (*ModuleAudio, error)
	videoFn     func(in VideoInput) (*ModuleVideo, error)
	pollFn      func(providerVideoID string) (*ModuleVideo, error)
	uploadFn    func(in UploadInput) (*ModuleVideo, error)
}

func (f *fakeGen) GenerateTitles(_ context.Context, in TitlesInput, _ CourseSettings) ([]TitleSuggestion, error) {
	if f.titlesFn == nil {
		return nil, fmt.Errorf("unexpected GenerateTitles call")
	}
	return f.titlesFn(in)
}

func (f *fakeGen) GenerateOutline(_ context.Context, in OutlineInput, _ CourseSettings) (*CourseOutline, error) {
	if f.outlineFn == nil {
		return nil, fmt.Errorf("unexpected GenerateOutline call")
	}
	return f.outlineFn(in)
}

func (f *fakeGen) GenerateScript(_ context.Context, in ScriptInput, _ CourseSettings) (*ModuleScript, error) {
	if f.scriptFn == nil {
		return nil, fmt.Errorf("unexpected GenerateScript call")
	}
	return f.scriptFn(in)
}

func (f *fakeGen) GenerateSlides(_ context.Context, in SlidesInput, _ CourseSettings) ([]Slide, error) {
	if f.slidesFn == nil {
		return nil, fmt.Errorf("unexpected GenerateSlides call")
	}
	return f.slidesFn(in)
}

func (f *fakeGen) GenerateExercises(_ context.Context, in ExercisesInput, _ CourseSettings) (*ModuleExercises, error) {
	if f.exercisesFn == nil {
		return nil, fmt.Errorf("unexpected GenerateExercises call")
	}
	return f.exercisesFn(in)
}

func (f *fakeGen) GenerateQuiz(_ context.Context, in QuizInput, _ CourseSettings) (*ModuleQuiz, error) {
	if f.quizFn == nil {
		return nil, fmt.Errorf("unexpected GenerateQuiz call")
	}
	return f.quizFn(in)
}

func (f *fakeGen) GenerateVoice(_ context.Context, in VoiceInput, _ CourseSettings) (*ModuleAudio, error) {
	if f.voiceFn == nil {
		return nil, fmt.Errorf("unexpected GenerateVoice call")
	}
	return f.voiceFn(in)
}

func (f *fakeGen) CreateVideo(_ context.Context, in VideoInput, _ CourseSettings) (*ModuleVideo, error) {
	if f.videoFn == nil {
		return nil, fmt.Errorf("unexpected CreateVideo call")
	}
	return f.videoFn(in)
}

func (f *fakeGen) PollVideo(_ context.Context, providerVideoID string) (*ModuleVideo, error) {
	if f.pollFn == nil {
		return nil, fmt.Errorf("unexpected PollVideo call")
	}
	return f.pollFn(providerVideoID)
}

func (f *fakeGen) UploadVideo(_ context.Context, in UploadInput) (*ModuleVideo, error) {
	if f.uploadFn == nil {
		return nil, fmt.Errorf("unexpected UploadVideo call")
	}
	return f.uploadFn(in)
}

func (f *fakeGen) StartExport(_ context.Context, _ ExportInput, _ CourseSettings) (*PresentonState, error) {
	return nil, fmt.Errorf("unexpected StartExport call")
}

func (f *fakeGen) PollExport(_ context.Context, _ string) (*PresentonState, error) {
	return nil, fmt.Errorf("unexpected PollExport call")
}

// nopStore satisfies the persistence contract; durable writes are exercised
// separately against the real store.
type nopStore struct{}

func (nopStore) SaveCourse(context.Context, uuid.UUID, map[string]any) error { return nil }
func (nopStore) SaveTitleSuggestions(context.Context, uuid.UUID, []TitleSuggestion, string) error {
	return nil
}
func (nopStore) SaveOutline(context.Context, uuid.UUID, *CourseOutline) error      { return nil }
func (nopStore) SaveScript(context.Context, uuid.UUID, *ModuleScript) error        { return nil }
func (nopStore) ReplaceSlides(context.Context, uuid.UUID, uuid.UUID, []Slide) error {
	return nil
}
func (nopStore) SaveExercises(context.Context, uuid.UUID, *ModuleExercises) error { return nil }
func (nopStore) SaveQuiz(context.Context, uuid.UUID, *ModuleQuiz) error           { return nil }
func (nopStore) SaveAudio(context.Context, uuid.UUID, *ModuleAudio) error         { return nil }
func (nopStore) SaveVideo(context.Context, uuid.UUID, *ModuleVideo) error         { return nil }
func (nopStore) SaveExport(context.Context, uuid.UUID, *PresentonState) error     { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func newTestOrchestrator(t *testing.T, gen GenerationAdapter) *Orchestrator {
	t.Helper()
	return NewOrchestrator(uuid.New(), DefaultSettings(), gen, nopStore{}, testLogger(t))
}

func cannedOutline(n int) *CourseOutline {
	out := &CourseOutline{Title: "Patientsäkerhet", Description: "desc"}
	for i := 0; i < n; i++ {
		out.Modules = append(out.Modules, OutlineModule{
			ID:       uuid.New(),
			Number:   i + 1,
			Title:    fmt.Sprintf("Modul %d", i+1),
			Duration: 10,
		})
	}
	out.TotalDuration = n * 10
	return out
}

func cannedScript(moduleID uuid.UUID, title string) *ModuleScript {
	return &ModuleScript{
		ModuleID:    moduleID,
		ModuleTitle: title,
		Sections: []ScriptSection{
			{ID: "section-1", Title: "Intro", Content: "Välkommen till modulen."},
		},
		EstimatedDuration: 10,
		TotalWords:        4,
	}
}

func mustGenerateOutline(t *testing.T, o *Orchestrator, n int) {
	t.Helper()
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "patientsäkerhet"}); err != nil {
		t.Fatalf("title generation: %v", err)
	}
	if err := o.Generate(context.Background(), StepOutline, GenerateRequest{NumModules: n}); err != nil {
		t.Fatalf("outline generation: %v", err)
	}
}

func standardGen(n int) *fakeGen {
	return &fakeGen{
		titlesFn: func(in TitlesInput) ([]TitleSuggestion, error) {
			return []TitleSuggestion{
				{ID: "1", Title: "Patientsäkerhet i praktiken"},
				{ID: "2", Title: "Säker vård"},
			}, nil
		},
		outlineFn: func(in OutlineInput) (*CourseOutline, error) {
			return cannedOutline(n), nil
		},
		scriptFn: func(in ScriptInput) (*ModuleScript, error) {
			return cannedScript(in.Module.ID, in.Module.Title), nil
		},
	}
}

func TestGenerateTitles_CompletesStep(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))

	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "patientsäkerhet"}); err != nil {
		t.Fatalf("Generate(title): %v", err)
	}

	st := o.Snapshot()
	if st.StepStatus[StepTitle] != StatusReady {
		t.Fatalf("title status = %q, want %q", st.StepStatus[StepTitle], StatusReady)
	}
	if !st.Completed[StepTitle] {
		t.Fatalf("title step should be completed")
	}
	if len(st.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(st.Suggestions))
	}
	if st.IsProcessing {
		t.Fatalf("processing flag should be cleared")
	}
}

func TestGenerate_InvalidStep(t *testing.T) {
	o := newTestOrchestrator(t, &fakeGen{})
	err := o.Generate(context.Background(), Step("bogus"), GenerateRequest{})
	if !apperrors.IsValidation(err) {
		t.Fatalf("want validation error for unknown step, got %v", err)
	}
}

func TestGenerate_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gen := &fakeGen{
		titlesFn: func(in TitlesInput) ([]TitleSuggestion, error) {
			close(started)
			<-release
			return []TitleSuggestion{{ID: "1", Title: "T"}}, nil
		},
	}
	o := newTestOrchestrator(t, gen)

	done := make(chan error, 1)
	go func() {
		done <- o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"})
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first generation never started")
	}

	err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"})
	if !apperrors.IsValidation(err) {
		t.Fatalf("concurrent generation should be rejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "already in progress") {
		t.Fatalf("unexpected rejection message: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
}

func TestGenerate_ReadyRequiresRegenerate(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("Generate(title): %v", err)
	}

	err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"})
	if !apperrors.IsValidation(err) {
		t.Fatalf("a ready step must reject plain generate, got %v", err)
	}
	if err := o.Regenerate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("Regenerate(title): %v", err)
	}
}

func TestGenerateFailure_AllOrNothing(t *testing.T) {
	gen := standardGen(3)
	gen.titlesFn = func(in TitlesInput) ([]TitleSuggestion, error) {
		return nil, apperrors.NewTransport(nil, "gateway unreachable")
	}
	o := newTestOrchestrator(t, gen)

	err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"})
	if !apperrors.IsTransport(err) {
		t.Fatalf("want transport error, got %v", err)
	}

	st := o.Snapshot()
	if st.StepStatus[StepTitle] != StatusError {
		t.Fatalf("title status = %q, want %q", st.StepStatus[StepTitle], StatusError)
	}
	if st.Completed[StepTitle] {
		t.Fatalf("a failed step must not be completed")
	}
	if len(st.Suggestions) != 0 {
		t.Fatalf("no partial artifact may survive a failure")
	}
	if st.LastError == "" {
		t.Fatalf("last error should be recorded")
	}
	if st.IsProcessing {
		t.Fatalf("processing flag should be cleared after failure")
	}

	// The step is retryable from the error state.
	gen.titlesFn = standardGen(3).titlesFn
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("retry after error: %v", err)
	}
}

func TestOutlineFailure_LeavesOutlineUntouched(t *testing.T) {
	gen := standardGen(3)
	gen.outlineFn = func(in OutlineInput) (*CourseOutline, error) {
		return nil, apperrors.NewTransport(nil, "gateway timeout")
	}
	o := newTestOrchestrator(t, gen)
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("Generate(title): %v", err)
	}

	err := o.Generate(context.Background(), StepOutline, GenerateRequest{NumModules: 3})
	if !apperrors.IsTransport(err) {
		t.Fatalf("want transport error, got %v", err)
	}

	st := o.Snapshot()
	if st.Outline != nil {
		t.Fatalf("a failed outline call must not mutate the outline")
	}
	if st.Completed[StepOutline] {
		t.Fatalf("completed set must not gain a failed step")
	}
}

func TestScript_RequiresOutline(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))
	err := o.Generate(context.Background(), StepScript, GenerateRequest{})
	if !apperrors.IsValidation(err) {
		t.Fatalf("script without outline should fail validation, got %v", err)
	}
}

func TestScript_GeneratesEveryModule(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))
	mustGenerateOutline(t, o, 3)

	if err := o.Generate(context.Background(), StepScript, GenerateRequest{}); err != nil {
		t.Fatalf("Generate(script): %v", err)
	}

	st := o.Snapshot()
	if len(st.Scripts) != 3 {
		t.Fatalf("got %d scripts, want 3", len(st.Scripts))
	}
	for _, m := range st.Outline.Modules {
		if st.Scripts[m.ID] == nil {
			t.Fatalf("module %d has no script", m.Number)
		}
	}
	if !st.Completed[StepScript] {
		t.Fatalf("script step should be completed once every module has one")
	}
}

func TestScript_SingleModuleLeavesStepIncomplete(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))
	mustGenerateOutline(t, o, 3)

	st := o.Snapshot()
	target := st.Outline.Modules[1].ID
	if err := o.Generate(context.Background(), StepScript, GenerateRequest{ModuleID: &target}); err != nil {
		t.Fatalf("Generate(script, module): %v", err)
	}

	st = o.Snapshot()
	if len(st.Scripts) != 1 {
		t.Fatalf("got %d scripts, want 1", len(st.Scripts))
	}
	if st.Completed[StepScript] {
		t.Fatalf("script step must not complete with modules missing")
	}
	if st.StepStatus[StepScript] != StatusIdle {
		t.Fatalf("script status = %q, want %q", st.StepStatus[StepScript], StatusIdle)
	}
}

func TestScript_PlainGenerateResumesRemainingModules(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(3))
	mustGenerateOutline(t, o, 3)

	st := o.Snapshot()
	target := st.Outline.Modules[1].ID
	if err := o.Generate(context.Background(), StepScript, GenerateRequest{ModuleID: &target}); err != nil {
		t.Fatalf("Generate(script, module): %v", err)
	}

	// A plain generate must be accepted and fill in the two missing modules.
	if err := o.Generate(context.Background(), StepScript, GenerateRequest{}); err != nil {
		t.Fatalf("Generate(script) after partial run: %v", err)
	}

	st = o.Snapshot()
	if len(st.Scripts) != 3 {
		t.Fatalf("got %d scripts, want 3", len(st.Scripts))
	}
	if !st.Completed[StepScript] {
		t.Fatalf("script step must complete once every module has a script")
	}
	if st.StepStatus[StepScript] != StatusReady {
		t.Fatalf("script status = %q, want %q", st.StepStatus[StepScript], StatusReady)
	}
}

func TestOutlineRegenerate_PreservesModuleIDsByPosition(t *testing.T) {
	gen := standardGen(3)
	o := newTestOrchestrator(t, gen)
	mustGenerateOutline(t, o, 3)

	before := o.Snapshot()
	if err := o.Generate(context.Background(), StepScript, GenerateRequest{}); err != nil {
		t.Fatalf("Generate(script): %v", err)
	}

	// Shrink the outline to two modules.
	gen.outlineFn = func(in OutlineInput) (*CourseOutline, error) {
		return cannedOutline(2), nil
	}
	if err := o.Regenerate(context.Background(), StepOutline, GenerateRequest{NumModules: 2}); err != nil {
		t.Fatalf("Regenerate(outline): %v", err)
	}

	after := o.Snapshot()
	if len(after.Outline.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(after.Outline.Modules))
	}
	for i := range after.Outline.Modules {
		if after.Outline.Modules[i].ID != before.Outline.Modules[i].ID {
			t.Fatalf("module %d identity changed across regeneration", i+1)
		}
		if after.Scripts[after.Outline.Modules[i].ID] == nil {
			t.Fatalf("surviving module %d lost its script", i+1)
		}
	}
	if len(after.Scripts) != 2 {
		t.Fatalf("dropped module's script should be pruned, have %d scripts", len(after.Scripts))
	}
	if after.Completed[StepScript] != true {
		t.Fatalf("script step should stay completed when every surviving module has a script")
	}
}

func TestOutlineRegenerate_DemotesIncompleteSteps(t *testing.T) {
	gen := standardGen(2)
	o := newTestOrchestrator(t, gen)
	mustGenerateOutline(t, o, 2)

	if err := o.Generate(context.Background(), StepScript, GenerateRequest{}); err != nil {
		t.Fatalf("Generate(script): %v", err)
	}

	// Grow the outline; the new module has no script yet.
	gen.outlineFn = func(in OutlineInput) (*CourseOutline, error) {
		return cannedOutline(4), nil
	}
	if err := o.Regenerate(context.Background(), StepOutline, GenerateRequest{NumModules: 4}); err != nil {
		t.Fatalf("Regenerate(outline): %v", err)
	}

	st := o.Snapshot()
	if st.Completed[StepScript] {
		t.Fatalf("script step must be demoted when new modules lack scripts")
	}
}

func TestSkip_OptionalOnly(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(2))

	if err := o.Skip(StepScript); !apperrors.IsValidation(err) {
		t.Fatalf("script must not be skippable, got %v", err)
	}
	if err := o.Skip(StepQuiz); err != nil {
		t.Fatalf("Skip(quiz): %v", err)
	}

	st := o.Snapshot()
	if !st.Completed[StepQuiz] {
		t.Fatalf("skipped step should count as completed")
	}
	if st.StepStatus[StepQuiz] != StatusReady {
		t.Fatalf("skipped step status = %q, want %q", st.StepStatus[StepQuiz], StatusReady)
	}
	if len(st.Quizzes) != 0 {
		t.Fatalf("skipping must not fabricate artifacts")
	}
}

func TestAdvance_RequiresCompletedCurrent(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(2))

	if err := o.Advance(); !apperrors.IsValidation(err) {
		t.Fatalf("advance from an incomplete step should fail, got %v", err)
	}
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("Generate(title): %v", err)
	}
	if err := o.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if st := o.Snapshot(); st.CurrentStep != StepOutline {
		t.Fatalf("current step = %q, want %q", st.CurrentStep, StepOutline)
	}
}

func TestGoTo_ReachabilityEnforced(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(2))
	mustGenerateOutline(t, o, 2)

	if err := o.GoTo(StepVideo); !apperrors.IsValidation(err) {
		t.Fatalf("jump past the frontier should fail, got %v", err)
	}
	if err := o.GoTo(StepTitle); err != nil {
		t.Fatalf("jump back to a completed step: %v", err)
	}
	if st := o.Snapshot(); st.CurrentStep != StepTitle {
		t.Fatalf("current step = %q, want %q", st.CurrentStep, StepTitle)
	}
}

func TestReset_ClearsAggregate(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(2))
	mustGenerateOutline(t, o, 2)

	o.Reset()

	st := o.Snapshot()
	if st.CurrentStep != StepTitle {
		t.Fatalf("reset should return to the first step, got %q", st.CurrentStep)
	}
	if st.Outline != nil || len(st.Suggestions) != 0 || len(st.Scripts) != 0 {
		t.Fatalf("reset should drop in-memory artifacts")
	}
	if len(st.CompletedSteps()) != 0 {
		t.Fatalf("reset should clear completion")
	}
}

func TestSelectTitle(t *testing.T) {
	o := newTestOrchestrator(t, standardGen(2))
	if err := o.Generate(context.Background(), StepTitle, GenerateRequest{Topic: "x"}); err != nil {
		t.Fatalf("Generate(title): %v", err)
	}

	if err := o.SelectTitle("nope"); !apperrors.IsValidation(err) {
		t.Fatalf("unknown suggestion id should fail, got %v", err)
	}
	if err := o.SelectTitle("2"); err != nil {
		t.Fatalf("SelectTitle: %v", err)
	}

	st := o.Snapshot()
	if st.Title != "Säker vård" || st.SelectedTitleID != "2" {
		t.Fatalf("selection not applied: title=%q id=%q", st.Title, st.SelectedTitleID)
	}
}

func TestPollVideos_MarksStepCompleted(t *testing.T) {
	gen := standardGen(2)
	gen.voiceFn = func(in VoiceInput) (*ModuleAudio, error) {
		return &ModuleAudio{ModuleID: in.Module.ID, AudioURL: "data:audio/mpeg;base64,QQ==", VoiceID: "v"}, nil
	}
	gen.videoFn = func(in VideoInput) (*ModuleVideo, error) {
		return &ModuleVideo{
			ModuleID:        in.Module.ID,
			ProviderVideoID: "vid-" + in.Module.ID.String()[:8],
			Status:          VideoStatusProcessing,
		}, nil
	}
	gen.pollFn = func(providerVideoID string) (*ModuleVideo, error) {
		return &ModuleVideo{
			ProviderVideoID: providerVideoID,
			Status:          VideoStatusCompleted,
			VideoURL:        "https://cdn.example/" + providerVideoID + ".mp4",
		}, nil
	}
	o := newTestOrchestrator(t, gen)
	mustGenerateOutline(t, o, 2)

	if err := o.Generate(context.Background(), StepScript, GenerateRequest{}); err != nil {
		t.Fatalf("Generate(script): %v", err)
	}
	if err := o.Generate(context.Background(), StepVideo, GenerateRequest{AvatarID: "avatar-1"}); err != nil {
		t.Fatalf("Generate(video): %v", err)
	}

	st := o.Snapshot()
	if st.Completed[StepVideo] {
		t.Fatalf("video step must not complete while renders are processing")
	}

	if err := o.PollVideos(context.Background()); err != nil {
		t.Fatalf("PollVideos: %v", err)
	}

	st = o.Snapshot()
	if !st.Completed[StepVideo] {
		t.Fatalf("video step should complete once every render finishes")
	}
	for _, v := range st.Videos {
		if v.Status != VideoStatusCompleted || v.VideoURL == "" {
			t.Fatalf("video %s not updated from poll: %+v", v.ProviderVideoID, v)
		}
	}
}
