package generation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/clients/aigateway"
	"github.com/vardkurs/coursegen-backend/internal/clients/elevenlabs"
	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// fakeAI answers every completion with a canned payload and records how
// often the gateway was hit.
type fakeAI struct {
	calls      int
	lastSystem string
	payload    map[string]any
	err        error
}

func (f *fakeAI) GenerateText(_ context.Context, system, _ string, _ aigateway.Options) (string, error) {
	f.calls++
	f.lastSystem = system
	return "", f.err
}

func (f *fakeAI) GenerateJSON(_ context.Context, system, _ string, _ aigateway.Options) (map[string]any, error) {
	f.calls++
	f.lastSystem = system
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTestService(t *testing.T, ai aigateway.Client) *Service {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewService(ai, nil, nil, nil, nil, nil, nil, log)
}

func demoSettings() workflow.CourseSettings {
	settings := workflow.DefaultSettings()
	settings.Demo = workflow.DemoSettings{Enabled: true, MaxModules: 2, MaxSlides: 3}
	return settings
}

func slidePayload(n int) map[string]any {
	slides := make([]any, 0, n)
	for i := 0; i < n; i++ {
		slides = append(slides, map[string]any{
			"slide_number": float64(i + 1),
			"title":        "Slide",
			"content":      "text",
			"layout":       "title-content",
		})
	}
	return map[string]any{"slides": slides}
}

func modulePayload(n int) map[string]any {
	modules := make([]any, 0, n)
	for i := 0; i < n; i++ {
		modules = append(modules, map[string]any{
			"title":              "Modul",
			"estimated_duration": float64(10),
		})
	}
	return map[string]any{"modules": modules}
}

func scriptInput() workflow.SlidesInput {
	mod := workflow.OutlineModule{ID: uuid.New(), Number: 1, Title: "Grunderna", Duration: 10}
	return workflow.SlidesInput{
		CourseTitle: "Kurs",
		Module:      mod,
		Script: &workflow.ModuleScript{
			ModuleID: mod.ID,
			Sections: []workflow.ScriptSection{{ID: "section-1", Content: "Innehåll."}},
		},
	}
}

func TestGenerateTitles_ValidatesBeforeGatewayCall(t *testing.T) {
	ai := &fakeAI{}
	svc := newTestService(t, ai)

	_, err := svc.GenerateTitles(context.Background(), workflow.TitlesInput{Topic: "  "}, workflow.DefaultSettings())
	if !apperrors.IsValidation(err) {
		t.Fatalf("blank topic should fail validation, got %v", err)
	}
	if ai.calls != 0 {
		t.Fatalf("validation failures must not reach the gateway, saw %d calls", ai.calls)
	}
}

func TestGenerateTitles_NoGatewayConfigured(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.GenerateTitles(context.Background(), workflow.TitlesInput{Topic: "x"}, workflow.DefaultSettings())
	if !apperrors.IsValidation(err) {
		t.Fatalf("missing gateway should fail validation, got %v", err)
	}
}

func TestGenerateOutline_DemoCapsBothSides(t *testing.T) {
	// The model ignores the capped count and returns five modules anyway.
	ai := &fakeAI{payload: modulePayload(5)}
	svc := newTestService(t, ai)

	outline, err := svc.GenerateOutline(context.Background(),
		workflow.OutlineInput{Title: "Kurs", NumModules: 5}, demoSettings())
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(outline.Modules) != 2 {
		t.Fatalf("demo mode should cap modules at 2, got %d", len(outline.Modules))
	}
	if outline.TotalDuration != 20 {
		t.Fatalf("total duration not recomputed after truncation, got %d", outline.TotalDuration)
	}
	// The prompt itself must already request the capped count.
	if !strings.Contains(ai.lastSystem, "exakt 2 moduler") {
		t.Fatalf("prompt should ask for the capped module count, got %q", ai.lastSystem)
	}
}

func TestGenerateOutline_FullCountWithoutDemo(t *testing.T) {
	ai := &fakeAI{payload: modulePayload(5)}
	svc := newTestService(t, ai)

	outline, err := svc.GenerateOutline(context.Background(),
		workflow.OutlineInput{Title: "Intro to First Aid", NumModules: 5}, workflow.DefaultSettings())
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(outline.Modules) != 5 {
		t.Fatalf("got %d modules, want 5", len(outline.Modules))
	}
	for i, m := range outline.Modules {
		if m.Number != i+1 {
			t.Fatalf("module %d numbered %d, want contiguous from 1", i, m.Number)
		}
	}
}

func TestGenerateSlides_DemoTruncatesAndRenumbers(t *testing.T) {
	ai := &fakeAI{payload: slidePayload(10)}
	svc := newTestService(t, ai)

	slides, err := svc.GenerateSlides(context.Background(), scriptInput(), demoSettings())
	if err != nil {
		t.Fatalf("GenerateSlides: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("demo mode should cap slides at 3, got %d", len(slides))
	}
	for i, sl := range slides {
		if sl.SlideNumber != i+1 {
			t.Fatalf("slide %d numbered %d", i, sl.SlideNumber)
		}
	}
}

func TestGenerateSlides_RequiresScript(t *testing.T) {
	ai := &fakeAI{payload: slidePayload(3)}
	svc := newTestService(t, ai)

	in := scriptInput()
	in.Script = nil
	if _, err := svc.GenerateSlides(context.Background(), in, workflow.DefaultSettings()); !apperrors.IsValidation(err) {
		t.Fatalf("missing script should fail validation, got %v", err)
	}
	if ai.calls != 0 {
		t.Fatalf("validation failures must not reach the gateway")
	}
}

func TestGenerateScript_GatewayErrorPassesThrough(t *testing.T) {
	ai := &fakeAI{err: apperrors.QuotaFromStatus(429)}
	svc := newTestService(t, ai)

	in := workflow.ScriptInput{
		CourseTitle: "Kurs",
		Module:      workflow.OutlineModule{ID: uuid.New(), Number: 1, Title: "Grunderna", Duration: 10},
	}
	_, err := svc.GenerateScript(context.Background(), in, workflow.DefaultSettings())
	if !apperrors.IsQuota(err) {
		t.Fatalf("quota errors must pass through untouched, got %v", err)
	}
}

func TestGenerateVoice_NotConfigured(t *testing.T) {
	svc := newTestService(t, &fakeAI{})
	in := workflow.VoiceInput{
		Module: workflow.OutlineModule{ID: uuid.New(), Title: "Grunderna"},
		Script: &workflow.ModuleScript{
			Sections: []workflow.ScriptSection{{ID: "section-1", Content: "Text."}},
		},
	}
	if _, err := svc.GenerateVoice(context.Background(), in, workflow.DefaultSettings()); !apperrors.IsValidation(err) {
		t.Fatalf("missing voice client should fail validation, got %v", err)
	}
}

// fakeVoice records the narration text handed to the TTS provider.
type fakeVoice struct {
	lastText string
}

func (f *fakeVoice) ListVoices(_ context.Context) ([]elevenlabs.Voice, error) {
	return nil, nil
}

func (f *fakeVoice) Synthesize(_ context.Context, text, _ string, _ elevenlabs.SynthesisOptions) ([]byte, error) {
	f.lastText = text
	return []byte("mp3"), nil
}

func TestGenerateVoice_DemoCapKeepsRunesIntact(t *testing.T) {
	voice := &fakeVoice{}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	svc := NewService(&fakeAI{}, voice, nil, nil, nil, nil, nil, log)

	// A one-byte prefix shifts every following two-byte rune off the cap
	// boundary, so a byte slice at the cap would land mid-rune.
	narration := "x" + strings.Repeat("å", 1000)
	in := workflow.VoiceInput{
		Module: workflow.OutlineModule{ID: uuid.New(), Title: "Grunderna"},
		Script: &workflow.ModuleScript{
			Sections: []workflow.ScriptSection{{ID: "section-1", Content: narration}},
		},
	}

	if _, err := svc.GenerateVoice(context.Background(), in, demoSettings()); err != nil {
		t.Fatalf("GenerateVoice: %v", err)
	}
	if len(voice.lastText) == 0 || len(voice.lastText) > demoNarrationChars {
		t.Fatalf("narration length = %d, want 1..%d", len(voice.lastText), demoNarrationChars)
	}
	if !utf8.ValidString(voice.lastText) {
		t.Fatalf("capped narration is not valid UTF-8")
	}
	if !strings.HasPrefix(narration, voice.lastText) {
		t.Fatalf("capped narration must be a prefix of the script text")
	}
}
