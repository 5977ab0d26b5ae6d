package generation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

func testModule() workflow.OutlineModule {
	return workflow.OutlineModule{
		ID:       uuid.New(),
		Number:   1,
		Title:    "Grunderna",
		Duration: 10,
	}
}

func TestPickString_SnakeAndCamel(t *testing.T) {
	m := map[string]any{"key_takeaway": "a"}
	if got := pickString(m, "key_takeaway", "keyTakeaway"); got != "a" {
		t.Fatalf("snake_case lookup failed: %q", got)
	}
	m = map[string]any{"keyTakeaway": "b"}
	if got := pickString(m, "key_takeaway", "keyTakeaway"); got != "b" {
		t.Fatalf("camelCase fallback failed: %q", got)
	}
}

func TestPickInt_ToleratesNumericShapes(t *testing.T) {
	cases := map[string]any{
		"float":  float64(7),
		"int":    7,
		"string": "7",
	}
	for name, v := range cases {
		if got := pickInt(map[string]any{"n": v}, "n"); got != 7 {
			t.Fatalf("%s: pickInt = %d, want 7", name, got)
		}
	}
}

func TestNormalizeTitleSuggestions_FillsMissingIDs(t *testing.T) {
	data := map[string]any{
		"suggestions": []any{
			map[string]any{"title": "Kurs A", "explanation": "bra"},
			map[string]any{"title": "Kurs B", "id": "custom"},
			map[string]any{"explanation": "no title, dropped"},
		},
	}
	out, err := normalizeTitleSuggestions(data)
	if err != nil {
		t.Fatalf("normalizeTitleSuggestions: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(out))
	}
	if out[0].ID != "1" {
		t.Fatalf("missing id should default by position, got %q", out[0].ID)
	}
	if out[1].ID != "custom" {
		t.Fatalf("explicit id should be kept, got %q", out[1].ID)
	}
}

func TestNormalizeOutline_NumbersAndDuration(t *testing.T) {
	data := map[string]any{
		"description": "översikt",
		"modules": []any{
			map[string]any{"title": "M1", "estimated_duration": float64(15)},
			map[string]any{"description": "untitled", "estimatedDuration": float64(5)},
		},
	}
	out, err := normalizeOutline(data, "Min kurs")
	if err != nil {
		t.Fatalf("normalizeOutline: %v", err)
	}
	if len(out.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(out.Modules))
	}
	for i, m := range out.Modules {
		if m.Number != i+1 {
			t.Fatalf("module %d numbered %d", i, m.Number)
		}
		if m.ID == uuid.Nil {
			t.Fatalf("module %d has no id", i)
		}
	}
	if out.Modules[1].Title == "" {
		t.Fatalf("untitled module should get a fallback title")
	}
	if out.TotalDuration != 20 {
		t.Fatalf("total duration = %d, want 20", out.TotalDuration)
	}
}

func TestJoinBullets_RoundTrip(t *testing.T) {
	got := joinBullets([]string{"första", " andra ", ""})
	want := "• första\n• andra"
	if got != want {
		t.Fatalf("joinBullets = %q, want %q", got, want)
	}
}

func TestNormalizeSlides_BulletFallbackAndRenumbering(t *testing.T) {
	data := map[string]any{
		"slides": []any{
			map[string]any{
				"slide_number":  float64(5),
				"title":         "Punkter",
				"bullet_points": []any{"en", "två"},
				"layout":        "bullet-points",
			},
			map[string]any{
				"slideNumber": float64(2),
				"content":     "text",
				"layout":      "holographic",
			},
		},
	}
	slides, err := normalizeSlides(data, testModule())
	if err != nil {
		t.Fatalf("normalizeSlides: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if slides[0].SlideNumber != 1 || slides[1].SlideNumber != 2 {
		t.Fatalf("slides not renumbered contiguously: %d, %d", slides[0].SlideNumber, slides[1].SlideNumber)
	}
	if slides[0].Content != "• en\n• två" {
		t.Fatalf("bullet fallback content = %q", slides[0].Content)
	}
	if slides[1].Title != "Untitled" {
		t.Fatalf("missing title fallback = %q", slides[1].Title)
	}
	if slides[1].Layout != workflow.LayoutTitleContent {
		t.Fatalf("unknown layout should fall back, got %q", slides[1].Layout)
	}
}

func TestNormalizeExercises_DropsIncomplete(t *testing.T) {
	data := map[string]any{
		"exercises": []any{
			map[string]any{"title": "Reflektion", "instructions": "Fundera."},
			map[string]any{"title": "Utan instruktioner"},
			map[string]any{"instructions": "Utan titel"},
		},
	}
	out, err := normalizeExercises(data, testModule())
	if err != nil {
		t.Fatalf("normalizeExercises: %v", err)
	}
	if len(out.Exercises) != 1 {
		t.Fatalf("got %d exercises, want 1", len(out.Exercises))
	}
	if out.Exercises[0].ExerciseType != "reflection" {
		t.Fatalf("missing type should default to reflection, got %q", out.Exercises[0].ExerciseType)
	}
}

func TestNormalizeQuiz_DropsInvalidQuestions(t *testing.T) {
	valid := map[string]any{
		"question": "Vad är 2+2?",
		"options": []any{
			map[string]any{"id": "a", "text": "3"},
			map[string]any{"id": "b", "text": "4"},
		},
		"correct_option_id": "b",
	}
	danglingCorrect := map[string]any{
		"question": "Dangling?",
		"options": []any{
			map[string]any{"id": "a", "text": "x"},
			map[string]any{"id": "b", "text": "y"},
		},
		"correctOptionId": "z",
	}
	tooFewOptions := map[string]any{
		"question":          "En?",
		"options":           []any{map[string]any{"id": "a", "text": "x"}},
		"correct_option_id": "a",
	}

	quiz, dropped, err := normalizeQuiz(map[string]any{
		"questions": []any{valid, danglingCorrect, tooFewOptions},
	}, testModule())
	if err != nil {
		t.Fatalf("normalizeQuiz: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(quiz.Questions))
	}
	if len(dropped) != 2 {
		t.Fatalf("got %d dropped ids, want 2", len(dropped))
	}
	if quiz.Questions[0].Difficulty != "medium" {
		t.Fatalf("missing difficulty should default, got %q", quiz.Questions[0].Difficulty)
	}
}

func TestNormalizeQuiz_AllInvalidIsError(t *testing.T) {
	_, _, err := normalizeQuiz(map[string]any{
		"questions": []any{
			map[string]any{"question": "?", "correct_option_id": "a"},
		},
	}, testModule())
	if !apperrors.IsTransport(err) {
		t.Fatalf("all-invalid quiz should be a transport error, got %v", err)
	}
}

func TestNormalizeScript_SkipsEmptySections(t *testing.T) {
	mod := testModule()
	data := map[string]any{
		"sections": []any{
			map[string]any{"title": "Intro", "content": "Hej och välkommen."},
			map[string]any{"title": "Tom", "content": ""},
		},
	}
	script, err := normalizeScript(data, mod)
	if err != nil {
		t.Fatalf("normalizeScript: %v", err)
	}
	if len(script.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(script.Sections))
	}
	if script.ModuleID != mod.ID {
		t.Fatalf("script not bound to module")
	}
	if script.TotalWords != 3 {
		t.Fatalf("total words = %d, want 3", script.TotalWords)
	}
}
