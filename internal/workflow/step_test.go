package workflow

import "testing"

func TestNextStep_FollowsPipelineOrder(t *testing.T) {
	want := []Step{
		StepOutline, StepScript, StepSlides, StepExercises,
		StepQuiz, StepVoice, StepVideo, StepUpload,
	}
	current := StepTitle
	for _, next := range want {
		got, ok := NextStep(current)
		if !ok {
			t.Fatalf("NextStep(%q) reported terminal, want %q", current, next)
		}
		if got != next {
			t.Fatalf("NextStep(%q) = %q, want %q", current, got, next)
		}
		current = got
	}
	if _, ok := NextStep(StepUpload); ok {
		t.Fatalf("NextStep(%q) should be terminal", StepUpload)
	}
}

func TestNextStep_UnknownStep(t *testing.T) {
	if _, ok := NextStep(Step("bogus")); ok {
		t.Fatalf("NextStep should reject an unknown step")
	}
}

func TestIsReachable_FrontierWithNothingCompleted(t *testing.T) {
	completed := map[Step]bool{}
	if !IsReachable(StepTitle, completed) {
		t.Fatalf("the first step must be reachable with no progress")
	}
	if IsReachable(StepOutline, completed) {
		t.Fatalf("steps past the frontier must not be reachable")
	}
}

func TestIsReachable_CompletedAndFrontier(t *testing.T) {
	completed := map[Step]bool{
		StepTitle:   true,
		StepOutline: true,
		StepScript:  true,
	}
	for _, s := range []Step{StepTitle, StepOutline, StepScript, StepSlides} {
		if !IsReachable(s, completed) {
			t.Fatalf("step %q should be reachable", s)
		}
	}
	for _, s := range []Step{StepExercises, StepQuiz, StepVideo, StepUpload} {
		if IsReachable(s, completed) {
			t.Fatalf("step %q should not be reachable yet", s)
		}
	}
}

func TestIsReachable_InvalidStep(t *testing.T) {
	if IsReachable(Step("bogus"), map[Step]bool{StepTitle: true}) {
		t.Fatalf("an unknown step must never be reachable")
	}
}

func TestIsOptional(t *testing.T) {
	for _, s := range []Step{StepExercises, StepQuiz} {
		if !IsOptional(s) {
			t.Fatalf("step %q should be optional", s)
		}
	}
	for _, s := range []Step{StepTitle, StepOutline, StepScript, StepSlides, StepVoice, StepVideo, StepUpload} {
		if IsOptional(s) {
			t.Fatalf("step %q should not be optional", s)
		}
	}
}

func TestPerModule(t *testing.T) {
	if PerModule(StepTitle) || PerModule(StepOutline) {
		t.Fatalf("title and outline are course-level steps")
	}
	for _, s := range []Step{StepScript, StepSlides, StepExercises, StepQuiz, StepVoice, StepVideo, StepUpload} {
		if !PerModule(s) {
			t.Fatalf("step %q should be per-module", s)
		}
	}
}
