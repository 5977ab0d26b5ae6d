package workflow

// Step identifies one stage of the course production pipeline. The slice
// order below is the total order; forward progression follows it and
// backward jumps are only legal into already-completed steps.
type Step string

const (
	StepTitle     Step = "title"
	StepOutline   Step = "outline"
	StepScript    Step = "script"
	StepSlides    Step = "slides"
	StepExercises Step = "exercises"
	StepQuiz      Step = "quiz"
	StepVoice     Step = "voice"
	StepVideo     Step = "video"
	StepUpload    Step = "upload"
)

var stepOrder = []Step{
	StepTitle,
	StepOutline,
	StepScript,
	StepSlides,
	StepExercises,
	StepQuiz,
	StepVoice,
	StepVideo,
	StepUpload,
}

func Steps() []Step {
	out := make([]Step, len(stepOrder))
	copy(out, stepOrder)
	return out
}

func (s Step) Valid() bool {
	return s.index() >= 0
}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// NextStep returns the step after current, or false at the terminal step.
func NextStep(current Step) (Step, bool) {
	i := current.index()
	if i < 0 || i+1 >= len(stepOrder) {
		return "", false
	}
	return stepOrder[i+1], true
}

// IsOptional reports whether a step may be skipped. Skipping still marks the
// step completed (with an empty artifact) so downstream reachability holds.
func IsOptional(s Step) bool {
	return s == StepExercises || s == StepQuiz
}

// PerModule reports whether a step produces one artifact per outline module.
func PerModule(s Step) bool {
	switch s {
	case StepScript, StepSlides, StepExercises, StepQuiz, StepVoice, StepVideo, StepUpload:
		return true
	default:
		return false
	}
}

// IsReachable reports whether target may become the current step: either it
// was already completed, or it is the step immediately after the highest
// completed step (the frontier). With nothing completed the frontier is the
// first step.
func IsReachable(target Step, completed map[Step]bool) bool {
	if !target.Valid() {
		return false
	}
	if completed[target] {
		return true
	}
	frontier := stepOrder[0]
	highest := -1
	for i, s := range stepOrder {
		if completed[s] && i > highest {
			highest = i
		}
	}
	if highest >= 0 {
		next, ok := NextStep(stepOrder[highest])
		if !ok {
			return false
		}
		frontier = next
	}
	return target == frontier
}
