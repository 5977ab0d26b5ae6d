package workflow

import (
	"github.com/google/uuid"
)

type StepStatus string

const (
	StatusIdle       StepStatus = "idle"
	StatusGenerating StepStatus = "generating"
	StatusReady      StepStatus = "ready"
	StatusError      StepStatus = "error"
)

// WorkflowState is the aggregate root for one course production session.
// It is owned and mutated exclusively by the Orchestrator; everything else
// sees deep copies.
type WorkflowState struct {
	CourseID        uuid.UUID                     `json:"course_id"`
	CurrentStep     Step                          `json:"current_step"`
	Completed       map[Step]bool                 `json:"completed"`
	StepStatus      map[Step]StepStatus           `json:"step_status"`
	Title           string                        `json:"title"`
	SelectedTitleID string                        `json:"selected_title_id,omitempty"`
	Suggestions     []TitleSuggestion             `json:"title_suggestions,omitempty"`
	Settings        CourseSettings                `json:"settings"`
	Outline         *CourseOutline                `json:"outline,omitempty"`
	Scripts         map[uuid.UUID]*ModuleScript   `json:"scripts"`
	Slides          map[uuid.UUID][]Slide         `json:"slides"`
	Exercises       map[uuid.UUID]*ModuleExercises `json:"exercises"`
	Quizzes         map[uuid.UUID]*ModuleQuiz     `json:"quizzes"`
	Audio           map[uuid.UUID]*ModuleAudio    `json:"module_audio"`
	Videos          map[uuid.UUID]*ModuleVideo    `json:"module_videos"`
	VideoSettings   VideoSettings                 `json:"video_settings"`
	Presenton       *PresentonState               `json:"presenton,omitempty"`
	IsProcessing    bool                          `json:"is_processing"`
	LastError       string                        `json:"last_error,omitempty"`
}

func newState(courseID uuid.UUID, settings CourseSettings) *WorkflowState {
	st := &WorkflowState{
		CourseID:    courseID,
		CurrentStep: StepTitle,
		Completed:   map[Step]bool{},
		StepStatus:  map[Step]StepStatus{},
		Settings:    settings,
		Scripts:     map[uuid.UUID]*ModuleScript{},
		Slides:      map[uuid.UUID][]Slide{},
		Exercises:   map[uuid.UUID]*ModuleExercises{},
		Quizzes:     map[uuid.UUID]*ModuleQuiz{},
		Audio:       map[uuid.UUID]*ModuleAudio{},
		Videos:      map[uuid.UUID]*ModuleVideo{},
	}
	for _, s := range stepOrder {
		st.StepStatus[s] = StatusIdle
	}
	return st
}

func (st *WorkflowState) status(s Step) StepStatus {
	if v, ok := st.StepStatus[s]; ok {
		return v
	}
	return StatusIdle
}

// CompletedSteps returns the completed set in pipeline order.
func (st *WorkflowState) CompletedSteps() []Step {
	out := make([]Step, 0, len(st.Completed))
	for _, s := range stepOrder {
		if st.Completed[s] {
			out = append(out, s)
		}
	}
	return out
}

// clone deep-copies the aggregate so snapshot readers never alias
// orchestrator-owned memory.
func (st *WorkflowState) clone() *WorkflowState {
	cp := *st

	cp.Completed = make(map[Step]bool, len(st.Completed))
	for k, v := range st.Completed {
		cp.Completed[k] = v
	}
	cp.StepStatus = make(map[Step]StepStatus, len(st.StepStatus))
	for k, v := range st.StepStatus {
		cp.StepStatus[k] = v
	}

	cp.Suggestions = append([]TitleSuggestion(nil), st.Suggestions...)

	if st.Outline != nil {
		o := *st.Outline
		o.Modules = make([]OutlineModule, len(st.Outline.Modules))
		for i, m := range st.Outline.Modules {
			m.LearningObjectives = append([]string(nil), m.LearningObjectives...)
			m.SubTopics = append([]string(nil), m.SubTopics...)
			o.Modules[i] = m
		}
		cp.Outline = &o
	}

	cp.Scripts = make(map[uuid.UUID]*ModuleScript, len(st.Scripts))
	for k, v := range st.Scripts {
		s := *v
		s.Sections = make([]ScriptSection, len(v.Sections))
		for i, sec := range v.Sections {
			sec.SlideMarkers = append([]string(nil), sec.SlideMarkers...)
			s.Sections[i] = sec
		}
		s.Citations = append([]string(nil), v.Citations...)
		cp.Scripts[k] = &s
	}

	cp.Slides = make(map[uuid.UUID][]Slide, len(st.Slides))
	for k, v := range st.Slides {
		slides := make([]Slide, len(v))
		for i, sl := range v {
			sl.BulletPoints = append([]string(nil), sl.BulletPoints...)
			slides[i] = sl
		}
		cp.Slides[k] = slides
	}

	cp.Exercises = make(map[uuid.UUID]*ModuleExercises, len(st.Exercises))
	for k, v := range st.Exercises {
		e := *v
		e.Exercises = append([]Exercise(nil), v.Exercises...)
		cp.Exercises[k] = &e
	}

	cp.Quizzes = make(map[uuid.UUID]*ModuleQuiz, len(st.Quizzes))
	for k, v := range st.Quizzes {
		q := *v
		q.Questions = make([]QuizQuestion, len(v.Questions))
		for i, question := range v.Questions {
			question.Options = append([]QuizOption(nil), question.Options...)
			q.Questions[i] = question
		}
		cp.Quizzes[k] = &q
	}

	cp.Audio = make(map[uuid.UUID]*ModuleAudio, len(st.Audio))
	for k, v := range st.Audio {
		a := *v
		cp.Audio[k] = &a
	}

	cp.Videos = make(map[uuid.UUID]*ModuleVideo, len(st.Videos))
	for k, v := range st.Videos {
		mv := *v
		cp.Videos[k] = &mv
	}

	if st.Presenton != nil {
		p := *st.Presenton
		p.GenerationHistory = append([]string(nil), st.Presenton.GenerationHistory...)
		cp.Presenton = &p
	}

	return &cp
}
