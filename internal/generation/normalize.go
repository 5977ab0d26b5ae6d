package generation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

// The gateway's models drift between snake_case and camelCase key spellings
// depending on the prompt language. Every field read goes through pickString
// and friends with both spellings so a drifting response still normalizes.

func pick(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(m map[string]any, keys ...string) string {
	v, ok := pick(m, keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		// Some models emit prose fields as string arrays.
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := fmt.Sprintf("%v", item); strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func pickInt(m map[string]any, keys ...string) int {
	v, ok := pick(m, keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func pickStrings(m map[string]any, keys ...string) []string {
	v, ok := pick(m, keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(fmt.Sprintf("%v", item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pickObjects(m map[string]any, keys ...string) []map[string]any {
	v, ok := pick(m, keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func normalizeTitleSuggestions(data map[string]any) ([]workflow.TitleSuggestion, error) {
	objs := pickObjects(data, "suggestions", "titles")
	if len(objs) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no title suggestions")
	}
	out := make([]workflow.TitleSuggestion, 0, len(objs))
	for i, obj := range objs {
		title := pickString(obj, "title")
		if title == "" {
			continue
		}
		id := pickString(obj, "id")
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		out = append(out, workflow.TitleSuggestion{
			ID:          id,
			Title:       title,
			Explanation: pickString(obj, "explanation"),
		})
	}
	if len(out) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no usable title suggestions")
	}
	return out, nil
}

func normalizeOutline(data map[string]any, title string) (*workflow.CourseOutline, error) {
	objs := pickObjects(data, "modules")
	if len(objs) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no outline modules")
	}

	out := &workflow.CourseOutline{
		Title:         pickString(data, "title", "course_title", "courseTitle"),
		Description:   pickString(data, "description"),
		TotalDuration: pickInt(data, "total_duration", "totalDuration"),
	}
	if out.Title == "" {
		out.Title = title
	}

	for i, obj := range objs {
		mod := workflow.OutlineModule{
			ID:          uuid.New(),
			Number:      i + 1,
			Title:       pickString(obj, "title"),
			Description: pickString(obj, "description"),
			Duration:    pickInt(obj, "estimated_duration", "estimatedDuration", "duration"),
			LearningObjectives: pickStrings(obj,
				"learning_objectives", "learningObjectives", "objectives"),
			SubTopics: pickStrings(obj, "key_topics", "keyTopics", "sub_topics", "subTopics"),
		}
		if mod.Title == "" {
			mod.Title = fmt.Sprintf("Module %d", i+1)
		}
		out.Modules = append(out.Modules, mod)
	}

	if out.TotalDuration == 0 {
		for _, m := range out.Modules {
			out.TotalDuration += m.Duration
		}
	}
	return out, nil
}

func normalizeScript(data map[string]any, module workflow.OutlineModule) (*workflow.ModuleScript, error) {
	objs := pickObjects(data, "sections")
	if len(objs) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no script sections")
	}

	script := &workflow.ModuleScript{
		ModuleID:          module.ID,
		ModuleTitle:       pickString(data, "module_title", "moduleTitle"),
		TotalWords:        pickInt(data, "total_words", "totalWords"),
		EstimatedDuration: pickInt(data, "estimated_duration", "estimatedDuration"),
		Citations:         pickStrings(data, "citations", "sources"),
	}
	if script.ModuleTitle == "" {
		script.ModuleTitle = module.Title
	}

	for i, obj := range objs {
		sec := workflow.ScriptSection{
			ID:           pickString(obj, "id"),
			Title:        pickString(obj, "title"),
			Content:      pickString(obj, "content"),
			SlideMarkers: pickStrings(obj, "slide_markers", "slideMarkers"),
		}
		if sec.ID == "" {
			sec.ID = fmt.Sprintf("section-%d", i+1)
		}
		if sec.Content == "" {
			continue
		}
		script.Sections = append(script.Sections, sec)
	}
	if len(script.Sections) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained only empty script sections")
	}

	if script.TotalWords == 0 {
		script.TotalWords = len(strings.Fields(script.Text()))
	}
	if script.EstimatedDuration == 0 && module.Duration > 0 {
		script.EstimatedDuration = module.Duration
	}
	return script, nil
}

// joinBullets synthesizes slide body text from bullet points when a provider
// returns bullets only. Slide content is never empty after normalization.
func joinBullets(points []string) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, "• "+s)
		}
	}
	return strings.Join(parts, "\n")
}

func normalizeSlides(data map[string]any, module workflow.OutlineModule) ([]workflow.Slide, error) {
	objs := pickObjects(data, "slides")
	if len(objs) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no slides")
	}

	out := make([]workflow.Slide, 0, len(objs))
	for _, obj := range objs {
		slide := workflow.Slide{
			ModuleID:            module.ID,
			SlideNumber:         pickInt(obj, "slide_number", "slideNumber"),
			Title:               pickString(obj, "title"),
			Subtitle:            pickString(obj, "subtitle"),
			Content:             pickString(obj, "content"),
			BulletPoints:        pickStrings(obj, "bullet_points", "bulletPoints"),
			KeyTakeaway:         pickString(obj, "key_takeaway", "keyTakeaway"),
			SpeakerNotes:        pickString(obj, "speaker_notes", "speakerNotes"),
			Layout:              pickString(obj, "layout"),
			SuggestedImageQuery: pickString(obj, "suggested_image_query", "suggestedImageQuery"),
			ImageURL:            pickString(obj, "image_url", "imageUrl"),
			ImageSource:         pickString(obj, "image_source", "imageSource"),
			ImageAttribution:    pickString(obj, "image_attribution", "imageAttribution"),
			BackgroundColor:     pickString(obj, "background_color", "backgroundColor"),
		}
		if slide.Title == "" {
			slide.Title = "Untitled"
		}
		if slide.Content == "" && len(slide.BulletPoints) > 0 {
			slide.Content = joinBullets(slide.BulletPoints)
		}
		if !workflow.ValidLayout(slide.Layout) {
			slide.Layout = workflow.LayoutTitleContent
		}
		if slide.SlideNumber <= 0 {
			slide.SlideNumber = len(out) + 1
		}
		out = append(out, slide)
	}

	// Contiguous numbering survives dropped or misnumbered slides.
	for i := range out {
		out[i].SlideNumber = i + 1
	}
	return out, nil
}

func normalizeExercises(data map[string]any, module workflow.OutlineModule) (*workflow.ModuleExercises, error) {
	objs := pickObjects(data, "exercises")
	if len(objs) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no exercises")
	}

	out := &workflow.ModuleExercises{ModuleID: module.ID}
	for _, obj := range objs {
		ex := workflow.Exercise{
			Title:        pickString(obj, "title"),
			Instructions: pickString(obj, "instructions"),
			ExerciseType: pickString(obj, "exercise_type", "exerciseType", "type"),
		}
		if ex.Title == "" || ex.Instructions == "" {
			continue
		}
		if ex.ExerciseType == "" {
			ex.ExerciseType = "reflection"
		}
		out.Exercises = append(out.Exercises, ex)
	}
	if len(out.Exercises) == 0 {
		return nil, apperrors.NewTransport(nil, "response contained no usable exercises")
	}
	return out, nil
}

// normalizeQuiz drops questions whose correct option does not reference one
// of their own options; a quiz that loses every question is an error.
func normalizeQuiz(data map[string]any, module workflow.OutlineModule) (*workflow.ModuleQuiz, []string, error) {
	objs := pickObjects(data, "questions")
	if len(objs) == 0 {
		return nil, nil, apperrors.NewTransport(nil, "response contained no quiz questions")
	}

	quiz := &workflow.ModuleQuiz{ModuleID: module.ID}
	var dropped []string
	for i, obj := range objs {
		q := workflow.QuizQuestion{
			ID:              pickString(obj, "id"),
			Question:        pickString(obj, "question"),
			CorrectOptionID: pickString(obj, "correct_option_id", "correctOptionId"),
			Explanation:     pickString(obj, "explanation"),
			Difficulty:      pickString(obj, "difficulty"),
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		for _, optObj := range pickObjects(obj, "options") {
			opt := workflow.QuizOption{
				ID:   pickString(optObj, "id"),
				Text: pickString(optObj, "text"),
			}
			if opt.ID != "" && opt.Text != "" {
				q.Options = append(q.Options, opt)
			}
		}

		if q.Question == "" || len(q.Options) < 2 || !hasOption(q.Options, q.CorrectOptionID) {
			dropped = append(dropped, q.ID)
			continue
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if len(quiz.Questions) == 0 {
		return nil, dropped, apperrors.NewTransport(nil, "every quiz question in the response was invalid")
	}
	return quiz, dropped, nil
}

func hasOption(options []workflow.QuizOption, id string) bool {
	if id == "" {
		return false
	}
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
