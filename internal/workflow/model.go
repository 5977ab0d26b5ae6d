package workflow

import (
	"github.com/google/uuid"
)

// Domain model owned by the orchestrator. The persistence adapter maps these
// onto durable rows; the generation adapter produces them from collaborator
// responses.

type DemoSettings struct {
	Enabled    bool `json:"enabled"`
	MaxModules int  `json:"max_modules"`
	MaxSlides  int  `json:"max_slides"`
}

type CourseSettings struct {
	Language        string       `json:"language"`
	Tone            string       `json:"tone"`
	MaxModules      int          `json:"max_modules"`
	SlidesPerModule int          `json:"slides_per_module"`
	Demo            DemoSettings `json:"demo"`
}

func DefaultSettings() CourseSettings {
	return CourseSettings{
		Language:        "sv",
		Tone:            "professional",
		MaxModules:      5,
		SlidesPerModule: 10,
		Demo: DemoSettings{
			Enabled:    false,
			MaxModules: 2,
			MaxSlides:  3,
		},
	}
}

type TitleSuggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

type OutlineModule struct {
	ID                 uuid.UUID `json:"id"`
	Number             int       `json:"number"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Duration           int       `json:"duration"`
	LearningObjectives []string  `json:"learning_objectives"`
	SubTopics          []string  `json:"sub_topics"`
}

type CourseOutline struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TotalDuration int             `json:"total_duration"`
	Modules       []OutlineModule `json:"modules"`
}

type ScriptSection struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	SlideMarkers []string `json:"slide_markers"`
}

type ModuleScript struct {
	ModuleID          uuid.UUID       `json:"module_id"`
	ModuleTitle       string          `json:"module_title"`
	Sections          []ScriptSection `json:"sections"`
	EstimatedDuration int             `json:"estimated_duration"`
	TotalWords        int             `json:"total_words"`
	Citations         []string        `json:"citations"`
}

// Text concatenates the section bodies for narration and avatar input.
func (s *ModuleScript) Text() string {
	if s == nil {
		return ""
	}
	out := ""
	for _, sec := range s.Sections {
		if sec.Content == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += sec.Content
	}
	return out
}

const (
	LayoutTitle        = "title"
	LayoutTitleContent = "title-content"
	LayoutTwoColumn    = "two-column"
	LayoutImageFocus   = "image-focus"
	LayoutQuote        = "quote"
	LayoutBulletPoints = "bullet-points"
	LayoutKeyPoint     = "key-point"
	LayoutComparison   = "comparison"
	LayoutStats        = "stats"
	LayoutTimeline     = "timeline"
)

var validLayouts = map[string]bool{
	LayoutTitle:        true,
	LayoutTitleContent: true,
	LayoutTwoColumn:    true,
	LayoutImageFocus:   true,
	LayoutQuote:        true,
	LayoutBulletPoints: true,
	LayoutKeyPoint:     true,
	LayoutComparison:   true,
	LayoutStats:        true,
	LayoutTimeline:     true,
}

func ValidLayout(layout string) bool { return validLayouts[layout] }

type Slide struct {
	ModuleID            uuid.UUID `json:"module_id"`
	SlideNumber         int       `json:"slide_number"`
	Title               string    `json:"title"`
	Subtitle            string    `json:"subtitle,omitempty"`
	Content             string    `json:"content"`
	BulletPoints        []string  `json:"bullet_points,omitempty"`
	KeyTakeaway         string    `json:"key_takeaway,omitempty"`
	SpeakerNotes        string    `json:"speaker_notes"`
	Layout              string    `json:"layout"`
	SuggestedImageQuery string    `json:"suggested_image_query"`
	ImageURL            string    `json:"image_url,omitempty"`
	ImageSource         string    `json:"image_source,omitempty"`
	ImageAttribution    string    `json:"image_attribution,omitempty"`
	BackgroundColor     string    `json:"background_color,omitempty"`
}

type Exercise struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	ExerciseType string `json:"exercise_type"`
}

type ModuleExercises struct {
	ModuleID  uuid.UUID  `json:"module_id"`
	Exercises []Exercise `json:"exercises"`
}

type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuizQuestion struct {
	ID              string       `json:"id"`
	Question        string       `json:"question"`
	Options         []QuizOption `json:"options"`
	CorrectOptionID string       `json:"correct_option_id"`
	Explanation     string       `json:"explanation"`
	Difficulty      string       `json:"difficulty"`
}

type ModuleQuiz struct {
	ModuleID  uuid.UUID      `json:"module_id"`
	Questions []QuizQuestion `json:"questions"`
}

type ModuleAudio struct {
	ModuleID uuid.UUID `json:"module_id"`
	AudioURL string    `json:"audio_url"`
	VoiceID  string    `json:"voice_id"`
}

const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusCompleted  = "completed"
	VideoStatusFailed     = "failed"
)

type ModuleVideo struct {
	ModuleID        uuid.UUID `json:"module_id"`
	ProviderVideoID string    `json:"provider_video_id"`
	AvatarID        string    `json:"avatar_id"`
	Status          string    `json:"status"`
	VideoURL        string    `json:"video_url,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	HostedURL       string    `json:"hosted_url,omitempty"`
}

type VideoSettings struct {
	AvatarID string `json:"avatar_id"`
	VoiceID  string `json:"voice_id"`
}

const (
	ExportStatusIdle       = "idle"
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// PresentonState tracks the optional parallel export track; it is polled
// until a terminal status and never gates the main pipeline.
type PresentonState struct {
	TaskID            string   `json:"task_id"`
	Status            string   `json:"status"`
	Progress          int      `json:"progress"`
	DownloadURL       string   `json:"download_url,omitempty"`
	EditURL           string   `json:"edit_url,omitempty"`
	GenerationHistory []string `json:"generation_history"`
}
