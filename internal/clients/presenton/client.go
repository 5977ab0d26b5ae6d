package presenton

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// GenerateRequest is the normalized export request. Content is the source
// material for the deck; the client maps course settings onto Presenton's
// template, theme, and tone vocabulary.
type GenerateRequest struct {
	Topic        string
	Content      string
	NumSlides    int
	Language     string
	Style        string
	Tone         string
	ExportFormat string
}

type Task struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type TaskStatus struct {
	TaskID         string `json:"task_id"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	PresentationID string `json:"presentation_id,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
	EditURL        string `json:"edit_url,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Client runs the slide-deck export track against Presenton's async API.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (Task, error)
	Status(ctx context.Context, taskID string) (TaskStatus, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("PRESENTON_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing PRESENTON_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("PRESENTON_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.presenton.ai"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "PresentonClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

const contentLimit = 10000

var languageNames = map[string]string{
	"sv": "Swedish",
	"en": "English",
}

var templateByStyle = map[string]string{
	"professional": "general",
	"modern":       "modern",
	"minimal":      "modern",
	"creative":     "swift",
	"classic":      "standard",
}

var toneByName = map[string]string{
	"professional":  "professional",
	"casual":        "casual",
	"funny":         "funny",
	"educational":   "educational",
	"inspirational": "educational",
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransport(err, "presenton request failed")
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return apperrors.NewTransport(readErr, "presenton response read failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("Presenton request rejected", "path", path, "status", resp.StatusCode, "body", string(raw))
		return apperrors.NewTransport(nil, "presenton request failed with status %d", resp.StatusCode)
	}
	if out != nil {
		if uErr := json.Unmarshal(raw, out); uErr != nil {
			return apperrors.NewTransport(uErr, "presenton decode error")
		}
	}
	return nil
}

func (c *client) Generate(ctx context.Context, req GenerateRequest) (Task, error) {
	content := req.Content
	if strings.TrimSpace(content) == "" {
		content = req.Topic
	}
	if strings.TrimSpace(content) == "" {
		return Task{}, apperrors.NewValidation("export content or topic is required")
	}
	if len(content) > contentLimit {
		content = content[:contentLimit]
	}

	numSlides := req.NumSlides
	if numSlides <= 0 {
		numSlides = 10
	}
	if numSlides > 50 {
		numSlides = 50
	}

	language := languageNames[req.Language]
	if language == "" {
		language = "Swedish"
	}
	template := templateByStyle[req.Style]
	if template == "" {
		template = "general"
	}
	tone := toneByName[req.Tone]
	if tone == "" {
		tone = "professional"
	}
	exportAs := req.ExportFormat
	if exportAs == "" {
		exportAs = "pptx"
	}

	payload := map[string]any{
		"content":                   content,
		"n_slides":                  numSlides,
		"language":                  language,
		"template":                  template,
		"tone":                      tone,
		"markdown_emphasis":         true,
		"include_title_slide":       true,
		"include_table_of_contents": numSlides > 8,
		"export_as":                 exportAs,
		"trigger_webhook":           false,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/ppt/presentation/generate/async", payload, &resp); err != nil {
		return Task{}, err
	}
	if resp.ID == "" {
		return Task{}, apperrors.NewTransport(nil, "presenton returned no task id")
	}
	return Task{TaskID: resp.ID, Status: "pending", Message: "Presentation generation started"}, nil
}

func (c *client) Status(ctx context.Context, taskID string) (TaskStatus, error) {
	if taskID == "" {
		return TaskStatus{}, apperrors.NewValidation("task id is required")
	}

	var resp struct {
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Message  string `json:"message"`
		Data     struct {
			PresentationID string `json:"presentation_id"`
			Path           string `json:"path"`
			EditPath       string `json:"edit_path"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/ppt/presentation/status/"+taskID, nil, &resp); err != nil {
		return TaskStatus{}, err
	}

	out := TaskStatus{
		TaskID:   taskID,
		Status:   resp.Status,
		Progress: resp.Progress,
		Message:  resp.Message,
	}
	if resp.Status == "completed" {
		out.PresentationID = resp.Data.PresentationID
		out.DownloadURL = resp.Data.Path
		out.EditURL = resp.Data.EditPath
		out.Progress = 100
	}
	return out, nil
}
