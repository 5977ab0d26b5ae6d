package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/httpx"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// defaultVoiceID is HeyGen's stock English narrator, used when no voice is
// configured for the course.
const defaultVoiceID = "1bd001e7e50f421d891986aad5158bc8"

const slideBackground = "#1e3a5f"

type Avatar struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Gender       string `json:"gender"`
}

type VideoJob struct {
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
}

type VideoStatus struct {
	VideoID      string `json:"video_id"`
	Status       string `json:"status"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Client drives HeyGen avatar video rendering: fire a job, then poll it.
type Client interface {
	ListAvatars(ctx context.Context) ([]Avatar, error)
	GenerateVideo(ctx context.Context, title, script, avatarID, voiceID string) (VideoJob, error)
	VideoStatus(ctx context.Context, videoID string) (VideoStatus, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("HEYGEN_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing HEYGEN_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("HEYGEN_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.heygen.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "HeyGenClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: 2,
	}, nil
}

type heygenHTTPError struct {
	StatusCode int
	Body       string
}

func (e *heygenHTTPError) Error() string {
	return fmt.Sprintf("heygen http %d: %s", e.StatusCode, e.Body)
}

func (e *heygenHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &heygenHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return apperrors.NewTransport(ctx.Err(), "heygen request aborted")
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return apperrors.NewTransport(uErr, "heygen decode error")
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return apperrors.NewTransport(err, "heygen request failed")
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("HeyGen request retrying",
			"path", path,
			"attempt", attempt+1,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func (c *client) ListAvatars(ctx context.Context) ([]Avatar, error) {
	var payload struct {
		Data struct {
			Avatars []struct {
				AvatarID        string `json:"avatar_id"`
				AvatarName      string `json:"avatar_name"`
				PreviewImageURL string `json:"preview_image_url"`
				ThumbnailURL    string `json:"thumbnail_url"`
				Gender          string `json:"gender"`
			} `json:"avatars"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/avatars", nil, &payload); err != nil {
		return nil, err
	}

	out := make([]Avatar, 0, len(payload.Data.Avatars))
	for _, a := range payload.Data.Avatars {
		thumb := a.PreviewImageURL
		if thumb == "" {
			thumb = a.ThumbnailURL
		}
		name := a.AvatarName
		if name == "" {
			name = "Unknown"
		}
		gender := a.Gender
		if gender == "" {
			gender = "unknown"
		}
		out = append(out, Avatar{ID: a.AvatarID, Name: name, ThumbnailURL: thumb, Gender: gender})
	}
	return out, nil
}

func (c *client) GenerateVideo(ctx context.Context, title, script, avatarID, voiceID string) (VideoJob, error) {
	if strings.TrimSpace(script) == "" || strings.TrimSpace(avatarID) == "" {
		return VideoJob{}, apperrors.NewValidation("script and avatar id are required for video generation")
	}
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	body := map[string]any{
		"video_inputs": []map[string]any{
			{
				"character": map[string]any{
					"type":         "avatar",
					"avatar_id":    avatarID,
					"avatar_style": "normal",
				},
				"voice": map[string]any{
					"type":       "text",
					"input_text": script,
					"voice_id":   voiceID,
				},
				"background": map[string]any{
					"type":  "color",
					"value": slideBackground,
				},
			},
		},
		"title": title,
		"dimension": map[string]int{
			"width":  1280,
			"height": 720,
		},
	}

	var payload struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/video/generate", body, &payload); err != nil {
		return VideoJob{}, err
	}
	if payload.Data.VideoID == "" {
		return VideoJob{}, apperrors.NewTransport(nil, "heygen returned no video id")
	}
	return VideoJob{VideoID: payload.Data.VideoID, Status: "processing"}, nil
}

func (c *client) VideoStatus(ctx context.Context, videoID string) (VideoStatus, error) {
	if videoID == "" {
		return VideoStatus{}, apperrors.NewValidation("video id is required")
	}

	var payload struct {
		Data struct {
			Status       string `json:"status"`
			VideoURL     string `json:"video_url"`
			ThumbnailURL string `json:"thumbnail_url"`
			Error        any    `json:"error"`
		} `json:"data"`
	}
	path := "/v1/video_status.get?video_id=" + url.QueryEscape(videoID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return VideoStatus{}, err
	}

	status := payload.Data.Status
	if status == "" {
		status = "unknown"
	}
	out := VideoStatus{
		VideoID:      videoID,
		Status:       status,
		VideoURL:     payload.Data.VideoURL,
		ThumbnailURL: payload.Data.ThumbnailURL,
	}
	if payload.Data.Error != nil {
		out.Error = fmt.Sprintf("%v", payload.Data.Error)
	}
	return out, nil
}
