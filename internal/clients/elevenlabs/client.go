package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/httpx"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// DefaultVoiceID is used when the caller supplies no voice or one that does
// not look like an ElevenLabs voice id.
const DefaultVoiceID = "JBFqnCBsd6RMkjVDRZzb"

// defaultModelID handles Swedish pronunciation well, which matters for the
// default course language.
const defaultModelID = "eleven_multilingual_v2"

// Voice ids are 20+ alphanumeric chars. Azure-style ids like
// "sv-SE-MattiasNeural" must not be forwarded.
var voiceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{20,}$`)

type Voice struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	PreviewURL string            `json:"preview_url,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

type SynthesisOptions struct {
	Stability       float64
	SimilarityBoost float64
	Style           float64
	Speed           float64
}

func DefaultSynthesisOptions() SynthesisOptions {
	return SynthesisOptions{Stability: 0.5, SimilarityBoost: 0.75, Style: 0.0, Speed: 1.0}
}

// Client is the ElevenLabs text-to-speech client.
type Client interface {
	ListVoices(ctx context.Context) ([]Voice, error)

	// Synthesize renders text to mp3 bytes with the given voice. Invalid
	// voice ids fall back to DefaultVoiceID rather than failing.
	Synthesize(ctx context.Context, text, voiceID string, opts SynthesisOptions) ([]byte, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing ELEVENLABS_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("ELEVENLABS_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := 120
	if v := os.Getenv("ELEVENLABS_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "ElevenLabsClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: 2,
	}, nil
}

type elevenHTTPError struct {
	StatusCode int
	Body       string
}

func (e *elevenHTTPError) Error() string {
	return fmt.Sprintf("elevenlabs http %d: %s", e.StatusCode, e.Body)
}

func (e *elevenHTTPError) HTTPStatusCode() int {
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
	req.Header.Set("xi-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
		return resp, raw, &elevenHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, apperrors.NewTransport(ctx.Err(), "elevenlabs request aborted")
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}

		var httpErr *elevenHTTPError
		if errors.As(err, &httpErr) && quotaExceeded(httpErr.Body) {
			return nil, &apperrors.QuotaError{
				Message:    "ElevenLabs quota exceeded. Please check your account.",
				StatusCode: httpErr.StatusCode,
			}
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, apperrors.NewTransport(err, "elevenlabs request failed")
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("ElevenLabs request retrying",
			"path", path,
			"attempt", attempt+1,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, fmt.Errorf("unreachable retry loop")
}

func quotaExceeded(body string) bool {
	var payload struct {
		Detail struct {
			Status string `json:"status"`
		} `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return false
	}
	return payload.Detail.Status == "quota_exceeded"
}

func (c *client) ListVoices(ctx context.Context) ([]Voice, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/voices", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Voices []struct {
			VoiceID    string            `json:"voice_id"`
			Name       string            `json:"name"`
			Category   string            `json:"category"`
			PreviewURL string            `json:"preview_url"`
			Labels     map[string]string `json:"labels"`
		} `json:"voices"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewTransport(err, "elevenlabs decode error")
	}

	out := make([]Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		out = append(out, Voice{
			ID:         v.VoiceID,
			Name:       v.Name,
			Category:   v.Category,
			PreviewURL: v.PreviewURL,
			Labels:     v.Labels,
		})
	}
	return out, nil
}

// EffectiveVoiceID normalizes a caller-supplied voice id.
func EffectiveVoiceID(voiceID string) string {
	if voiceIDPattern.MatchString(voiceID) {
		return voiceID
	}
	return DefaultVoiceID
}

func (c *client) Synthesize(ctx context.Context, text, voiceID string, opts SynthesisOptions) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidation("text is required for speech synthesis")
	}

	body := map[string]any{
		"text":     text,
		"model_id": defaultModelID,
		"voice_settings": map[string]any{
			"stability":         opts.Stability,
			"similarity_boost":  opts.SimilarityBoost,
			"style":             opts.Style,
			"use_speaker_boost": true,
			"speed":             opts.Speed,
		},
	}

	path := fmt.Sprintf("/v1/text-to-speech/%s?output_format=mp3_44100_128", EffectiveVoiceID(voiceID))
	return c.do(ctx, http.MethodPost, path, body)
}
