package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/httpx"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// Client talks to the AI gateway's chat completion surface. Every generation
// step funnels through it with a system/user prompt pair.
type Client interface {
	// GenerateText returns the raw assistant message content.
	GenerateText(ctx context.Context, system, user string, opts Options) (string, error)

	// GenerateJSON returns the assistant message decoded as a JSON object,
	// tolerating markdown code fences around the payload.
	GenerateJSON(ctx context.Context, system, user string, opts Options) (map[string]any, error)
}

// Options are per-call overrides; zero values fall back to client defaults.
type Options struct {
	Model     string
	MaxTokens int
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("AI_GATEWAY_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing AI_GATEWAY_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("AI_GATEWAY_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://ai.gateway.lovable.dev"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("AI_GATEWAY_MODEL"))
	if model == "" {
		model = "google/gemini-2.5-flash"
	}

	timeoutSec := 60
	if v := os.Getenv("AI_GATEWAY_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("AI_GATEWAY_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "AIGatewayClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  4000,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type gatewayHTTPError struct {
	StatusCode int
	Body       string
}

func (e *gatewayHTTPError) Error() string {
	return fmt.Sprintf("ai gateway http %d: %s", e.StatusCode, e.Body)
}

func (e *gatewayHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		return resp, raw, &gatewayHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return apperrors.NewTransport(ctx.Err(), "ai gateway request aborted")
		}

		resp, raw, err := c.doOnce(ctx, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return apperrors.NewTransport(uErr, "ai gateway decode error")
			}
			return nil
		}

		// Quota statuses surface immediately with their dedicated messages.
		var httpErr *gatewayHTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == 429 || httpErr.StatusCode == 402) {
			return apperrors.QuotaFromStatus(httpErr.StatusCode)
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return apperrors.NewTransport(err, "ai gateway request failed")
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("AI gateway request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func (c *client) GenerateText(ctx context.Context, system, user string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: maxTokens,
	}

	var resp chatResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperrors.NewTransport(nil, "ai gateway returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *client) GenerateJSON(ctx context.Context, system, user string, opts Options) (map[string]any, error) {
	content, err := c.GenerateText(ctx, system, user, opts)
	if err != nil {
		return nil, err
	}
	obj, err := ExtractJSON(content)
	if err != nil {
		return nil, apperrors.NewTransport(err, "ai gateway returned malformed JSON")
	}
	return obj, nil
}

// ExtractJSON pulls a JSON object out of an assistant message, stripping a
// surrounding markdown code fence when one is present. As a last resort it
// scans for the outermost brace pair.
func ExtractJSON(content string) (map[string]any, error) {
	candidate := strings.TrimSpace(content)

	if i := strings.Index(candidate, "```"); i >= 0 {
		rest := candidate[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "\n")
		if j := strings.Index(rest, "```"); j >= 0 {
			candidate = strings.TrimSpace(rest[:j])
		}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &obj); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("no JSON object found in response")
}
