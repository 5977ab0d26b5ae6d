package bunny

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
	"github.com/vardkurs/coursegen-backend/internal/httpx"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoURL     string `json:"video_url"`
	Duration     int    `json:"duration"`
	Status       int    `json:"status"`
}

// Client publishes rendered course videos to the Bunny.net stream library.
type Client interface {
	ListVideos(ctx context.Context) ([]Video, error)

	// PublishFromURL downloads a rendered video and uploads it to the
	// library under the given title. Returns the hosted play URL.
	PublishFromURL(ctx context.Context, title, sourceURL string) (Video, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	libraryID  string
	cdnHost    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("BUNNY_API_KEY"))
	libraryID := strings.TrimSpace(os.Getenv("BUNNY_LIBRARY_ID"))
	if apiKey == "" || libraryID == "" {
		return nil, fmt.Errorf("missing BUNNY_API_KEY or BUNNY_LIBRARY_ID")
	}

	baseURL := strings.TrimSpace(os.Getenv("BUNNY_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://video.bunnycdn.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	cdnHost := strings.TrimSpace(os.Getenv("BUNNY_CDN_HOSTNAME"))
	if cdnHost == "" {
		cdnHost = libraryID + ".b-cdn.net"
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &client{
		log:        log.With("service", "BunnyClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		libraryID:  libraryID,
		cdnHost:    cdnHost,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

type bunnyHTTPError struct {
	StatusCode int
	Body       string
}

func (e *bunnyHTTPError) Error() string {
	return fmt.Sprintf("bunny http %d: %s", e.StatusCode, e.Body)
}

func (e *bunnyHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("AccessKey", c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransport(err, "bunny request failed")
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return apperrors.NewTransport(readErr, "bunny response read failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &bunnyHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		if httpx.IsRetryableHTTPStatus(resp.StatusCode) {
			return apperrors.NewTransport(httpErr, "bunny request failed")
		}
		return apperrors.NewTransport(httpErr, "bunny rejected request")
	}

	if out != nil && len(raw) > 0 {
		if uErr := json.Unmarshal(raw, out); uErr != nil {
			return apperrors.NewTransport(uErr, "bunny decode error")
		}
	}
	return nil
}

func (c *client) playURL(guid string) string {
	return fmt.Sprintf("https://%s/%s/play.mp4", c.cdnHost, guid)
}

func (c *client) thumbnailURL(guid string) string {
	return fmt.Sprintf("https://%s/%s/thumbnail.jpg", c.cdnHost, guid)
}

func (c *client) ListVideos(ctx context.Context) ([]Video, error) {
	var payload struct {
		Items []struct {
			GUID   string `json:"guid"`
			Title  string `json:"title"`
			Length int    `json:"length"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	path := "/library/" + c.libraryID + "/videos"
	if err := c.do(ctx, http.MethodGet, path, "application/json", nil, &payload); err != nil {
		return nil, err
	}

	out := make([]Video, 0, len(payload.Items))
	for _, v := range payload.Items {
		title := v.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, Video{
			ID:           v.GUID,
			Title:        title,
			ThumbnailURL: c.thumbnailURL(v.GUID),
			VideoURL:     c.playURL(v.GUID),
			Duration:     v.Length,
			Status:       v.Status,
		})
	}
	return out, nil
}

func (c *client) PublishFromURL(ctx context.Context, title, sourceURL string) (Video, error) {
	if sourceURL == "" {
		return Video{}, apperrors.NewValidation("source url is required for publishing")
	}

	content, err := c.download(ctx, sourceURL)
	if err != nil {
		return Video{}, err
	}

	var created struct {
		GUID string `json:"guid"`
	}
	createPath := "/library/" + c.libraryID + "/videos"
	body, _ := json.Marshal(map[string]string{"title": title})
	if err := c.do(ctx, http.MethodPost, createPath, "application/json", bytes.NewReader(body), &created); err != nil {
		return Video{}, err
	}
	if created.GUID == "" {
		return Video{}, apperrors.NewTransport(nil, "bunny returned no video guid")
	}

	uploadPath := createPath + "/" + created.GUID
	if err := c.do(ctx, http.MethodPut, uploadPath, "application/octet-stream", bytes.NewReader(content), nil); err != nil {
		return Video{}, err
	}

	c.log.Info("Video published", "guid", created.GUID, "title", title, "bytes", len(content))
	return Video{
		ID:           created.GUID,
		Title:        title,
		ThumbnailURL: c.thumbnailURL(created.GUID),
		VideoURL:     c.playURL(created.GUID),
	}, nil
}

func (c *client) download(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransport(err, "video download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewTransport(nil, "video download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
