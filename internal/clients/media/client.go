package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

type Photo struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Source          string `json:"source"`
}

// Client searches stock photos for slide imagery. Unsplash is the primary
// provider; Pexels covers the gap when Unsplash is unconfigured or fails.
type Client interface {
	SearchPhotos(ctx context.Context, query string, perPage int) ([]Photo, error)
}

type client struct {
	log         *logger.Logger
	unsplashKey string
	pexelsKey   string
	httpClient  *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	unsplashKey := strings.TrimSpace(os.Getenv("UNSPLASH_ACCESS_KEY"))
	pexelsKey := strings.TrimSpace(os.Getenv("PEXELS_API_KEY"))
	if unsplashKey == "" && pexelsKey == "" {
		return nil, fmt.Errorf("missing UNSPLASH_ACCESS_KEY and PEXELS_API_KEY; at least one provider is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &client{
		log:         log.With("service", "MediaClient"),
		unsplashKey: unsplashKey,
		pexelsKey:   pexelsKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *client) SearchPhotos(ctx context.Context, query string, perPage int) ([]Photo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidation("search query is required")
	}
	if perPage <= 0 {
		perPage = 20
	}

	if c.unsplashKey != "" {
		photos, err := c.searchUnsplash(ctx, query, perPage)
		if err == nil && len(photos) > 0 {
			return photos, nil
		}
		if err != nil {
			c.log.Warn("Unsplash search failed, falling back to Pexels", "query", query, "error", err)
		}
	}
	if c.pexelsKey != "" {
		return c.searchPexels(ctx, query, perPage)
	}
	return nil, apperrors.NewTransport(nil, "no photo provider produced results for %q", query)
}

func (c *client) get(ctx context.Context, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransport(err, "media search failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransport(err, "media response read failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewTransport(nil, "media search failed with status %d", resp.StatusCode)
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return apperrors.NewTransport(uErr, "media decode error")
	}
	return nil
}

func (c *client) searchUnsplash(ctx context.Context, query string, perPage int) ([]Photo, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("orientation", "landscape")

	var payload struct {
		Results []struct {
			ID   string `json:"id"`
			URLs struct {
				Regular string `json:"regular"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
			Width  int `json:"width"`
			Height int `json:"height"`
			User   struct {
				Name  string `json:"name"`
				Links struct {
					HTML string `json:"html"`
				} `json:"links"`
			} `json:"user"`
		} `json:"results"`
	}

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+c.unsplashKey)
	if err := c.get(ctx, "https://api.unsplash.com/search/photos?"+q.Encode(), header, &payload); err != nil {
		return nil, err
	}

	out := make([]Photo, 0, len(payload.Results))
	for _, p := range payload.Results {
		out = append(out, Photo{
			ID:              "unsplash-" + p.ID,
			URL:             p.URLs.Regular,
			ThumbnailURL:    p.URLs.Thumb,
			Width:           p.Width,
			Height:          p.Height,
			Photographer:    p.User.Name,
			PhotographerURL: p.User.Links.HTML,
			Source:          "unsplash",
		})
	}
	return out, nil
}

func (c *client) searchPexels(ctx context.Context, query string, perPage int) ([]Photo, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("orientation", "landscape")

	var payload struct {
		Photos []struct {
			ID  int `json:"id"`
			Src struct {
				Large  string `json:"large"`
				Medium string `json:"medium"`
			} `json:"src"`
			Width           int    `json:"width"`
			Height          int    `json:"height"`
			Photographer    string `json:"photographer"`
			PhotographerURL string `json:"photographer_url"`
		} `json:"photos"`
	}

	header := http.Header{}
	header.Set("Authorization", c.pexelsKey)
	if err := c.get(ctx, "https://api.pexels.com/v1/search?"+q.Encode(), header, &payload); err != nil {
		return nil, err
	}

	out := make([]Photo, 0, len(payload.Photos))
	for _, p := range payload.Photos {
		out = append(out, Photo{
			ID:              fmt.Sprintf("pexels-%d", p.ID),
			URL:             p.Src.Large,
			ThumbnailURL:    p.Src.Medium,
			Width:           p.Width,
			Height:          p.Height,
			Photographer:    p.Photographer,
			PhotographerURL: p.PhotographerURL,
			Source:          "pexels",
		})
	}
	return out, nil
}
