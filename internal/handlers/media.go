package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
	"github.com/vardkurs/coursegen-backend/internal/cache"
	"github.com/vardkurs/coursegen-backend/internal/clients/elevenlabs"
	"github.com/vardkurs/coursegen-backend/internal/clients/heygen"
	"github.com/vardkurs/coursegen-backend/internal/clients/media"
	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// MediaHandler serves the catalogs the frontend picks from: narration
// voices, presenter avatars, and stock photos. Each collaborator is optional;
// an unconfigured one yields a validation error instead of a crash.
type MediaHandler struct {
	log        *logger.Logger
	voices     elevenlabs.Client
	avatars    heygen.Client
	photos     media.Client
	photoCache cache.SearchCache
}

func NewMediaHandler(baseLog *logger.Logger, voices elevenlabs.Client, avatars heygen.Client, photos media.Client, photoCache cache.SearchCache) *MediaHandler {
	return &MediaHandler{
		log:        baseLog.With("handler", "MediaHandler"),
		voices:     voices,
		avatars:    avatars,
		photos:     photos,
		photoCache: photoCache,
	}
}

func (h *MediaHandler) ListVoices(c *gin.Context) {
	if h.voices == nil {
		RespondAppError(c, apperrors.NewValidation("voice synthesis is not configured"))
		return
	}
	voices, err := h.voices.ListVoices(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list voices", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"voices": voices})
}

func (h *MediaHandler) ListAvatars(c *gin.Context) {
	if h.avatars == nil {
		RespondAppError(c, apperrors.NewValidation("video generation is not configured"))
		return
	}
	avatars, err := h.avatars.ListAvatars(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list avatars", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"avatars": avatars})
}

func (h *MediaHandler) SearchPhotos(c *gin.Context) {
	if h.photos == nil {
		RespondAppError(c, apperrors.NewValidation("photo search is not configured"))
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		RespondAppError(c, apperrors.NewValidation("query parameter is required"))
		return
	}
	perPage := 10
	if raw := c.Query("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 30 {
			perPage = n
		}
	}

	cacheKey := strings.ToLower(query) + ":" + strconv.Itoa(perPage)
	var photos []media.Photo
	if h.photoCache != nil && h.photoCache.Get(c.Request.Context(), cacheKey, &photos) {
		RespondOK(c, gin.H{"photos": photos, "cached": true})
		return
	}

	photos, err := h.photos.SearchPhotos(c.Request.Context(), query, perPage)
	if err != nil {
		h.log.Error("Photo search failed", "query", query, "error", err)
		RespondAppError(c, err)
		return
	}
	if h.photoCache != nil {
		h.photoCache.Set(c.Request.Context(), cacheKey, photos)
	}
	RespondOK(c, gin.H{"photos": photos, "cached": false})
}
