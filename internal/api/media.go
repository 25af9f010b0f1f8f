package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/colefield/airwave/internal/catalog"
	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpsertMediaRequest registers or refreshes a media catalog entry
type UpsertMediaRequest struct {
	FilePath        string  `json:"file_path" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	DurationSeconds int64   `json:"duration_seconds" binding:"required,gt=0"`
	VideoCodec      *string `json:"video_codec,omitempty"`
	AudioCodec      *string `json:"audio_codec,omitempty"`
	Supported       *bool   `json:"supported,omitempty"`
	FileSize        *int64  `json:"file_size,omitempty"`
}

// MediaListResponse represents a paginated media catalog listing
type MediaListResponse struct {
	Media  []*models.MediaAsset `json:"media"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// MediaHandler handles media catalog API requests
type MediaHandler struct {
	media   *db.MediaRepository
	catalog *catalog.Store
}

// NewMediaHandler creates a new media handler instance
func NewMediaHandler(media *db.MediaRepository, cat *catalog.Store) *MediaHandler {
	return &MediaHandler{media: media, catalog: cat}
}

// ListMedia handles GET /api/media
func (h *MediaHandler) ListMedia(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 100)
	offset := parseIntQuery(c, "offset", 0)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	assets, total, err := h.media.List(ctx, limit, offset)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list media catalog")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve media catalog",
		})
		return
	}

	c.JSON(http.StatusOK, MediaListResponse{
		Media:  assets,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// UpsertMedia handles PUT /api/media
func (h *MediaHandler) UpsertMedia(c *gin.Context) {
	var req UpsertMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	asset := models.NewMediaAsset(req.FilePath, req.Title, req.DurationSeconds)
	asset.VideoCodec = req.VideoCodec
	asset.AudioCodec = req.AudioCodec
	asset.FileSize = req.FileSize
	if req.Supported != nil {
		asset.Supported = *req.Supported
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.media.Upsert(ctx, asset); err != nil {
		logger.Log.Error().
			Err(err).
			Str("file_path", req.FilePath).
			Msg("Failed to upsert media asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "write_failed",
			Message: "Failed to save media asset",
		})
		return
	}

	h.catalog.Invalidate()

	stored, err := h.media.GetByPath(ctx, req.FilePath)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("file_path", req.FilePath).
			Msg("Failed to read back media asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to read back media asset",
		})
		return
	}

	c.JSON(http.StatusOK, stored)
}

// DeleteMedia handles DELETE /api/media/:id
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid media asset ID format",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.media.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Media asset not found",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("media_id", id.String()).
			Msg("Failed to delete media asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete media asset",
		})
		return
	}

	h.catalog.Invalidate()

	c.JSON(http.StatusOK, DeleteResponse{Message: "Media asset deleted"})
}

// SetupMediaRoutes registers media catalog routes
func SetupMediaRoutes(apiGroup *gin.RouterGroup, media *db.MediaRepository, cat *catalog.Store) {
	handler := NewMediaHandler(media, cat)

	group := apiGroup.Group("/media")
	{
		group.GET("", handler.ListMedia)
		group.PUT("", handler.UpsertMedia)
		group.DELETE("/:id", handler.DeleteMedia)
	}
}

// parseIntQuery reads an integer query parameter with a fallback default
func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
