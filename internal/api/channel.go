package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/colefield/airwave/internal/nowplaying"
	"github.com/colefield/airwave/internal/schedule"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Request/Response DTOs

// CreateChannelRequest represents a request to create a new channel
type CreateChannelRequest struct {
	Name      string             `json:"name" binding:"required"`
	ShortName string             `json:"short_name" binding:"required"`
	Kind      models.ChannelKind `json:"kind" binding:"required"`
}

// UpdateChannelRequest represents a request to update channel metadata (partial update)
type UpdateChannelRequest struct {
	Name      *string `json:"name,omitempty"`
	ShortName *string `json:"short_name,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// ChannelResponse represents a channel in API responses
type ChannelResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ShortName string             `json:"short_name"`
	Kind      models.ChannelKind `json:"kind"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ChannelListResponse represents a list of channels
type ChannelListResponse struct {
	Channels []*ChannelResponse `json:"channels"`
}

// ChannelHandler handles channel-related API requests
type ChannelHandler struct {
	schedules *schedule.Service
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(schedules *schedule.Service) *ChannelHandler {
	return &ChannelHandler{schedules: schedules}
}

// toChannelResponse converts a channel model to API response format
func toChannelResponse(ch *models.Channel) *ChannelResponse {
	return &ChannelResponse{
		ID:        ch.ID.String(),
		Name:      ch.Name,
		ShortName: ch.ShortName,
		Kind:      ch.Kind,
		Active:    ch.Active,
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	}
}

// CreateChannel handles POST /api/channels
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	newChannel, err := h.schedules.CreateChannel(ctx, req.Name, req.ShortName, req.Kind)
	if err != nil {
		if errors.Is(err, schedule.ErrDuplicateShortName) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_short_name",
				Message: "A channel with this short name already exists",
			})
			return
		}
		if schedule.IsValidation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_failed",
				Message: err.Error(),
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("short_name", req.ShortName).
			Msg("Failed to create channel")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create channel",
		})
		return
	}

	c.JSON(http.StatusCreated, toChannelResponse(newChannel))
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	channels, err := h.schedules.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve channel list",
		})
		return
	}

	responses := make([]*ChannelResponse, len(channels))
	for i, ch := range channels {
		responses[i] = toChannelResponse(ch)
	}

	c.JSON(http.StatusOK, ChannelListResponse{Channels: responses})
}

// GetChannel handles GET /api/channels/:id
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.schedules.GetByID(ctx, id)
	if err != nil {
		h.respondChannelError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(ch))
}

// UpdateChannel handles PUT /api/channels/:id
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}

	var req UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.schedules.GetByID(ctx, id)
	if err != nil {
		h.respondChannelError(c, err, id)
		return
	}

	if req.Name != nil {
		ch.Name = *req.Name
	}
	if req.ShortName != nil {
		ch.ShortName = *req.ShortName
	}
	if req.Active != nil {
		ch.Active = *req.Active
	}

	if err := h.schedules.UpdateChannel(ctx, ch); err != nil {
		if errors.Is(err, schedule.ErrDuplicateShortName) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_short_name",
				Message: "A channel with this short name already exists",
			})
			return
		}
		if schedule.IsValidation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_failed",
				Message: err.Error(),
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("channel_id", id.String()).
			Msg("Failed to update channel")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update channel",
		})
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(ch))
}

// DeleteChannel handles DELETE /api/channels/:id
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.schedules.DeleteChannel(ctx, id); err != nil {
		h.respondChannelError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Channel deleted"})
}

// SetupChannelRoutes registers channel, schedule and now-playing routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, schedules *schedule.Service, resolver *nowplaying.Service) {
	channels := NewChannelHandler(schedules)
	schedulesHandler := NewScheduleHandler(schedules)
	now := NewNowHandler(resolver, schedules)

	group := apiGroup.Group("/channels")
	{
		group.POST("", channels.CreateChannel)
		group.GET("", channels.ListChannels)
		group.GET("/:id", channels.GetChannel)
		group.PUT("/:id", channels.UpdateChannel)
		group.DELETE("/:id", channels.DeleteChannel)

		group.GET("/:id/slots", schedulesHandler.GetSlots)
		group.PUT("/:id/slots", schedulesHandler.PutSlots)
		group.GET("/:id/playlist", schedulesHandler.GetPlaylist)
		group.PUT("/:id/playlist", schedulesHandler.PutPlaylist)
		group.GET("/:id/conflicts", schedulesHandler.GetConflicts)

		group.GET("/:id/now", now.GetNow)
	}
}

// channelID parses the :id route parameter, writing a 400 on failure
func (h *ChannelHandler) channelID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid channel ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// respondChannelError maps schedule service errors to HTTP responses
func (h *ChannelHandler) respondChannelError(c *gin.Context, err error, id uuid.UUID) {
	if errors.Is(err, schedule.ErrChannelNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Channel not found",
		})
		return
	}

	logger.Log.Error().
		Err(err).
		Str("channel_id", id.String()).
		Msg("Channel request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "query_failed",
		Message: "Failed to process channel request",
	})
}
