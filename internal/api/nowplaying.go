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

// NowResponse is the live playback snapshot for a channel. NowPlaying is
// omitted when the channel is off air.
type NowResponse struct {
	NowPlaying   *nowplaying.NowPlaying `json:"now_playing,omitempty"`
	ServerTimeMs int64                  `json:"server_time_ms"`
}

// NowHandler handles now-playing resolution requests
type NowHandler struct {
	resolver  *nowplaying.Service
	schedules *schedule.Service
}

// NewNowHandler creates a new now-playing handler instance
func NewNowHandler(resolver *nowplaying.Service, schedules *schedule.Service) *NowHandler {
	return &NowHandler{resolver: resolver, schedules: schedules}
}

// GetNow handles GET /api/channels/:id/now. The :id parameter accepts
// either a channel UUID or a short name.
func (h *NowHandler) GetNow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	channel, err := h.lookupChannel(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, schedule.ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("channel", c.Param("id")).
			Msg("Failed to look up channel for now-playing")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to resolve channel",
		})
		return
	}

	now := time.Now().UTC()
	playing, err := h.resolver.Resolve(ctx, channel.ID, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channel.ID.String()).
			Msg("Now-playing resolution failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "resolve_failed",
			Message: "Failed to resolve current program",
		})
		return
	}

	c.JSON(http.StatusOK, NowResponse{
		NowPlaying:   playing,
		ServerTimeMs: now.UnixMilli(),
	})
}

// lookupChannel resolves the route parameter as a UUID first, then as a
// short name.
func (h *NowHandler) lookupChannel(ctx context.Context, param string) (*models.Channel, error) {
	if id, err := uuid.Parse(param); err == nil {
		return h.schedules.GetByID(ctx, id)
	}
	return h.schedules.GetByShortName(ctx, param)
}
