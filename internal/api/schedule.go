package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/models"
	"github.com/colefield/airwave/internal/schedule"
	"github.com/colefield/airwave/internal/timeofday"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Slot and playlist DTOs

// SlotRequest is one slot in a schedule write, with clock-time boundaries
type SlotRequest struct {
	Start string  `json:"start" binding:"required"`
	End   string  `json:"end" binding:"required"`
	File  string  `json:"file" binding:"required"`
	Title *string `json:"title,omitempty"`
}

// PutSlotsRequest replaces a channel's full slot list
type PutSlotsRequest struct {
	Slots []SlotRequest `json:"slots" binding:"required"`
}

// SlotResponse is one slot in schedule reads
type SlotResponse struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	StartSeconds int     `json:"start_seconds"`
	EndSeconds   int     `json:"end_seconds"`
	File         string  `json:"file"`
	Title        *string `json:"title,omitempty"`
}

// SlotsResponse represents a channel's slot schedule
type SlotsResponse struct {
	Slots []*SlotResponse `json:"slots"`
}

// PlaylistItemRequest is one entry in a playlist write
type PlaylistItemRequest struct {
	File            string  `json:"file" binding:"required"`
	Title           *string `json:"title,omitempty"`
	DurationSeconds int64   `json:"duration_seconds" binding:"required,gt=0"`
}

// PutPlaylistRequest replaces a channel's full playlist
type PutPlaylistRequest struct {
	Items []PlaylistItemRequest `json:"items" binding:"required"`
}

// PlaylistResponse represents a channel's playlist
type PlaylistResponse struct {
	Items                []*models.PlaylistItem `json:"items"`
	TotalDurationSeconds int64                  `json:"total_duration_seconds"`
}

// ConflictsResponse is the advisory overlap report for a channel
type ConflictsResponse struct {
	Conflicts []schedule.Conflict `json:"conflicts"`
}

// ScheduleHandler handles slot, playlist and conflict API requests
type ScheduleHandler struct {
	schedules *schedule.Service
	channels  *ChannelHandler
}

// NewScheduleHandler creates a new schedule handler instance
func NewScheduleHandler(schedules *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		channels:  NewChannelHandler(schedules),
	}
}

// GetSlots handles GET /api/channels/:id/slots
func (h *ScheduleHandler) GetSlots(c *gin.Context) {
	id, ok := h.channels.channelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	slots, err := h.schedules.GetSlots(ctx, id)
	if err != nil {
		h.channels.respondChannelError(c, err, id)
		return
	}

	responses := make([]*SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = &SlotResponse{
			Start:        timeofday.Format(slot.StartSeconds),
			End:          timeofday.Format(slot.EndSeconds),
			StartSeconds: slot.StartSeconds,
			EndSeconds:   slot.EndSeconds,
			File:         slot.FilePath,
			Title:        slot.Title,
		}
	}

	c.JSON(http.StatusOK, SlotsResponse{Slots: responses})
}

// PutSlots handles PUT /api/channels/:id/slots
func (h *ScheduleHandler) PutSlots(c *gin.Context) {
	id, ok := h.channels.channelID(c)
	if !ok {
		return
	}

	var req PutSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	slots := make([]*models.Slot, 0, len(req.Slots))
	for i, sr := range req.Slots {
		start, err := timeofday.Parse(sr.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_time",
				Message: err.Error(),
			})
			return
		}
		end, err := timeofday.Parse(sr.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_time",
				Message: err.Error(),
			})
			return
		}

		slot := models.NewSlot(id, i, start, end, sr.File)
		slot.Title = sr.Title
		slots = append(slots, slot)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.schedules.SetSlots(ctx, id, slots); err != nil {
		h.respondWriteError(c, err, id)
		return
	}

	// Report conflicts on every write so the admin surface can warn
	conflicts := schedule.DetectConflicts(slots)
	c.JSON(http.StatusOK, ConflictsResponse{Conflicts: conflicts})
}

// GetPlaylist handles GET /api/channels/:id/playlist
func (h *ScheduleHandler) GetPlaylist(c *gin.Context) {
	id, ok := h.channels.channelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.schedules.GetPlaylist(ctx, id)
	if err != nil {
		h.channels.respondChannelError(c, err, id)
		return
	}

	var total int64
	for _, item := range items {
		total += item.DurationSeconds
	}

	c.JSON(http.StatusOK, PlaylistResponse{
		Items:                items,
		TotalDurationSeconds: total,
	})
}

// PutPlaylist handles PUT /api/channels/:id/playlist
func (h *ScheduleHandler) PutPlaylist(c *gin.Context) {
	id, ok := h.channels.channelID(c)
	if !ok {
		return
	}

	var req PutPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	items := make([]*models.PlaylistItem, 0, len(req.Items))
	for i, ir := range req.Items {
		item := models.NewPlaylistItem(id, i, ir.File, ir.DurationSeconds)
		item.Title = ir.Title
		items = append(items, item)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.schedules.SetPlaylist(ctx, id, items); err != nil {
		h.respondWriteError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Playlist replaced"})
}

// GetConflicts handles GET /api/channels/:id/conflicts
func (h *ScheduleHandler) GetConflicts(c *gin.Context) {
	id, ok := h.channels.channelID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	conflicts, err := h.schedules.Conflicts(ctx, id)
	if err != nil {
		h.channels.respondChannelError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, ConflictsResponse{Conflicts: conflicts})
}

// respondWriteError maps schedule write failures to HTTP responses
func (h *ScheduleHandler) respondWriteError(c *gin.Context, err error, id uuid.UUID) {
	if schedule.IsValidation(err) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}
	if errors.Is(err, schedule.ErrWrongKind) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "wrong_kind",
			Message: "Operation does not match the channel's schedule kind",
		})
		return
	}
	if errors.Is(err, schedule.ErrChannelNotFound) {
		h.channels.respondChannelError(c, err, id)
		return
	}

	logger.Log.Error().
		Err(err).
		Str("channel_id", id.String()).
		Msg("Schedule write failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "write_failed",
		Message: "Failed to save schedule",
	})
}
