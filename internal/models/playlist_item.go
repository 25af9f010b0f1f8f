package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistItem represents one entry in a looping channel's playlist.
// DurationSeconds is pre-verified at write time and never inferred during
// resolution.
type PlaylistItem struct {
	ID              uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID       uuid.UUID `json:"channel_id" gorm:"type:text;not null;column:channel_id" validate:"required"`
	Position        int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	FilePath        string    `json:"file_path" gorm:"type:text;not null;column:file_path" validate:"required"`
	Title           *string   `json:"title,omitempty" gorm:"type:text;column:title"`
	DurationSeconds int64     `json:"duration_seconds" gorm:"type:integer;not null;column:duration_seconds" validate:"required,gt=0"`
	CreatedAt       time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewPlaylistItem creates a new PlaylistItem with generated UUID and timestamp
func NewPlaylistItem(channelID uuid.UUID, position int, filePath string, durationSeconds int64) *PlaylistItem {
	return &PlaylistItem{
		ID:              uuid.New(),
		ChannelID:       channelID,
		Position:        position,
		FilePath:        filePath,
		DurationSeconds: durationSeconds,
		CreatedAt:       time.Now().UTC(),
	}
}
