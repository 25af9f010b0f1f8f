package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaAsset represents a media catalog entry mapping a relative file path
// to its verified duration and codec support flags
type MediaAsset struct {
	ID              uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	FilePath        string    `json:"file_path" gorm:"type:text;not null;uniqueIndex;column:file_path" validate:"required"`
	Title           string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	DurationSeconds int64     `json:"duration_seconds" gorm:"type:integer;not null;column:duration_seconds" validate:"required,gt=0"`
	VideoCodec      *string   `json:"video_codec,omitempty" gorm:"type:text;column:video_codec"`
	AudioCodec      *string   `json:"audio_codec,omitempty" gorm:"type:text;column:audio_codec"`
	Supported       bool      `json:"supported" gorm:"type:integer;not null;default:1;column:supported"`
	FileSize        *int64    `json:"file_size,omitempty" gorm:"type:integer;column:file_size"`
	CreatedAt       time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewMediaAsset creates a new MediaAsset with generated UUID and timestamp
func NewMediaAsset(filePath, title string, durationSeconds int64) *MediaAsset {
	return &MediaAsset{
		ID:              uuid.New(),
		FilePath:        filePath,
		Title:           title,
		DurationSeconds: durationSeconds,
		Supported:       true,
		CreatedAt:       time.Now().UTC(),
	}
}

// DurationString returns duration in HH:MM:SS format
func (m *MediaAsset) DurationString() string {
	hours := m.DurationSeconds / 3600
	minutes := (m.DurationSeconds % 3600) / 60
	seconds := m.DurationSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
