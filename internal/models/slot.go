package models

import (
	"time"

	"github.com/google/uuid"
)

// Slot represents one scheduled block on a 24hour channel. StartSeconds and
// EndSeconds are seconds of day in [0, 86400); EndSeconds < StartSeconds
// denotes a slot crossing midnight.
type Slot struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID    uuid.UUID `json:"channel_id" gorm:"type:text;not null;column:channel_id" validate:"required"`
	Position     int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	StartSeconds int       `json:"start_seconds" gorm:"type:integer;not null;column:start_seconds" validate:"gte=0,lt=86400"`
	EndSeconds   int       `json:"end_seconds" gorm:"type:integer;not null;column:end_seconds" validate:"gte=0,lt=86400"`
	FilePath     string    `json:"file_path" gorm:"type:text;not null;column:file_path" validate:"required"`
	Title        *string   `json:"title,omitempty" gorm:"type:text;column:title"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewSlot creates a new Slot with generated UUID and timestamp
func NewSlot(channelID uuid.UUID, position, startSeconds, endSeconds int, filePath string) *Slot {
	return &Slot{
		ID:           uuid.New(),
		ChannelID:    channelID,
		Position:     position,
		StartSeconds: startSeconds,
		EndSeconds:   endSeconds,
		FilePath:     filePath,
		CreatedAt:    time.Now().UTC(),
	}
}

// SpanSeconds returns the nominal scheduled length of the slot, accounting
// for midnight wraparound.
func (s *Slot) SpanSeconds() int {
	if s.EndSeconds > s.StartSeconds {
		return s.EndSeconds - s.StartSeconds
	}
	return (SecondsPerDay - s.StartSeconds) + s.EndSeconds
}

// Wraps reports whether the slot's scheduled range crosses midnight
func (s *Slot) Wraps() bool {
	return s.EndSeconds < s.StartSeconds
}
