package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel represents a simulated broadcast channel
type Channel struct {
	ID        uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string      `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	ShortName string      `json:"short_name" gorm:"type:text;not null;uniqueIndex;column:short_name" validate:"required"`
	Kind      ChannelKind `json:"kind" gorm:"type:text;not null;column:kind" validate:"required"`
	Active    bool        `json:"active" gorm:"type:integer;not null;default:1;column:active"`
	CreatedAt time.Time   `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`

	// Populated by joins, not stored on the channel row. Slots is meaningful
	// only for 24hour channels, Playlist only for looping channels.
	Slots    []*Slot         `json:"slots,omitempty" gorm:"-"`
	Playlist []*PlaylistItem `json:"playlist,omitempty" gorm:"-"`
}

// NewChannel creates a new Channel with generated UUID and timestamps
func NewChannel(name, shortName string, kind ChannelKind) *Channel {
	now := time.Now().UTC()
	return &Channel{
		ID:        uuid.New(),
		Name:      name,
		ShortName: shortName,
		Kind:      kind,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
