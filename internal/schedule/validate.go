package schedule

import (
	"fmt"
	"strings"

	"github.com/colefield/airwave/internal/models"
)

// PathResolver reports whether a relative file path resolves to a known
// catalog entry. The media catalog satisfies this.
type PathResolver interface {
	Resolves(path string) bool
}

// ValidateChannel checks channel metadata at the write boundary
func ValidateChannel(name, shortName string, kind models.ChannelKind) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(shortName) == "" {
		return &ValidationError{Field: "short_name", Message: "must not be empty"}
	}
	if !kind.Valid() {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", kind)}
	}
	return nil
}

// ValidateSlots checks a full slot list before it is persisted. Rejected
// writes never reach the database.
func ValidateSlots(slots []*models.Slot, resolver PathResolver) error {
	for i, slot := range slots {
		field := fmt.Sprintf("slots[%d]", i)

		if slot.StartSeconds < 0 || slot.StartSeconds >= models.SecondsPerDay {
			return &ValidationError{Field: field + ".start", Message: "out of range"}
		}
		if slot.EndSeconds < 0 || slot.EndSeconds >= models.SecondsPerDay {
			return &ValidationError{Field: field + ".end", Message: "out of range"}
		}
		if slot.StartSeconds == slot.EndSeconds {
			return &ValidationError{Field: field, Message: "zero-duration slot"}
		}
		if slot.FilePath == "" {
			return &ValidationError{Field: field + ".file", Message: "must not be empty"}
		}
		if resolver != nil && !resolver.Resolves(slot.FilePath) {
			return &ValidationError{
				Field:   field + ".file",
				Message: fmt.Sprintf("%q not found in media catalog", slot.FilePath),
			}
		}
	}
	return nil
}

// ValidatePlaylist checks a full looping playlist before it is persisted.
// Durations must be positive: they are trusted verbatim at resolution time.
func ValidatePlaylist(items []*models.PlaylistItem, resolver PathResolver) error {
	for i, item := range items {
		field := fmt.Sprintf("playlist[%d]", i)

		if item.FilePath == "" {
			return &ValidationError{Field: field + ".file", Message: "must not be empty"}
		}
		if item.DurationSeconds <= 0 {
			return &ValidationError{Field: field + ".duration_seconds", Message: "must be positive"}
		}
		if resolver != nil && !resolver.Resolves(item.FilePath) {
			return &ValidationError{
				Field:   field + ".file",
				Message: fmt.Sprintf("%q not found in media catalog", item.FilePath),
			}
		}
	}
	return nil
}
