package nowplaying

import (
	"errors"

	"github.com/colefield/airwave/internal/models"
)

// ErrNoContent is returned when a looping playlist has no playable duration
var ErrNoContent = errors.New("looping playlist has no content")

// resolveLoop finds the position within an infinitely repeating playlist for
// a wall-clock instant. Pure function, no I/O.
//
// positionInLoop is epochSeconds modulo the playlist's total duration, so
// every viewer computes the identical global position regardless of when
// they tune in. There is no per-viewer start: this is broadcast semantics.
func resolveLoop(items []*models.PlaylistItem, epochSeconds int64) (*program, error) {
	var totalDuration int64
	for _, item := range items {
		totalDuration += item.DurationSeconds
	}
	if totalDuration <= 0 {
		return nil, ErrNoContent
	}

	positionInLoop := ((epochSeconds % totalDuration) + totalDuration) % totalDuration

	var accumulated int64
	for _, item := range items {
		if positionInLoop < accumulated+item.DurationSeconds {
			offset := positionInLoop - accumulated
			return &program{
				title:            itemTitle(item),
				relPath:          item.FilePath,
				durationSeconds:  item.DurationSeconds,
				offsetSeconds:    offset,
				remainingSeconds: item.DurationSeconds - offset,
			}, nil
		}
		accumulated += item.DurationSeconds
	}

	// Unreachable: positionInLoop < totalDuration by construction
	return nil, ErrNoContent
}

// itemTitle prefers the explicit title, falling back to the file path
func itemTitle(item *models.PlaylistItem) string {
	if item.Title != nil && *item.Title != "" {
		return *item.Title
	}
	return item.FilePath
}
