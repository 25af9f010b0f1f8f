package nowplaying

import (
	"sort"

	"github.com/colefield/airwave/internal/models"
)

// DurationFunc resolves a relative path to its catalog duration in seconds.
// The second return is false when the catalog has no entry for the path.
type DurationFunc func(path string) (int64, bool)

// resolveSlots finds the active slot for a 24hour schedule at the given
// seconds-of-day. Pure function, no I/O.
//
// Each slot's effective window is min(asset duration, scheduled span): an
// asset shorter than its span leaves the channel idle for the remainder, and
// an asset longer than its span is capped so it never spills into the next
// slot. A missing catalog duration falls back to the scheduled span.
//
// Slots are evaluated in ascending start order, and the first active slot
// wins. With overlapping schedules this makes the earliest start the
// deterministic tie-break. Returns nil when no slot is active, which is a
// normal off-air gap rather than an error.
func resolveSlots(slots []*models.Slot, durationOf DurationFunc, secondsOfDay int) *program {
	if len(slots) == 0 {
		return nil
	}

	ordered := make([]*models.Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartSeconds < ordered[j].StartSeconds
	})

	for _, slot := range ordered {
		window := windowSeconds(slot, durationOf)
		if window <= 0 {
			continue
		}
		if !slotActiveAt(slot, window, secondsOfDay) {
			continue
		}

		offset := (secondsOfDay - slot.StartSeconds + models.SecondsPerDay) % models.SecondsPerDay
		if offset > window-1 {
			offset = window - 1
		}

		title := ""
		if slot.Title != nil {
			title = *slot.Title
		}

		return &program{
			title:            title,
			relPath:          slot.FilePath,
			durationSeconds:  int64(window),
			offsetSeconds:    int64(offset),
			remainingSeconds: int64(window - offset),
		}
	}

	return nil
}

// windowSeconds computes the slot's effective active duration
func windowSeconds(slot *models.Slot, durationOf DurationFunc) int {
	span := slot.SpanSeconds()
	if durationOf == nil {
		return span
	}
	assetDuration, ok := durationOf(slot.FilePath)
	if !ok {
		return span
	}
	if assetDuration < int64(span) {
		return int(assetDuration)
	}
	return span
}

// slotActiveAt reports whether t (seconds of day) falls inside the slot's
// effective window.
func slotActiveAt(slot *models.Slot, window, t int) bool {
	start := slot.StartSeconds

	if !slot.Wraps() {
		return t >= start && t < start+window
	}

	if start+window >= models.SecondsPerDay {
		// The window itself crosses midnight
		windowEnd := (start + window) % models.SecondsPerDay
		return t >= start || t < windowEnd
	}

	// Scheduled end is past midnight but the asset finishes before it,
	// so the window behaves like a non-wrapping slot
	return t >= start && t < start+window
}
