package schedule

import (
	"testing"

	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves a fixed set of paths
type fakeResolver map[string]bool

func (f fakeResolver) Resolves(path string) bool { return f[path] }

func TestValidateChannel(t *testing.T) {
	assert.NoError(t, ValidateChannel("Retro TV", "retro", models.ChannelKind24Hour))
	assert.Error(t, ValidateChannel("", "retro", models.ChannelKind24Hour))
	assert.Error(t, ValidateChannel("Retro TV", "  ", models.ChannelKindLooping))
	assert.Error(t, ValidateChannel("Retro TV", "retro", models.ChannelKind("vod")))
}

func TestValidateSlots_ZeroDurationRejected(t *testing.T) {
	slots := []*models.Slot{
		models.NewSlot(uuid.New(), 0, 3600, 3600, "a.mp4"),
	}

	err := ValidateSlots(slots, fakeResolver{"a.mp4": true})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateSlots_WrappingSlotAccepted(t *testing.T) {
	slots := []*models.Slot{
		models.NewSlot(uuid.New(), 0, 84600, 1800, "a.mp4"),
	}

	assert.NoError(t, ValidateSlots(slots, fakeResolver{"a.mp4": true}))
}

func TestValidateSlots_UnresolvedFileRejected(t *testing.T) {
	slots := []*models.Slot{
		models.NewSlot(uuid.New(), 0, 0, 3600, "missing.mp4"),
	}

	err := ValidateSlots(slots, fakeResolver{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "missing.mp4")
}

func TestValidateSlots_OutOfRangeRejected(t *testing.T) {
	bad := models.NewSlot(uuid.New(), 0, 0, 3600, "a.mp4")
	bad.StartSeconds = models.SecondsPerDay

	err := ValidateSlots([]*models.Slot{bad}, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidatePlaylist_NonPositiveDurationRejected(t *testing.T) {
	items := []*models.PlaylistItem{
		models.NewPlaylistItem(uuid.New(), 0, "a.mp4", 0),
	}

	err := ValidatePlaylist(items, fakeResolver{"a.mp4": true})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidatePlaylist_Valid(t *testing.T) {
	items := []*models.PlaylistItem{
		models.NewPlaylistItem(uuid.New(), 0, "a.mp4", 600),
		models.NewPlaylistItem(uuid.New(), 1, "b.mp4", 1200),
	}

	assert.NoError(t, ValidatePlaylist(items, fakeResolver{"a.mp4": true, "b.mp4": true}))
}

func TestWindowInvariant_WrappingSpanPositive(t *testing.T) {
	// For any slot with end <= start the nominal span is (86400-start)+end
	// and must be positive once zero-duration slots are rejected
	slot := models.NewSlot(uuid.New(), 0, 84600, 1800, "a.mp4")
	assert.Equal(t, 3600, slot.SpanSeconds())
	assert.Positive(t, slot.SpanSeconds())

	almostFullDay := models.NewSlot(uuid.New(), 0, 1, 0, "a.mp4")
	assert.Equal(t, models.SecondsPerDay-1, almostFullDay.SpanSeconds())
}
