package schedule

import (
	"testing"

	"github.com/colefield/airwave/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotAt(start, end int) *models.Slot {
	return models.NewSlot(uuid.New(), 0, start, end, "asset.mp4")
}

func TestDetectConflicts_NoOverlap(t *testing.T) {
	// [00:00,01:00) and [01:00,02:00) touch but do not overlap
	slots := []*models.Slot{
		slotAt(0, 3600),
		slotAt(3600, 7200),
	}

	assert.Empty(t, DetectConflicts(slots))
}

func TestDetectConflicts_SimpleOverlap(t *testing.T) {
	slots := []*models.Slot{
		slotAt(0, 3600),
		slotAt(1800, 5400),
	}

	conflicts := DetectConflicts(slots)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 0, conflicts[0].SlotAIndex)
	assert.Equal(t, 1, conflicts[0].SlotBIndex)
	assert.Equal(t, 1800, conflicts[0].OverlapSeconds)
}

func TestDetectConflicts_MidnightWraparound(t *testing.T) {
	// [23:30,00:30) and [00:15,00:45) overlap for 15 minutes past midnight
	slots := []*models.Slot{
		slotAt(84600, 1800),
		slotAt(900, 2700),
	}

	conflicts := DetectConflicts(slots)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 900, conflicts[0].OverlapSeconds)
}

func TestDetectConflicts_Symmetric(t *testing.T) {
	a := slotAt(84600, 1800)
	b := slotAt(900, 2700)

	forward := DetectConflicts([]*models.Slot{a, b})
	reversed := DetectConflicts([]*models.Slot{b, a})

	require.Len(t, forward, 1)
	require.Len(t, reversed, 1)
	assert.Equal(t, forward[0].OverlapSeconds, reversed[0].OverlapSeconds)
}

func TestDetectConflicts_NoSelfConflict(t *testing.T) {
	assert.Empty(t, DetectConflicts([]*models.Slot{slotAt(0, 86399)}))
}

func TestDetectConflicts_TwoWrappingSlots(t *testing.T) {
	// Both cross midnight: [23:00,01:00) and [23:30,00:30) share
	// 23:30-00:30 entirely
	slots := []*models.Slot{
		slotAt(82800, 3600),
		slotAt(84600, 1800),
	}

	conflicts := DetectConflicts(slots)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 3600, conflicts[0].OverlapSeconds)
}

func TestDetectConflicts_MultiplePairs(t *testing.T) {
	slots := []*models.Slot{
		slotAt(0, 7200),
		slotAt(3600, 10800),
		slotAt(9000, 14400),
	}

	conflicts := DetectConflicts(slots)
	require.Len(t, conflicts, 2)

	assert.Equal(t, Conflict{SlotAIndex: 0, SlotBIndex: 1, OverlapSeconds: 3600}, conflicts[0])
	assert.Equal(t, Conflict{SlotAIndex: 1, SlotBIndex: 2, OverlapSeconds: 1800}, conflicts[1])
}
