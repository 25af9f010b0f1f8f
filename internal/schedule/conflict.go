package schedule

import (
	"github.com/colefield/airwave/internal/models"
)

// Conflict reports that two slots in a channel's schedule overlap. Purely
// advisory: conflicting schedules are still saved, and resolution breaks the
// tie deterministically.
type Conflict struct {
	SlotAIndex     int `json:"slot_a_index"`
	SlotBIndex     int `json:"slot_b_index"`
	OverlapSeconds int `json:"overlap_seconds"`
}

// DetectConflicts performs pairwise overlap analysis over a channel's slots.
// A slot crossing midnight contributes two half-open ranges, [start, 86400)
// and [0, end), so overlap across the day boundary is counted correctly.
func DetectConflicts(slots []*models.Slot) []Conflict {
	conflicts := []Conflict{}

	for a := 0; a < len(slots); a++ {
		for b := a + 1; b < len(slots); b++ {
			overlap := overlapSeconds(slots[a], slots[b])
			if overlap > 0 {
				conflicts = append(conflicts, Conflict{
					SlotAIndex:     a,
					SlotBIndex:     b,
					OverlapSeconds: overlap,
				})
			}
		}
	}

	return conflicts
}

// slotRanges splits a slot into its half-open seconds-of-day ranges
func slotRanges(s *models.Slot) [][2]int {
	if s.Wraps() {
		return [][2]int{
			{s.StartSeconds, models.SecondsPerDay},
			{0, s.EndSeconds},
		}
	}
	return [][2]int{{s.StartSeconds, s.EndSeconds}}
}

// overlapSeconds sums pairwise range intersections between two slots
func overlapSeconds(a, b *models.Slot) int {
	total := 0
	for _, ra := range slotRanges(a) {
		for _, rb := range slotRanges(b) {
			lo := max(ra[0], rb[0])
			hi := min(ra[1], rb[1])
			if hi > lo {
				total += hi - lo
			}
		}
	}
	return total
}
