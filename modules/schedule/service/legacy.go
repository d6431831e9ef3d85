package service

import (
	"fmt"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

// LegacyResult is the outcome of the two-party policy.
type LegacyResult struct {
	FreeSlots []entity.Segment `json:"free_slots"`
	Best      *entity.Segment  `json:"best,omitempty"`
	Message   string           `json:"message"`
}

// CommonFreeSlots returns the runs where both a and b are free, day then hour
// ascending. Partially busy hours are not reported at all.
func CommonFreeSlots(a, b entity.Grid) []entity.Segment {
	var slots []entity.Segment
	for d := 0; d < entity.DaysPerWeek; d++ {
		start := -1
		for h := 0; h <= entity.HoursPerDay; h++ {
			free := h < entity.HoursPerDay && !a[d][h] && !b[d][h]
			if free {
				if start == -1 {
					start = h
				}
				continue
			}
			if start != -1 {
				slots = append(slots, entity.Segment{
					Day:       d,
					StartHour: start,
					EndHour:   h - 1,
					Duration:  h - start,
				})
				start = -1
			}
		}
	}
	return slots
}

// LegacyTwoPartyRecommendation recommends the longest window where both people
// are free, the first one on ties, and only if it lasts minDurationHours.
//
// Deprecated: Recommend ranks partially free windows as well and handles any
// number of participants. This policy stays available for the two-party
// compare view until the product drops it.
func LegacyTwoPartyRecommendation(a, b entity.Grid, minDurationHours int) LegacyResult {
	slots := CommonFreeSlots(a, b)
	result := LegacyResult{FreeSlots: slots}

	var best *entity.Segment
	for i := range slots {
		if slots[i].Duration < minDurationHours {
			continue
		}
		if best == nil || slots[i].Duration > best.Duration {
			best = &slots[i]
		}
	}

	if best == nil {
		result.Message = fmt.Sprintf("No common free time of at least %s", hours(minDurationHours))
		return result
	}

	chosen := *best
	result.Best = &chosen
	result.Message = fmt.Sprintf("Recommended: %s %d-%d (%s free)",
		chosen.DayName(), chosen.StartHour, chosen.EndExclusive(), hours(chosen.Duration))
	return result
}
