package service

import (
	"fmt"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

// OverlapResult is everything the engine derives from one set of grids.
type OverlapResult struct {
	Participants int
	Counts       entity.BusyCounts
	Segments     []entity.Segment
	// Best and Recommendation are nil when no segment is long enough.
	Best           *entity.Segment
	Recommendation *entity.Recommendation
	Message        string
}

// OverlapFinder runs the recommendation engine with a configured minimum
// duration.
type OverlapFinder struct {
	// MinDurationHours - default 2
	MinDurationHours int
}

// NewOverlapFinder creates a finder; a non-positive minimum falls back to the
// default.
func NewOverlapFinder(minDurationHours int) *OverlapFinder {
	if minDurationHours <= 0 {
		minDurationHours = constants.DefaultMinDurationHours
	}
	return &OverlapFinder{MinDurationHours: minDurationHours}
}

// Find runs the engine with the finder's minimum.
func (f *OverlapFinder) Find(grids []entity.Grid) (*OverlapResult, error) {
	return Recommend(grids, f.MinDurationHours)
}

// FindWithMin runs the engine with an explicit minimum, or the finder's one
// when minDurationHours is not positive.
func (f *OverlapFinder) FindWithMin(grids []entity.Grid, minDurationHours int) (*OverlapResult, error) {
	if minDurationHours <= 0 {
		minDurationHours = f.MinDurationHours
	}
	return Recommend(grids, minDurationHours)
}

// ComputeBusyCounts counts, for every cell, how many grids mark it busy.
func ComputeBusyCounts(grids []entity.Grid) (entity.BusyCounts, error) {
	var counts entity.BusyCounts
	if len(grids) == 0 {
		return counts, entity.ErrEmptyInput
	}
	for i := range grids {
		for d := 0; d < entity.DaysPerWeek; d++ {
			for h := 0; h < entity.HoursPerDay; h++ {
				if grids[i][d][h] {
					counts[d][h]++
				}
			}
		}
	}
	return counts, nil
}

// ComputeBusyCountsRows is ComputeBusyCounts for unvalidated nested slices.
// A grid with the wrong shape fails the whole call and the error names its
// index.
func ComputeBusyCountsRows(rows [][][]bool) (entity.BusyCounts, error) {
	grids, err := GridsFromRows(rows)
	if err != nil {
		return entity.BusyCounts{}, err
	}
	return ComputeBusyCounts(grids)
}

// GridsFromRows validates every nested slice in order.
func GridsFromRows(rows [][][]bool) ([]entity.Grid, error) {
	if len(rows) == 0 {
		return nil, entity.ErrEmptyInput
	}
	grids := make([]entity.Grid, len(rows))
	for i, r := range rows {
		g, err := entity.FromRows(r)
		if err != nil {
			return nil, fmt.Errorf("grid %d: %w", i, err)
		}
		grids[i] = g
	}
	return grids, nil
}

// SegmentDay run-length encodes one day's busy counts. The result tiles hours
// 0..23 in ascending order with no gaps.
func SegmentDay(day int, counts [entity.HoursPerDay]int) []entity.Segment {
	segments := make([]entity.Segment, 0, 4)
	start := 0
	for h := 1; h <= entity.HoursPerDay; h++ {
		if h < entity.HoursPerDay && counts[h] == counts[start] {
			continue
		}
		segments = append(segments, entity.Segment{
			Day:       day,
			StartHour: start,
			EndHour:   h - 1,
			Duration:  h - start,
			BusyCount: counts[start],
		})
		start = h
	}
	return segments
}

// SegmentCounts segments all seven days, Monday first.
func SegmentCounts(counts entity.BusyCounts) []entity.Segment {
	var segments []entity.Segment
	for d := 0; d < entity.DaysPerWeek; d++ {
		segments = append(segments, SegmentDay(d, counts[d])...)
	}
	return segments
}

func SegmentAll(grids []entity.Grid) ([]entity.Segment, error) {
	counts, err := ComputeBusyCounts(grids)
	if err != nil {
		return nil, err
	}
	return SegmentCounts(counts), nil
}

// SelectBest drops segments shorter than minDurationHours and picks the one
// with the fewest busy participants, then the longest. Remaining ties go to
// the first segment in the input order, which for SegmentAll output is day
// then hour ascending.
func SelectBest(segments []entity.Segment, minDurationHours int) (entity.Segment, bool) {
	var best entity.Segment
	found := false
	for _, s := range segments {
		if s.Duration < minDurationHours {
			continue
		}
		if !found || better(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

// better reports whether a strictly outranks b.
func better(a, b entity.Segment) bool {
	if a.BusyCount != b.BusyCount {
		return a.BusyCount < b.BusyCount
	}
	return a.Duration > b.Duration
}

// FormatRecommendation renders best for totalParticipants people. A nil best
// yields the "no common free time" message for minDurationHours.
func FormatRecommendation(best *entity.Segment, totalParticipants, minDurationHours int) string {
	if best == nil {
		return fmt.Sprintf("No common free time of at least %s", hours(minDurationHours))
	}

	window := fmt.Sprintf("Recommended: %s %d-%d (%s)",
		best.DayName(), best.StartHour, best.EndExclusive(), hours(best.Duration))

	free := totalParticipants - best.BusyCount
	switch best.BusyCount {
	case 0:
		return window + ", everyone is free"
	case 1:
		return fmt.Sprintf("%s, %d free (1 busy)", window, free)
	default:
		return fmt.Sprintf("%s, %d free (%d busy)", window, free, best.BusyCount)
	}
}

// FormatSegment renders a segment as "Monday 9-11 (2 hours)".
func FormatSegment(s entity.Segment) string {
	if s.Duration == 1 {
		return fmt.Sprintf("%s %d (1 hour)", s.DayName(), s.StartHour)
	}
	return fmt.Sprintf("%s %d-%d (%s)", s.DayName(), s.StartHour, s.EndExclusive(), hours(s.Duration))
}

// Recommend runs the full engine over grids. It never mutates its input.
func Recommend(grids []entity.Grid, minDurationHours int) (*OverlapResult, error) {
	counts, err := ComputeBusyCounts(grids)
	if err != nil {
		return nil, err
	}

	result := &OverlapResult{
		Participants: len(grids),
		Counts:       counts,
		Segments:     SegmentCounts(counts),
	}

	best, ok := SelectBest(result.Segments, minDurationHours)
	if !ok {
		result.Message = FormatRecommendation(nil, len(grids), minDurationHours)
		return result, nil
	}

	result.Best = &best
	result.Message = FormatRecommendation(&best, len(grids), minDurationHours)
	result.Recommendation = &entity.Recommendation{
		Day:               best.Day,
		DayName:           best.DayName(),
		StartHour:         best.StartHour,
		EndHour:           best.EndExclusive(),
		DurationHours:     best.Duration,
		BusyCount:         best.BusyCount,
		FreeCount:         len(grids) - best.BusyCount,
		TotalParticipants: len(grids),
		Message:           result.Message,
	}
	return result, nil
}

func hours(n int) string {
	if n == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", n)
}
