package entity

import (
	"time"
)

// BusyCounts holds, per day and hour, how many participants are busy.
type BusyCounts [DaysPerWeek][HoursPerDay]int

// LevelGrid is BusyCounts bucketed with BusyLevel.
type LevelGrid [DaysPerWeek][HoursPerDay]Level

func (c BusyCounts) Levels() LevelGrid {
	var levels LevelGrid
	for d := range c {
		for h := range c[d] {
			levels[d][h] = BusyLevel(c[d][h])
		}
	}
	return levels
}

// Segment is a maximal run of hours within one day where the busy count does
// not change. EndHour is inclusive.
type Segment struct {
	Day       int `json:"day"`
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
	Duration  int `json:"duration"`
	BusyCount int `json:"busy_count"`
}

// EndExclusive is the first hour after the segment.
func (s Segment) EndExclusive() int {
	return s.EndHour + 1
}

func (s Segment) DayName() string {
	if s.Day < 0 || s.Day >= DaysPerWeek {
		return ""
	}
	return DayNames[s.Day]
}

// Recommendation is the rendered best segment. EndHour is exclusive.
type Recommendation struct {
	Day               int    `json:"day"`
	DayName           string `json:"day_name"`
	StartHour         int    `json:"start_hour"`
	EndHour           int    `json:"end_hour"`
	DurationHours     int    `json:"duration_hours"`
	BusyCount         int    `json:"busy_count"`
	FreeCount         int    `json:"free_count"`
	TotalParticipants int    `json:"total_participants"`
	Message           string `json:"message"`
}

// StoredSchedule is a row of the schedules table.
type StoredSchedule struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Grid      Grid      `db:"grid" json:"schedule"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
