package dto

import (
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

// ===================== Requests =====================

// SaveScheduleRequest replaces the caller's grid
type SaveScheduleRequest struct {
	Schedule [][]bool `json:"schedule"`
}

// SetCellRequest toggles a single hour
type SetCellRequest struct {
	Day  int  `json:"day"`
	Hour int  `json:"hour"`
	Busy bool `json:"busy"`
}

// PaintRequest paints every cell on a drag path
type PaintRequest struct {
	FromDay  int  `json:"from_day"`
	FromHour int  `json:"from_hour"`
	ToDay    int  `json:"to_day"`
	ToHour   int  `json:"to_hour"`
	Busy     bool `json:"busy"`
}

// ClearRequest must carry confirm=true
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// RecommendRequest runs the engine on grids posted by the client
type RecommendRequest struct {
	Grids       [][][]bool `json:"grids"`
	MinDuration int        `json:"min_duration"`
}

// ===================== Responses =====================

type ScheduleResponse struct {
	UserID    int64       `json:"user_id"`
	Nickname  string      `json:"nickname"`
	Schedule  entity.Grid `json:"schedule"`
	BusyCells int         `json:"busy_cells"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// ParticipantView describes one input grid of a comparison
type ParticipantView struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Found    bool   `json:"found"`
}

// OverlapView is the rendered engine output shared by every comparison
type OverlapView struct {
	Participants   []ParticipantView      `json:"participants,omitempty"`
	Missing        []string               `json:"missing,omitempty"`
	MinDuration    int                    `json:"min_duration"`
	BusyCounts     entity.BusyCounts      `json:"busy_counts"`
	Levels         entity.LevelGrid       `json:"levels"`
	Segments       []entity.Segment       `json:"segments"`
	Recommendation *entity.Recommendation `json:"recommendation"`
	Message        string                 `json:"message"`
}

// LegacyView is the two-party only result.
//
// Deprecated: kept for clients of the first compare screen.
type LegacyView struct {
	FreeSlots []entity.Segment `json:"free_slots"`
	Best      *entity.Segment  `json:"best,omitempty"`
	Message   string           `json:"message"`
}

type CompareResponse struct {
	OverlapView
	Legacy *LegacyView `json:"legacy,omitempty"`
}

// ===================== Mappers =====================

func ToScheduleResponse(s *entity.StoredSchedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		UserID:    s.UserID,
		Nickname:  s.Nickname,
		Schedule:  s.Grid,
		BusyCells: s.Grid.BusyCellCount(),
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func ToOverlapView(counts entity.BusyCounts, segments []entity.Segment, rec *entity.Recommendation, message string, minDuration int) OverlapView {
	view := OverlapView{
		MinDuration:    minDuration,
		BusyCounts:     counts,
		Levels:         counts.Levels(),
		Segments:       segments,
		Recommendation: rec,
		Message:        message,
	}
	if view.Segments == nil {
		view.Segments = []entity.Segment{}
	}
	return view
}
