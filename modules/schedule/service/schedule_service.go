package service

import (
	"context"
	stderrors "errors"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

// GridStore is what the service needs from storage.
type GridStore interface {
	Load(ctx context.Context, userID int64) (*entity.StoredSchedule, error)
	LoadMany(ctx context.Context, userIDs []int64) (map[int64]*entity.StoredSchedule, error)
	Save(ctx context.Context, schedule *entity.StoredSchedule) error
	Delete(ctx context.Context, userID int64) error
}

// Member identifies a participant of a comparison.
type Member struct {
	UserID   int64
	Nickname string
}

// MemberFromNickname derives the id the same way login does.
func MemberFromNickname(nickname string) Member {
	return Member{UserID: utils.NicknameToID(nickname), Nickname: nickname}
}

// ScheduleService handles schedule business logic
type ScheduleService struct {
	store  GridStore
	finder *OverlapFinder
}

// ScheduleServiceInterface defines the service contract
type ScheduleServiceInterface interface {
	GetSchedule(ctx context.Context, userID int64) (*dto.ScheduleResponse, *errors.AppError)
	GetMySchedule(ctx context.Context, self Member) (*dto.ScheduleResponse, *errors.AppError)
	SaveSchedule(ctx context.Context, self Member, req *dto.SaveScheduleRequest) (*dto.ScheduleResponse, *errors.AppError)
	DeleteSchedule(ctx context.Context, self Member) *errors.AppError
	SetCell(ctx context.Context, self Member, req *dto.SetCellRequest) (*dto.ScheduleResponse, *errors.AppError)
	PaintRange(ctx context.Context, self Member, req *dto.PaintRequest) (*dto.ScheduleResponse, *errors.AppError)
	Clear(ctx context.Context, self Member, req *dto.ClearRequest) (*dto.ScheduleResponse, *errors.AppError)
	Compare(ctx context.Context, self Member, friendNickname string, minDuration int) (*dto.CompareResponse, *errors.AppError)
	Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.OverlapView, *errors.AppError)
	CompareMembers(ctx context.Context, members []Member, minDuration int) (*dto.OverlapView, *errors.AppError)
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store GridStore, finder *OverlapFinder) ScheduleServiceInterface {
	if finder == nil {
		finder = NewOverlapFinder(0)
	}
	return &ScheduleService{
		store:  store,
		finder: finder,
	}
}

// GetSchedule returns another user's stored grid
func (s *ScheduleService) GetSchedule(ctx context.Context, userID int64) (*dto.ScheduleResponse, *errors.AppError) {
	stored, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, loadError(err)
	}
	if stored == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}
	return dto.ToScheduleResponse(stored), nil
}

// GetMySchedule returns the caller's grid, or an empty one if nothing is saved
func (s *ScheduleService) GetMySchedule(ctx context.Context, self Member) (*dto.ScheduleResponse, *errors.AppError) {
	stored, appErr := s.loadOrEmpty(ctx, self)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToScheduleResponse(stored), nil
}

// SaveSchedule replaces the caller's grid wholesale
func (s *ScheduleService) SaveSchedule(ctx context.Context, self Member, req *dto.SaveScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	grid, err := entity.FromRows(req.Schedule)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrShapeMismatch, "Schedule must be 7 days by 24 hours", err)
	}
	return s.save(ctx, self, grid)
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, self Member) *errors.AppError {
	if err := s.store.Delete(ctx, self.UserID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete schedule", err)
	}
	return nil
}

func (s *ScheduleService) SetCell(ctx context.Context, self Member, req *dto.SetCellRequest) (*dto.ScheduleResponse, *errors.AppError) {
	return s.edit(ctx, self, func(g entity.Grid) (entity.Grid, error) {
		return g.SetCell(req.Day, req.Hour, req.Busy)
	})
}

func (s *ScheduleService) PaintRange(ctx context.Context, self Member, req *dto.PaintRequest) (*dto.ScheduleResponse, *errors.AppError) {
	return s.edit(ctx, self, func(g entity.Grid) (entity.Grid, error) {
		return g.PaintRange(req.FromDay, req.FromHour, req.ToDay, req.ToHour, req.Busy)
	})
}

// Clear empties the caller's grid; the request has to confirm it
func (s *ScheduleService) Clear(ctx context.Context, self Member, req *dto.ClearRequest) (*dto.ScheduleResponse, *errors.AppError) {
	if req == nil || !req.Confirm {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Clearing the schedule requires confirm=true", nil)
	}
	return s.save(ctx, self, entity.NewGrid())
}

// Compare puts the caller next to one friend. The ranked recommendation is
// returned together with the older both-free-only result.
func (s *ScheduleService) Compare(ctx context.Context, self Member, friendNickname string, minDuration int) (*dto.CompareResponse, *errors.AppError) {
	nickname, ok := utils.NormalizeNickname(friendNickname)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Friend nickname is required", nil)
	}
	members := []Member{self, MemberFromNickname(nickname)}

	grids, view, appErr := s.compare(ctx, members, minDuration)
	if appErr != nil {
		return nil, appErr
	}

	legacy := LegacyTwoPartyRecommendation(grids[0], grids[1], view.MinDuration)
	return &dto.CompareResponse{
		OverlapView: *view,
		Legacy: &dto.LegacyView{
			FreeSlots: legacy.FreeSlots,
			Best:      legacy.Best,
			Message:   legacy.Message,
		},
	}, nil
}

// CompareMembers loads every member's grid in order and runs the engine.
// Members without a saved grid count as entirely free and are reported in
// Missing.
func (s *ScheduleService) CompareMembers(ctx context.Context, members []Member, minDuration int) (*dto.OverlapView, *errors.AppError) {
	_, view, appErr := s.compare(ctx, members, minDuration)
	return view, appErr
}

// Recommend runs the engine on grids supplied by the client
func (s *ScheduleService) Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.OverlapView, *errors.AppError) {
	grids, err := GridsFromRows(req.Grids)
	if err != nil {
		return nil, engineError(err)
	}

	result, err := s.finder.FindWithMin(grids, req.MinDuration)
	if err != nil {
		return nil, engineError(err)
	}

	view := toView(result, s.minDuration(req.MinDuration))
	return &view, nil
}

func (s *ScheduleService) compare(ctx context.Context, members []Member, minDuration int) ([]entity.Grid, *dto.OverlapView, *errors.AppError) {
	if len(members) == 0 {
		return nil, nil, engineError(entity.ErrEmptyInput)
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	stored, err := s.store.LoadMany(ctx, ids)
	if err != nil {
		return nil, nil, loadError(err)
	}

	grids := make([]entity.Grid, len(members))
	participants := make([]dto.ParticipantView, len(members))
	var missing []string
	for i, m := range members {
		participants[i] = dto.ParticipantView{UserID: m.UserID, Nickname: m.Nickname}
		if sch, ok := stored[m.UserID]; ok && sch != nil {
			grids[i] = sch.Grid
			participants[i].Found = true
			continue
		}
		grids[i] = entity.NewGrid()
		missing = append(missing, m.Nickname)
	}

	result, err := s.finder.FindWithMin(grids, minDuration)
	if err != nil {
		return nil, nil, engineError(err)
	}

	view := toView(result, s.minDuration(minDuration))
	view.Participants = participants
	view.Missing = missing
	return grids, &view, nil
}

func (s *ScheduleService) edit(ctx context.Context, self Member, apply func(entity.Grid) (entity.Grid, error)) (*dto.ScheduleResponse, *errors.AppError) {
	stored, appErr := s.loadOrEmpty(ctx, self)
	if appErr != nil {
		return nil, appErr
	}

	grid, err := apply(stored.Grid)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cell out of range", err)
	}
	return s.save(ctx, self, grid)
}

func (s *ScheduleService) save(ctx context.Context, self Member, grid entity.Grid) (*dto.ScheduleResponse, *errors.AppError) {
	schedule := &entity.StoredSchedule{
		UserID:   self.UserID,
		Nickname: self.Nickname,
		Grid:     grid,
	}
	if err := s.store.Save(ctx, schedule); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to save schedule", err)
	}
	return dto.ToScheduleResponse(schedule), nil
}

func (s *ScheduleService) loadOrEmpty(ctx context.Context, self Member) (*entity.StoredSchedule, *errors.AppError) {
	stored, err := s.store.Load(ctx, self.UserID)
	if err != nil {
		return nil, loadError(err)
	}
	if stored == nil {
		return &entity.StoredSchedule{
			UserID:   self.UserID,
			Nickname: self.Nickname,
			Grid:     entity.NewGrid(),
		}, nil
	}
	return stored, nil
}

func (s *ScheduleService) minDuration(requested int) int {
	if requested <= 0 {
		return s.finder.MinDurationHours
	}
	return requested
}

func toView(result *OverlapResult, minDuration int) dto.OverlapView {
	return dto.ToOverlapView(result.Counts, result.Segments, result.Recommendation, result.Message, minDuration)
}

func loadError(err error) *errors.AppError {
	if stderrors.Is(err, entity.ErrShapeMismatch) {
		return errors.NewAppError(errors.ErrShapeMismatch, "Stored schedule is malformed", err)
	}
	return errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
}

func engineError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, entity.ErrEmptyInput):
		return errors.NewAppError(errors.ErrEmptyInput, "At least one schedule is required", err)
	case stderrors.Is(err, entity.ErrShapeMismatch):
		return errors.NewAppError(errors.ErrShapeMismatch, "Every schedule must be 7 days by 24 hours", err)
	default:
		return errors.NewAppError(errors.ErrInternalServer, "Failed to compute recommendation", err)
	}
}
