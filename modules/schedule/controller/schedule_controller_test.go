package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

type stubService struct {
	service.ScheduleServiceInterface

	saved     *dto.SaveScheduleRequest
	compareTo string
	minSeen   int
	appErr    *errors.AppError
}

func (s *stubService) SaveSchedule(_ context.Context, self service.Member, req *dto.SaveScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	if s.appErr != nil {
		return nil, s.appErr
	}
	s.saved = req
	grid, _ := entity.FromRows(req.Schedule)
	return &dto.ScheduleResponse{UserID: self.UserID, Nickname: self.Nickname, Schedule: grid}, nil
}

func (s *stubService) Compare(_ context.Context, _ service.Member, friend string, minDuration int) (*dto.CompareResponse, *errors.AppError) {
	s.compareTo = friend
	s.minSeen = minDuration
	return &dto.CompareResponse{OverlapView: dto.OverlapView{Message: "ok"}}, nil
}

func (s *stubService) GetSchedule(_ context.Context, userID int64) (*dto.ScheduleResponse, *errors.AppError) {
	return nil, errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
}

func newContext(method, target, body string, withUser bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if withUser {
		c.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: utils.NicknameToID("alice"), Nickname: "alice"})
	}
	return c, rec
}

func TestSaveMySchedule(t *testing.T) {
	svc := &stubService{}
	ctrl := NewScheduleController(svc)

	body, _ := json.Marshal(dto.SaveScheduleRequest{Schedule: entity.NewGrid().Rows()})
	c, rec := newContext(http.MethodPut, "/api/v1/private/schedules/me", string(body), true)

	if err := ctrl.SaveMySchedule(c); err != nil {
		t.Fatalf("SaveMySchedule: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.saved == nil || len(svc.saved.Schedule) != entity.DaysPerWeek {
		t.Errorf("service got %+v", svc.saved)
	}
}

func TestSaveMyScheduleRequiresUser(t *testing.T) {
	ctrl := NewScheduleController(&stubService{})
	c, _ := newContext(http.MethodPut, "/api/v1/private/schedules/me", `{}`, false)

	err := ctrl.SaveMySchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestSaveMyScheduleShapeMismatch(t *testing.T) {
	svc := &stubService{appErr: errors.NewAppError(errors.ErrShapeMismatch, "Schedule must be 7 days by 24 hours", nil)}
	ctrl := NewScheduleController(svc)
	c, rec := newContext(http.MethodPut, "/api/v1/private/schedules/me", `{"schedule":[[true]]}`, true)

	if err := ctrl.SaveMySchedule(c); err != nil {
		t.Fatalf("SaveMySchedule: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Code   string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Status != "error" || resp.Code != string(errors.ErrShapeMismatch) {
		t.Errorf("body = %+v", resp)
	}
}

func TestCompareQuery(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantMin    int
	}{
		{"default minimum", "/api/v1/private/schedules/compare?with=bob", http.StatusOK, 0},
		{"explicit minimum", "/api/v1/private/schedules/compare?with=bob&min_duration=3", http.StatusOK, 3},
		{"zero minimum", "/api/v1/private/schedules/compare?with=bob&min_duration=0", http.StatusBadRequest, 0},
		{"garbage minimum", "/api/v1/private/schedules/compare?with=bob&min_duration=x", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			ctrl := NewScheduleController(svc)
			c, rec := newContext(http.MethodGet, tt.target, "", true)

			err := ctrl.Compare(c)
			status := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && (svc.compareTo != "bob" || svc.minSeen != tt.wantMin) {
				t.Errorf("service got with=%q min=%d", svc.compareTo, svc.minSeen)
			}
		})
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	ctrl := NewScheduleController(&stubService{})
	c, rec := newContext(http.MethodGet, "/", "", true)
	c.SetParamNames("userId")
	c.SetParamValues("42")

	if err := ctrl.GetSchedule(c); err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	c, _ = newContext(http.MethodGet, "/", "", true)
	c.SetParamNames("userId")
	c.SetParamValues("abc")
	he, ok := ctrl.GetSchedule(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: got %v, want 400", he)
	}
}
