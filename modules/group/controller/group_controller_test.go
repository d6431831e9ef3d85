package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type stubService struct {
	service.GroupServiceInterface

	respondedTo uuid.UUID
	accepted    bool
	minSeen     int
}

func (s *stubService) RespondInvitation(_ context.Context, groupID uuid.UUID, _ string, accept bool) (*dto.GroupResponse, *errors.AppError) {
	s.respondedTo = groupID
	s.accepted = accept
	return &dto.GroupResponse{ID: groupID}, nil
}

func (s *stubService) GetGroupRecommendation(_ context.Context, groupID uuid.UUID, nickname string, minDuration int) (*dto.GroupRecommendationResponse, *errors.AppError) {
	s.minSeen = minDuration
	if nickname != "mina" {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only members who joined the group can view it", nil)
	}
	return &dto.GroupRecommendationResponse{Group: dto.GroupResponse{ID: groupID}}, nil
}

func newContext(method, target, nickname string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if nickname != "" {
		c.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: utils.NicknameToID(nickname), Nickname: nickname})
	}
	return c, rec
}

func TestDeclineInvitation(t *testing.T) {
	svc := &stubService{accepted: true}
	ctrl := NewGroupController(svc)
	id := uuid.New()

	c, rec := newContext(http.MethodPost, "/", "jun")
	c.SetParamNames("groupId")
	c.SetParamValues(id.String())

	if err := ctrl.DeclineInvitation(c); err != nil {
		t.Fatalf("DeclineInvitation: %v", err)
	}
	if rec.Code != http.StatusOK || svc.respondedTo != id || svc.accepted {
		t.Errorf("status = %d, service got %v accept=%v", rec.Code, svc.respondedTo, svc.accepted)
	}
}

func TestInvalidGroupID(t *testing.T) {
	ctrl := NewGroupController(&stubService{})

	c, _ := newContext(http.MethodPost, "/", "jun")
	c.SetParamNames("groupId")
	c.SetParamValues("not-a-uuid")

	he, ok := ctrl.AcceptInvitation(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", he)
	}
}

func TestGetGroupRecommendation(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		nickname   string
		query      string
		wantStatus int
		wantMin    int
	}{
		{"member default", "mina", "", http.StatusOK, 0},
		{"member explicit", "mina", "?min_duration=5", http.StatusOK, 5},
		{"bad minimum", "mina", "?min_duration=25", http.StatusBadRequest, 0},
		{"not joined", "jun", "", http.StatusForbidden, 0},
		{"anonymous", "", "", http.StatusUnauthorized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			ctrl := NewGroupController(svc)
			c, rec := newContext(http.MethodGet, "/api/v1/private/groups/"+id.String()+"/recommendation"+tt.query, tt.nickname)
			c.SetParamNames("id")
			c.SetParamValues(id.String())

			err := ctrl.GetGroupRecommendation(c)
			status := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				t.Fatalf("GetGroupRecommendation: %v", err)
			}
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if status == http.StatusOK && svc.minSeen != tt.wantMin {
				t.Errorf("min = %d, want %d", svc.minSeen, tt.wantMin)
			}
		})
	}
}
