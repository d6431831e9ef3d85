package dto

import (
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/entity"
)

type LoginRequest struct {
	Nickname string `json:"nickname"`
}

type UserResponse struct {
	ID          int64      `json:"id"`
	Nickname    string     `json:"nickname"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func ToUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{ID: u.ID, Nickname: u.Nickname}
	if !u.LastLoginAt.IsZero() {
		lastLogin := u.LastLoginAt
		resp.LastLoginAt = &lastLogin
	}
	return resp
}

func ToUserResponses(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
