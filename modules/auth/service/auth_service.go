package service

import (
	"context"
	"strings"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/repository"
)

const searchLimit = 20

type AuthService struct {
	repo   repository.UserRepositoryInterface
	tokens *utils.TokenManager
}

type AuthServiceInterface interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Me(ctx context.Context, claims *utils.TokenClaims) (*dto.UserResponse, *errors.AppError)
	SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, *errors.AppError)
}

func NewAuthService(repo repository.UserRepositoryInterface, tokens *utils.TokenManager) AuthServiceInterface {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

// Login issues a session for any usable nickname. Nothing is verified: the
// nickname is the identity.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	nickname, ok := utils.NormalizeNickname(req.Nickname)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Nickname is required (max 32 characters)", nil)
	}

	token, expiresAt, err := s.tokens.GenerateToken(nickname)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create session", err)
	}

	user := &entity.User{ID: utils.NicknameToID(nickname), Nickname: nickname}
	// The users table only feeds search; a failed write does not block login.
	if recorded, err := s.repo.RecordLogin(ctx, user.ID, nickname); err != nil {
		logger.Warn("AuthService:Login:RecordLogin", "nickname", nickname, "error", err)
	} else {
		user = recorded
	}

	logger.Info("AuthService:Login", "user_id", user.ID)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, claims *utils.TokenClaims) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get user", err)
	}
	if user == nil || user.Nickname != claims.Nickname {
		user = &entity.User{ID: claims.UserID, Nickname: claims.Nickname}
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// SearchUsers finds nicknames to compare schedules with.
func (s *AuthService) SearchUsers(ctx context.Context, query string) ([]dto.UserResponse, *errors.AppError) {
	users, err := s.repo.Search(ctx, strings.TrimSpace(query), searchLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to search users", err)
	}
	return dto.ToUserResponses(users), nil
}
