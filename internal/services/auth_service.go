package services

import (
	"context"
	"errors"

	"github.com/LocalStoryMap/Oz-Backand/internal/auth"
	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
	"github.com/LocalStoryMap/Oz-Backand/internal/models"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
	"github.com/LocalStoryMap/Oz-Backand/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, password, nickname string) (*models.User, string, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, "", apperrors.ValidationError(err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, "", apperrors.ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return user, token, nil
}
