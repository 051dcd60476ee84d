package services

import (
	"context"

	"snab-system/internal/dto"
	"snab-system/internal/repositories"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, data dto.RefreshDTO) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindByLogin(ctx, data.Login)
	if err != nil {
		// Не раскрываем, существует ли логин.
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)); err != nil {
		s.logger.Warn("Неудачная попытка входа", zap.String("login", data.Login))
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, data dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(data.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	// Роль берём из БД, а не из токена: смена роли действует сразу.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
