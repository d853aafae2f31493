package services

import (
	"context"

	"procurement-system/internal/dto"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/service"
	"procurement-system/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, in dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	rpRepo     repositories.RolePermissionRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	rpRepo repositories.RolePermissionRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		rpRepo:     rpRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// snapshotTabIDs собирает id вкладок, доступных роли, для клейма токена.
// Пользователь без роли получает пустой снимок.
func (s *AuthService) snapshotTabIDs(ctx context.Context, roleID *uint64) ([]uint64, error) {
	if roleID == nil {
		return nil, nil
	}
	perms, err := s.rpRepo.GetByRoleID(ctx, *roleID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(perms))
	for _, rp := range perms {
		if rp.CanView {
			ids = append(ids, rp.TabID)
		}
	}
	return ids, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint64) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tabIDs, err := s.snapshotTabIDs(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.jwtService.GenerateTokens(service.JwtCustomClaim{
		UserID:  user.ID,
		Role:    utils.SafeDeref(user.RoleName),
		RoleID:  user.RoleID,
		IsAdmin: user.IsAdmin,
		TabIDs:  tabIDs,
	})
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

// Login проверяет пару логин/пароль. Неверный логин и неверный пароль
// неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, in dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByLogin(ctx, in.Login)
	if err != nil {
		s.logger.Warn("неудачная попытка входа", zap.String("login", in.Login))
		return nil, apperrors.ErrUnauthorized
	}
	if err := utils.ComparePasswords(user.PasswordHash, in.Password); err != nil {
		s.logger.Warn("неудачная попытка входа", zap.String("login", in.Login))
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh переиздаёт пару токенов. Снимок прав пересобирается заново: если
// права роли поменяли после входа, новый access-токен это отразит.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	return s.issueTokens(ctx, claims.UserID)
}
