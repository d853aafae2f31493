package middleware

import (
	"context"
	"strings"

	"procurement-system/internal/authz"
	"procurement-system/pkg/contextkeys"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/service"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtService service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, logger: logger}
}

// Handle проверяет Bearer-токен и кладёт Principal в контекст запроса.
// Принимаются только access-токены.
func (m *AuthMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		tabIDs := make(map[uint64]struct{}, len(claims.TabIDs))
		for _, id := range claims.TabIDs {
			tabIDs[id] = struct{}{}
		}

		principal := authz.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
			RoleID: claims.RoleID,
			TabIDs: tabIDs,
			Admin:  claims.IsAdmin,
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.PrincipalKey, principal)
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// PrincipalFromContext достаёт Principal, положенный Handle.
func PrincipalFromContext(ctx context.Context) (authz.Principal, error) {
	p, ok := ctx.Value(contextkeys.PrincipalKey).(authz.Principal)
	if !ok {
		return authz.Principal{}, apperrors.ErrPrincipalNotFoundInContext
	}
	return p, nil
}
