package middleware

import (
	"procurement-system/internal/authz"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Permission закрывает группу маршрутов проверкой права на раздел.
// Решение принимает Evaluator: админ проходит всегда, остальные — по праву
// роли на вкладку.
func Permission(evaluator *authz.Evaluator, key authz.ResourceKey, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := PrincipalFromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if err := evaluator.Authorize(c.Request().Context(), p, key); err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			return next(c)
		}
	}
}
