package controllers

import (
	"net/http"

	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var in dto.LoginDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	tokens, err := ctrl.authService.Login(c.Request().Context(), in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tokens, "Вход выполнен", http.StatusOK)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	var in refreshRequest
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	tokens, err := ctrl.authService.Refresh(c.Request().Context(), in.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tokens, "Токены обновлены", http.StatusOK)
}
