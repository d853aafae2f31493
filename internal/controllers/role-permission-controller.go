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

type RolePermissionController struct {
	rpService services.RolePermissionServiceInterface
	logger    *zap.Logger
}

func NewRolePermissionController(rpService services.RolePermissionServiceInterface, logger *zap.Logger) *RolePermissionController {
	return &RolePermissionController{rpService: rpService, logger: logger}
}

func (ctrl *RolePermissionController) GetRolePermissions(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	perms, total, err := ctrl.rpService.GetRolePermissions(c.Request().Context(), uint64(filter.Limit), uint64(filter.Offset))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, perms, "Права ролей получены", http.StatusOK, total)
}

func (ctrl *RolePermissionController) Upsert(c echo.Context) error {
	var in dto.UpsertRolePermissionDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	rp, err := ctrl.rpService.Upsert(c.Request().Context(), in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, rp, "Право роли сохранено", http.StatusOK)
}

func (ctrl *RolePermissionController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.rpService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Право роли удалено", http.StatusOK)
}
