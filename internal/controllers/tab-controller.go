package controllers

import (
	"net/http"
	"strconv"

	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/middleware"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TabController struct {
	tabService services.TabServiceInterface
	logger     *zap.Logger
}

func NewTabController(tabService services.TabServiceInterface, logger *zap.Logger) *TabController {
	return &TabController{tabService: tabService, logger: logger}
}

func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError("некорректный идентификатор")
	}
	return id, nil
}

func (ctrl *TabController) GetTabs(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	tabs, err := ctrl.tabService.GetTabsForViewer(c.Request().Context(), p)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tabs, "Вкладки получены", http.StatusOK)
}

func (ctrl *TabController) CreateTab(c echo.Context) error {
	var in dto.CreateTabDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	tab, err := ctrl.tabService.CreateTab(c.Request().Context(), in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tab, "Вкладка создана", http.StatusCreated)
}

func (ctrl *TabController) UpdateTab(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.UpdateTabDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	tab, err := ctrl.tabService.UpdateTab(c.Request().Context(), id, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tab, "Вкладка обновлена", http.StatusOK)
}

func (ctrl *TabController) DeleteTab(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.tabService.DeleteTab(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Вкладка удалена", http.StatusOK)
}

func (ctrl *TabController) ReorderTabs(c echo.Context) error {
	var in dto.ReorderTabsDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.tabService.ReorderTabs(c.Request().Context(), in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Порядок вкладок обновлён", http.StatusOK)
}
