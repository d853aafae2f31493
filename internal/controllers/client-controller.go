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

type ClientController struct {
	clientService services.ClientServiceInterface
	logger        *zap.Logger
}

func NewClientController(clientService services.ClientServiceInterface, logger *zap.Logger) *ClientController {
	return &ClientController{clientService: clientService, logger: logger}
}

func (ctrl *ClientController) FindClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	client, err := ctrl.clientService.FindClient(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, client, "Клиент получен", http.StatusOK)
}

// UpdateClient требует актуальную версию карточки; при расхождении вернётся
// 409 с текущим состоянием в теле.
func (ctrl *ClientController) UpdateClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.UpdateClientDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	client, err := ctrl.clientService.UpdateClient(c.Request().Context(), id, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, client, "Клиент обновлён", http.StatusOK)
}
