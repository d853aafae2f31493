package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FxRateController struct {
	fxService services.FxRateServiceInterface
	logger    *zap.Logger
}

func NewFxRateController(fxService services.FxRateServiceInterface, logger *zap.Logger) *FxRateController {
	return &FxRateController{fxService: fxService, logger: logger}
}

// GetRate: refresh=true принудительно обходит кэш и перечитывает курс из БД.
func (ctrl *FxRateController) GetRate(c echo.Context) error {
	from := strings.ToUpper(c.QueryParam("from"))
	to := strings.ToUpper(c.QueryParam("to"))
	if len(from) != 3 || len(to) != 3 {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("нужны валюты from и to (ISO 4217)"), ctrl.logger)
	}
	refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))

	rate, err := ctrl.fxService.GetRate(c.Request().Context(), from, to, refresh)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	body := map[string]interface{}{"from": from, "to": to, "rate": rate}
	return utils.SuccessResponse(c, body, "Курс получен", http.StatusOK)
}
