package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/middleware"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// OffersReport отдаёт XLSX по офферам заказа. format пока один, параметр
// оставлен для совместимости с фронтом.
func (ctrl *ReportController) OffersReport(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if format := c.QueryParam("format"); format != "" && format != "xlsx" {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("неподдерживаемый формат отчёта"), ctrl.logger)
	}

	orderID, err := strconv.ParseUint(c.QueryParam("order_id"), 10, 64)
	if err != nil || orderID == 0 {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("не указан order_id"), ctrl.logger)
	}

	file, filename, err := ctrl.reportService.BuildOffersReport(c.Request().Context(), p, orderID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := file.Write(c.Response().Writer); err != nil {
		ctrl.logger.Error("ошибка записи отчёта в ответ", zap.Error(err))
		return err
	}
	return nil
}
