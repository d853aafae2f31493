package controllers

import (
	"net/http"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/middleware"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ClientOrderController struct {
	orderService services.ClientOrderServiceInterface
	auditService services.AuditServiceInterface
	evaluator    *authz.Evaluator
	logger       *zap.Logger
}

func NewClientOrderController(
	orderService services.ClientOrderServiceInterface,
	auditService services.AuditServiceInterface,
	evaluator *authz.Evaluator,
	logger *zap.Logger,
) *ClientOrderController {
	return &ClientOrderController{
		orderService: orderService,
		auditService: auditService,
		evaluator:    evaluator,
		logger:       logger,
	}
}

func (ctrl *ClientOrderController) GetClientOrders(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	orders, total, err := ctrl.orderService.GetClientOrders(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, orders, "Заказы получены", http.StatusOK, total)
}

func (ctrl *ClientOrderController) FindClientOrder(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	order, err := ctrl.orderService.FindClientOrder(c.Request().Context(), p, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, order, "Заказ получен", http.StatusOK)
}

func (ctrl *ClientOrderController) CreateOrder(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.CreateClientOrderDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	order, err := ctrl.orderService.CreateOrder(c.Request().Context(), p, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, order, "Заказ создан", http.StatusCreated)
}

func (ctrl *ClientOrderController) UpdateOrder(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.UpdateClientOrderDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}

	order, err := ctrl.orderService.UpdateOrder(c.Request().Context(), p, id, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, order, "Заказ обновлён", http.StatusOK)
}

func (ctrl *ClientOrderController) DeleteOrder(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.orderService.DeleteOrder(c.Request().Context(), p, id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Заказ удалён", http.StatusOK)
}

func (ctrl *ClientOrderController) CreateItem(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.CreateOrderItemDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.orderService.CreateItem(c.Request().Context(), p, orderID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "Строка заказа создана", http.StatusCreated)
}

func (ctrl *ClientOrderController) UpdateItem(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.UpdateOrderItemDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}

	item, err := ctrl.orderService.UpdateItem(c.Request().Context(), p, itemID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "Строка заказа обновлена", http.StatusOK)
}

func (ctrl *ClientOrderController) DeleteItem(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.orderService.DeleteItem(c.Request().Context(), p, itemID); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Строка заказа удалена", http.StatusOK)
}

// Decide — выбор оффера по строке. Чужой оффер трактуется как несуществующий.
func (ctrl *ClientOrderController) Decide(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.DecisionDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}
	if err := c.Validate(&in); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.orderService.Decide(c.Request().Context(), p, itemID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "Оффер выбран", http.StatusOK)
}

func (ctrl *ClientOrderController) GetOffersByItem(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	offers, err := ctrl.orderService.GetOffersByItem(c.Request().Context(), p, itemID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, offers, "Офферы получены", http.StatusOK)
}

func (ctrl *ClientOrderController) CreateOffer(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.CreateOfferDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}

	offer, err := ctrl.orderService.CreateOffer(c.Request().Context(), p, itemID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, offer, "Оффер создан", http.StatusCreated)
}

func (ctrl *ClientOrderController) UpdateOffer(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	offerID, err := parseIDParam(c, "offerId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var in dto.UpdateOfferDTO
	if err := c.Bind(&in); err != nil {
		return utils.ErrorResponse(c, apperrors.ErrBadRequest, ctrl.logger)
	}

	offer, err := ctrl.orderService.UpdateOffer(c.Request().Context(), p, offerID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, offer, "Оффер обновлён", http.StatusOK)
}

func (ctrl *ClientOrderController) DeleteOffer(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	offerID, err := parseIDParam(c, "offerId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.orderService.DeleteOffer(c.Request().Context(), p, offerID); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Оффер удалён", http.StatusOK)
}

// GetOrderEvents отдаёт журнал заказа. Доступ проверяется по имени сущности
// через резолвер: журнал исторически запрашивают под разными типами сущностей,
// неизвестный тип доступен только администратору.
func (ctrl *ClientOrderController) GetOrderEvents(c echo.Context) error {
	p, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	entityName := c.QueryParam("entity")
	if entityName == "" {
		entityName = "client_orders"
	}
	if err := ctrl.evaluator.AuthorizeEntity(c.Request().Context(), p, entityName); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	events, total, err := ctrl.auditService.GetOrderEvents(c.Request().Context(), orderID, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, events, "Журнал заказа получен", http.StatusOK, total)
}
