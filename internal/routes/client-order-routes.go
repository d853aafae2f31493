package routes

import (
	"procurement-system/internal/authz"
	"procurement-system/internal/controllers"
	"procurement-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerClientOrderRoutes(g *echo.Group, ctrl *controllers.ClientOrderController, evaluator *authz.Evaluator, logger *zap.Logger) {
	canView := middleware.Permission(evaluator, authz.AnyOf("client_orders", "/client-orders"), logger)

	// Журнал авторизуется в контроллере через резолвер сущностей, поэтому
	// висит вне группы с проверкой вкладки.
	g.GET("/client-orders/:id/events", ctrl.GetOrderEvents)

	orders := g.Group("/client-orders", canView)
	orders.GET("", ctrl.GetClientOrders)
	orders.POST("", ctrl.CreateOrder)
	orders.GET("/:id", ctrl.FindClientOrder)
	orders.PUT("/:id", ctrl.UpdateOrder)
	orders.DELETE("/:id", ctrl.DeleteOrder)

	orders.POST("/:id/items", ctrl.CreateItem)
	orders.PUT("/items/:itemId", ctrl.UpdateItem)
	orders.DELETE("/items/:itemId", ctrl.DeleteItem)
	orders.POST("/items/:itemId/decision", ctrl.Decide)

	orders.GET("/items/:itemId/offers", ctrl.GetOffersByItem)
	orders.POST("/items/:itemId/offers", ctrl.CreateOffer)
	orders.PUT("/offers/:offerId", ctrl.UpdateOffer)
	orders.DELETE("/offers/:offerId", ctrl.DeleteOffer)
}

func registerClientRoutes(g *echo.Group, ctrl *controllers.ClientController, evaluator *authz.Evaluator, logger *zap.Logger) {
	canView := middleware.Permission(evaluator, authz.AnyOf("clients", "/clients"), logger)

	clients := g.Group("/clients", canView)
	clients.GET("/:id", ctrl.FindClient)
	clients.PUT("/:id", ctrl.UpdateClient)
}

func registerReportRoutes(g *echo.Group, ctrl *controllers.ReportController, evaluator *authz.Evaluator, logger *zap.Logger) {
	canView := middleware.Permission(evaluator, authz.AnyOf("client_orders", "/client-orders"), logger)

	reports := g.Group("/reports", canView)
	reports.GET("/offers", ctrl.OffersReport)
}

func registerFxRateRoutes(g *echo.Group, ctrl *controllers.FxRateController) {
	g.GET("/fx-rates", ctrl.GetRate)
}
