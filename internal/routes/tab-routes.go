package routes

import (
	"procurement-system/internal/authz"
	"procurement-system/internal/controllers"
	"procurement-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Список вкладок доступен любому вошедшему (сервис сам режет его по роли),
// мутации закрыты админским префиксом /tabs.
func registerTabRoutes(g *echo.Group, ctrl *controllers.TabController, evaluator *authz.Evaluator, logger *zap.Logger) {
	tabs := g.Group("/tabs")
	tabs.GET("", ctrl.GetTabs)

	adminOnly := middleware.Permission(evaluator, authz.Tab("/tabs"), logger)
	tabs.POST("", ctrl.CreateTab, adminOnly)
	tabs.PUT("/order", ctrl.ReorderTabs, adminOnly)
	tabs.PUT("/:id", ctrl.UpdateTab, adminOnly)
	tabs.DELETE("/:id", ctrl.DeleteTab, adminOnly)
}

func registerRolePermissionRoutes(g *echo.Group, ctrl *controllers.RolePermissionController, evaluator *authz.Evaluator, logger *zap.Logger) {
	adminOnly := middleware.Permission(evaluator, authz.Tab("/role-permissions"), logger)

	perms := g.Group("/role-permissions", adminOnly)
	perms.GET("", ctrl.GetRolePermissions)
	perms.POST("", ctrl.Upsert)
	perms.DELETE("/:id", ctrl.Delete)
}
