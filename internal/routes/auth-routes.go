package routes

import (
	"procurement-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func registerAuthRoutes(g *echo.Group, ctrl *controllers.AuthController) {
	auth := g.Group("/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.Refresh)
}
