package routes

import (
	"procurement-system/internal/authz"
	"procurement-system/internal/controllers"
	"procurement-system/internal/repositories"
	"procurement-system/internal/services"
	"procurement-system/pkg/config"
	"procurement-system/pkg/middleware"
	"procurement-system/pkg/service"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Loggers — отдельные логгеры по подсистемам, чтобы в выводе было видно,
// откуда пришла запись.
type Loggers struct {
	Auth   *zap.Logger
	Authz  *zap.Logger
	Tabs   *zap.Logger
	Orders *zap.Logger
	Report *zap.Logger
	Cache  *zap.Logger
}

// Init собирает весь граф зависимостей и вешает маршруты на echo.
func Init(e *echo.Echo, pool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, lg Loggers) {
	txManager := repositories.NewTxManager(pool)

	tabRepo := repositories.NewTabRepository(pool)
	rpRepo := repositories.NewRolePermissionRepository(pool)
	userRepo := repositories.NewUserRepository(pool, lg.Auth)
	clientRepo := repositories.NewClientRepository(pool)
	orderRepo := repositories.NewClientOrderRepository(pool)
	itemRepo := repositories.NewOrderItemRepository(pool)
	offerRepo := repositories.NewOfferRepository(pool)
	routeRepo := repositories.NewLogisticsRouteRepository(pool)
	eventRepo := repositories.NewOrderEventRepository(pool)
	fxRepo := repositories.NewFxRateRepository(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	evaluator := authz.NewEvaluator(tabRepo, lg.Authz)

	auditService := services.NewAuditService(eventRepo, lg.Orders)
	fxService := services.NewFxRateService(fxRepo, cacheRepo, cfg.FX.CacheTTL, lg.Cache)
	orderService := services.NewClientOrderService(
		orderRepo, itemRepo, offerRepo, routeRepo, txManager, auditService, fxService, lg.Orders)
	tabService := services.NewTabService(tabRepo, txManager, lg.Tabs)
	rpService := services.NewRolePermissionService(rpRepo, txManager, lg.Tabs)
	authService := services.NewAuthService(userRepo, rpRepo, jwtService, lg.Auth)
	clientService := services.NewClientService(clientRepo, lg.Orders)
	reportService := services.NewReportService(orderRepo, itemRepo, offerRepo, lg.Report)

	authCtrl := controllers.NewAuthController(authService, lg.Auth)
	tabCtrl := controllers.NewTabController(tabService, lg.Tabs)
	rpCtrl := controllers.NewRolePermissionController(rpService, lg.Tabs)
	orderCtrl := controllers.NewClientOrderController(orderService, auditService, evaluator, lg.Orders)
	clientCtrl := controllers.NewClientController(clientService, lg.Orders)
	reportCtrl := controllers.NewReportController(reportService, lg.Report)
	fxCtrl := controllers.NewFxRateController(fxService, lg.Cache)

	authMW := middleware.NewAuthMiddleware(jwtService, lg.Auth)

	api := e.Group("/api")

	registerAuthRoutes(api, authCtrl)

	secured := api.Group("", authMW.Handle)
	registerTabRoutes(secured, tabCtrl, evaluator, lg.Authz)
	registerRolePermissionRoutes(secured, rpCtrl, evaluator, lg.Authz)
	registerClientOrderRoutes(secured, orderCtrl, evaluator, lg.Authz)
	registerClientRoutes(secured, clientCtrl, evaluator, lg.Authz)
	registerReportRoutes(secured, reportCtrl, evaluator, lg.Authz)
	registerFxRateRoutes(secured, fxCtrl)
}
