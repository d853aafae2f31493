package main

import (
	"procurement-system/internal/routes"
	"procurement-system/pkg/config"
	"procurement-system/pkg/database/postgresql"
	"procurement-system/pkg/logger"
	"procurement-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()

	baseLogger := logger.NewLogger()
	defer baseLogger.Sync()

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Validator = utils.NewValidator(validator.New())

	loggers := routes.Loggers{
		Auth:   baseLogger.Named("auth"),
		Authz:  baseLogger.Named("authz"),
		Tabs:   baseLogger.Named("tabs"),
		Orders: baseLogger.Named("orders"),
		Report: baseLogger.Named("report"),
		Cache:  baseLogger.Named("cache"),
	}

	routes.Init(e, pool, redisClient, cfg, loggers)

	baseLogger.Info("сервер запускается", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		baseLogger.Fatal("сервер остановлен", zap.Error(err))
	}
}
