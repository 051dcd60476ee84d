package main

import (
	"context"
	"net/http"

	"snab-system/internal/repositories"
	"snab-system/internal/routes"
	"snab-system/internal/services"
	"snab-system/pkg/config"
	"snab-system/pkg/database/postgresql"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/eventbus"
	applogger "snab-system/pkg/logger"
	"snab-system/pkg/service"
	"snab-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Обнаружена паника в обработчике",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	e.Validator = utils.NewValidator(validator.New())

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	dbConn := postgresql.ConnectDB()
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("Не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	bus := eventbus.New(logger)

	routes.InitRouter(e, dbConn, redisClient, jwtSvc, bus, logger)

	// Фоновый обход просроченных заявок.
	slaCtx, cancelSla := context.WithCancel(context.Background())
	defer cancelSla()
	slaService := services.NewSlaService(
		repositories.NewRequestRepository(dbConn),
		repositories.NewRedisCacheRepository(redisClient),
		bus,
		logger,
		cfg.SLA.SweepInterval,
		cfg.SLA.NotifiedTTL,
	)
	go slaService.Run(slaCtx)

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
