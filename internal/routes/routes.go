package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"snab-system/internal/listeners"
	"snab-system/internal/repositories"
	"snab-system/internal/services"
	"snab-system/pkg/eventbus"
	"snab-system/pkg/middleware"
	"snab-system/pkg/service"
)

// InitRouter собирает зависимости и регистрирует маршруты API.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, bus *eventbus.Bus, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// Репозитории
	userRepo := repositories.NewUserRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	historyRepo := repositories.NewHistoryRepository(dbConn)

	// Сервисы
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	requestService := services.NewRequestService(txManager, requestRepo, historyRepo, bus, logger)
	reportService := services.NewReportService(requestRepo, userRepo, logger)

	// Слушатели доменных событий
	listeners.NewNotificationListener(services.NewLogNotifier(logger)).Register(bus)
	listeners.NewStockListener(services.NewLogWarehouseStockService(logger), logger).Register(bus)
	listeners.NewPurchaseListener(services.NewLogPurchaseOrderService(logger)).Register(bus)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, logger)
	runRequestRouter(secureGroup, requestService, logger)
	runReportRouter(secureGroup, reportService, logger)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
