package routes

import (
	"snab-system/internal/controllers"
	"snab-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.Refresh)
	}
}
