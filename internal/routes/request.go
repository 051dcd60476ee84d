package routes

import (
	"snab-system/internal/controllers"
	"snab-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRequestRouter(secureGroup *echo.Group, requestService services.RequestServiceInterface, logger *zap.Logger) {
	requestCtrl := controllers.NewRequestController(requestService, logger)
	{
		secureGroup.GET("/requests", requestCtrl.GetRequests)
		secureGroup.POST("/requests", requestCtrl.CreateRequest)
		secureGroup.GET("/requests/:id", requestCtrl.FindRequest)
		secureGroup.POST("/requests/:id/transition", requestCtrl.Transition)
		secureGroup.GET("/requests/:id/history", requestCtrl.GetHistory)
		secureGroup.GET("/requests/:id/deadline", requestCtrl.GetDeadline)
		secureGroup.PUT("/requests/:id/specification", requestCtrl.UpdateSpecification)
		secureGroup.PUT("/requests/:id/financials", requestCtrl.UpdateFinancials)
		secureGroup.DELETE("/requests/:id", requestCtrl.DeleteRequest)
	}
}
