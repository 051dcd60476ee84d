package routes

import (
	"snab-system/internal/controllers"
	"snab-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReportRouter(secureGroup *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger) {
	reportCtrl := controllers.NewReportController(reportService, logger)
	{
		secureGroup.GET("/report", reportCtrl.GetReport)
	}
}
