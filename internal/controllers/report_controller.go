package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"snab-system/internal/dto"
	"snab-system/internal/services"
	"snab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (ctrl *ReportController) GetReport(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	format := strings.ToLower(c.QueryParam("format"))
	if format == "xlsx" {
		// Выгружаем все для экспорта
		filter.Offset = 0
		filter.Limit = 100000
	}

	data, total, err := ctrl.reportService.GetReport(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if format == "xlsx" {
		return ctrl.respondWithXLSX(c, data)
	}
	return utils.SuccessResponse(c, data, "Отчет успешно сформирован", http.StatusOK, total)
}

var reportHeaders = []string{
	"№", "Наименование", "Тип", "Маршрут", "Статус", "Объект", "Заявитель",
	"Позиций", "Оценочная стоимость", "Срок этапа", "SLA", "Дата создания",
}

func rowToSlice(item dto.ReportItemDTO) []interface{} {
	dateFmt := "02.01.2006 15:04"
	var cost, deadline string
	if item.EstimatedCost != nil {
		cost = fmt.Sprintf("%.2f", *item.EstimatedCost)
	}
	if item.Deadline != nil {
		deadline = item.Deadline.Format(dateFmt)
	}

	return []interface{}{
		item.ID, item.Name, item.Type, item.Chain, item.Status, item.SiteName,
		item.Creator, item.Positions, cost, deadline, item.SlaStatus,
		item.CreatedAt.Format(dateFmt),
	}
}

func (ctrl *ReportController) respondWithXLSX(c echo.Context, data []dto.ReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Реестр заявок"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "L1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "G", 20)
	f.SetColWidth(sheet, "I", "L", 22)

	fileName := fmt.Sprintf("report_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
