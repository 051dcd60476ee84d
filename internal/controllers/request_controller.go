package controllers

import (
	"net/http"
	"strconv"

	"snab-system/internal/dto"
	"snab-system/internal/services"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestController(requestService services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: requestService, logger: logger}
}

func (ctrl *RequestController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный идентификатор заявки", err, nil)
	}
	return id, nil
}

func (ctrl *RequestController) CreateRequest(c echo.Context) error {
	var payload dto.CreateRequestDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("CreateRequest: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных заявки", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	request, err := ctrl.requestService.CreateRequest(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, request, "Заявка создана", http.StatusCreated)
}

func (ctrl *RequestController) GetRequests(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	requests, total, err := ctrl.requestService.GetRequests(c.Request().Context(), filter)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, requests, "Список заявок получен", http.StatusOK, total)
}

func (ctrl *RequestController) FindRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	request, err := ctrl.requestService.FindRequest(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, request, "Заявка получена", http.StatusOK)
}

// Transition - единственная точка смены статуса заявки по HTTP.
func (ctrl *RequestController) Transition(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.TransitionDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Transition: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных перехода", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	request, err := ctrl.requestService.ApplyTransition(c.Request().Context(), id, payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, request, "Статус заявки изменён", http.StatusOK)
}

func (ctrl *RequestController) GetHistory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	entries, err := ctrl.requestService.GetHistory(c.Request().Context(), id, uint64(filter.Limit), uint64(filter.Offset))
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, entries, "История заявки получена", http.StatusOK)
}

func (ctrl *RequestController) GetDeadline(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	deadline, err := ctrl.requestService.GetDeadline(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, deadline, "Срок рассмотрения получен", http.StatusOK)
}

func (ctrl *RequestController) UpdateSpecification(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdateSpecificationDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("UpdateSpecification: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных спецификации", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.requestService.UpdateSpecification(c.Request().Context(), id, payload); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Спецификация обновлена", http.StatusOK)
}

func (ctrl *RequestController) UpdateFinancials(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdateFinancialsDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("UpdateFinancials: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат финансовых данных", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.requestService.UpdateFinancials(c.Request().Context(), id, payload); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Финансовые данные обновлены", http.StatusOK)
}

func (ctrl *RequestController) DeleteRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	if err := ctrl.requestService.DeleteRequest(c.Request().Context(), id, force); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Заявка удалена", http.StatusOK)
}
