package controllers

import (
	"net/http"

	"snab-system/internal/dto"
	"snab-system/internal/services"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных для входа", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	tokens, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, tokens, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	var payload dto.RefreshDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Refresh: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	tokens, err := ctrl.authService.Refresh(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, tokens, "Токены обновлены", http.StatusOK)
}
