package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int(total[0]) / filter.Limit
			if int(total[0])%filter.Limit > 0 {
				totalPages++
			}
		}
		pagination := map[string]interface{}{
			"total_count": total[0],
			"page":        filter.Page,
			"limit":       filter.Limit,
			"total_pages": totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// statusCodes — соответствие доменных ошибок HTTP-кодам.
var statusCodes = map[error]int{
	apperrors.ErrEmptyAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidToken:         http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:     http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:    http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:   http.StatusUnauthorized,
	apperrors.ErrUnauthorized:         http.StatusUnauthorized,
	apperrors.ErrForbidden:            http.StatusForbidden,
	apperrors.ErrNotFound:             http.StatusNotFound,
	apperrors.ErrBadRequest:           http.StatusBadRequest,
	apperrors.ErrRequestClosed:        http.StatusConflict,
	apperrors.ErrInvalidTransition:    http.StatusConflict,
	apperrors.ErrVersionConflict:      http.StatusConflict,
	apperrors.ErrRequestNotTerminal:   http.StatusConflict,
	apperrors.ErrInvalidUserID:           http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": validationErr.Message,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	for sentinel, code := range statusCodes {
		if errors.Is(err, sentinel) {
			return c.JSON(code, map[string]interface{}{
				"status":  false,
				"message": sentinel.Error(),
			})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}

// ParseFilterFromQuery разбирает query-параметры вида filter[...]=, sort[...]= и пагинацию.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Filter: make(map[string]interface{}),
		Sort:   make(map[string]string),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if l := values.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			if n > MaxLimit {
				n = MaxLimit
			}
			filterReq.Limit = n
		}
	}
	if p := values.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			filterReq.Page = n
		}
	}
	filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit

	if values.Get("withPagination") == "false" {
		filterReq.WithPagination = false
	} else {
		filterReq.WithPagination = true
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			if existing, ok := filterReq.Filter[field]; ok {
				filterReq.Filter[field] = fmt.Sprintf("%v,%s", existing, vals[0])
			} else {
				filterReq.Filter[field] = vals[0]
			}
		}
	}

	return filterReq
}
