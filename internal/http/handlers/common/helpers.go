package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garantbot/miniapp-backend/internal/dto"
	"github.com/garantbot/miniapp-backend/internal/http/middleware"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
)

// RespondData отправляет успешный ответ с данными.
func RespondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    data,
	})
}

// RespondMessage отправляет успешный ответ с сообщением.
func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: message,
	})
}

// RespondBadRequest отправляет 400 с сообщением об ошибке.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	c.JSON(http.StatusBadRequest, dto.APIResponse{
		Success: false,
		Message: message,
	})
}

// RespondAppError транслирует ошибку бизнес-логики в HTTP ответ.
// Внутренние ошибки маскируются и логируются, клиент видит только понятные
// сообщения.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.WithRequestID(c.GetString(middleware.RequestIDKey)).
				WithError(err).
				WithField("path", c.Request.URL.Path).
				Error("handler: внутренняя ошибка")
		}
		c.JSON(appErr.HTTPStatus, dto.APIResponse{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	logger.WithRequestID(c.GetString(middleware.RequestIDKey)).
		WithError(err).
		WithField("path", c.Request.URL.Path).
		Error("handler: необработанная ошибка")
	c.JSON(http.StatusInternalServerError, dto.APIResponse{
		Success: false,
		Message: "внутренняя ошибка сервера",
	})
}
