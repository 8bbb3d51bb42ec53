package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// StatusFromError переводит доменную ошибку в HTTP-статус и заголовок ошибки.
// Функция чистая: одна и та же ошибка всегда даёт один и тот же ответ.
func StatusFromError(err error) (int, string) {
	var insufficientStock *domain.InsufficientStockError
	var invalidValue *domain.InvalidValueError

	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusBadRequest, "Bad Request"
	case errors.As(err, &insufficientStock):
		return http.StatusBadRequest, "Insufficient Stock"
	case errors.As(err, &invalidValue):
		return http.StatusBadRequest, "Bad Request"
	case errors.Is(err, domain.ErrOrderAlreadyCancelled):
		return http.StatusBadRequest, "Bad Request"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusBadRequest, "Bad Request"
	case domain.IsNotFound(err):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Unauthorized"
	case domain.IsVersionConflict(err):
		return http.StatusConflict, "Conflict"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// writeError отправляет единый ErrorResponse. Детали внутренних ошибок
// наружу не уходят: для 500 клиент получает нейтральное сообщение.
func writeError(c *gin.Context, err error) {
	status, title := StatusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "unexpected internal error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     title,
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}
