package handlers

import (
	"errors"
	"net/http"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/service"

	"go.uber.org/zap"
)

// handleServiceError переводит ошибку бизнес-логики в HTTP-ответ,
// всё остальное уходит как 500
func handleServiceError(w http.ResponseWriter, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode, map[string]any{
			"error":   businessErr.Code,
			"message": businessErr.Message,
			"details": businessErr.Details,
		})
		return
	}

	logger.Error("HTTP: Ошибка Service", err)
	responseWithError(w, http.StatusInternalServerError, err.Error())
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeAlreadyOffered, service.CodeCapacityExceeded,
		service.CodeInvalidTransition, service.CodeAlreadyRated,
		service.CodeVersionConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
