package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"volunteerHub/internal/handlers/dto"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/middleware"

	"go.uber.org/zap"
)

type ProfileHandler struct {
	ProfileService ProfileService
}

func NewProfileHandler(profileService ProfileService) ProfileHandler {
	return ProfileHandler{ProfileService: profileService}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.ProfileService.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, profile)
}

// GetMyProfile отдаёт профиль владельца токена
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	profile, err := h.ProfileService.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) PutMyProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())

	profile, err := h.ProfileService.Upsert(r.Context(), userID, request.ToDraft())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Профиль сохранён",
		zap.String("user_id", userID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, profile)
}
