package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"volunteerHub/internal/assist"
	"volunteerHub/internal/handlers/dto"
	"volunteerHub/internal/logger"

	"go.uber.org/zap"
)

type AssistHandler struct {
	Client AssistClient
}

func NewAssistHandler(client AssistClient) AssistHandler {
	return AssistHandler{Client: client}
}

// StructureTask превращает надиктованный текст в черновик задачи
func (h *AssistHandler) StructureTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.StructureRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if strings.TrimSpace(request.TranscribedText) == "" {
		responseWithError(w, http.StatusBadRequest, "transcribedText не может быть пустым")
		return
	}

	draft, err := h.Client.StructureTask(r.Context(), request.TranscribedText)
	if err != nil {
		switch {
		case errors.Is(err, assist.ErrRateLimited):
			responseWithError(w, http.StatusTooManyRequests, "слишком много запросов, попробуйте позже")
		case errors.Is(err, assist.ErrQuotaExhausted):
			responseWithError(w, http.StatusPaymentRequired, "квота ассистента исчерпана")
		default:
			logger.Error("HTTP: Ошибка Assist", err)
			responseWithError(w, http.StatusBadGateway, "ассистент недоступен")
		}
		return
	}

	logger.Info("HTTP_OUT: Черновик задачи получен",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, draft)
}
