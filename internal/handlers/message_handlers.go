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

type MessageHandler struct {
	MessageService MessageService
}

func NewMessageHandler(messageService MessageService) MessageHandler {
	return MessageHandler{MessageService: messageService}
}

func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var request dto.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	message, err := h.MessageService.Append(r.Context(), middleware.GetUserID(r.Context()), taskID, request.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Сообщение отправлено",
		zap.String("task_id", taskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.MessageService.ListForTask(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, messages)
}
