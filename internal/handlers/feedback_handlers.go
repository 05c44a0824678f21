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

type FeedbackHandler struct {
	FeedbackService FeedbackService
}

func NewFeedbackHandler(feedbackService FeedbackService) FeedbackHandler {
	return FeedbackHandler{FeedbackService: feedbackService}
}

func (h *FeedbackHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var request dto.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	feedback, err := h.FeedbackService.Submit(r.Context(),
		middleware.GetUserID(r.Context()), taskID, request.ToUser, request.Rating, request.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Оценка сохранена",
		zap.String("task_id", taskID.String()),
		zap.Int("rating", request.Rating),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, feedback)
}

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	feedback, average, err := h.FeedbackService.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FeedbackListResponse{
		Feedback:      feedback,
		AverageRating: average,
	})
}
