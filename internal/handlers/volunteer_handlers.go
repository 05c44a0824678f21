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

type VolunteerHandler struct {
	VolunteerService VolunteerService
}

func NewVolunteerHandler(volunteerService VolunteerService) VolunteerHandler {
	return VolunteerHandler{VolunteerService: volunteerService}
}

// PostOffer регистрирует отклик волонтёра на задачу
func (h *VolunteerHandler) PostOffer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var request dto.OfferRequest
	if r.Body != nil {
		// тело с сообщением необязательно
		json.NewDecoder(r.Body).Decode(&request)
	}

	userID := middleware.GetUserID(r.Context())

	volunteer, err := h.VolunteerService.Offer(r.Context(), userID, taskID, request.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Отклик зарегистрирован",
		zap.String("task_id", taskID.String()),
		zap.String("volunteer_id", userID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, volunteer)
}

func (h *VolunteerHandler) AcceptVolunteer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	rowID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	volunteer, task, err := h.VolunteerService.Accept(r.Context(), middleware.GetUserID(r.Context()), rowID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Волонтёр принят",
		zap.String("volunteer_row_id", rowID.String()),
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, map[string]any{
		"volunteer": volunteer,
		"task":      task,
	})
}

func (h *VolunteerHandler) RejectVolunteer(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	rowID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	volunteer, err := h.VolunteerService.Reject(r.Context(), middleware.GetUserID(r.Context()), rowID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, volunteer)
}

// WithdrawOffer снимает собственный отклик с задачи
func (h *VolunteerHandler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.VolunteerService.Withdraw(r.Context(), middleware.GetUserID(r.Context()), taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *VolunteerHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	list, err := h.VolunteerService.ListForTask(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Волонтёры получены",
		zap.String("task_id", taskID.String()),
		zap.Int("count", len(list.Volunteers)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.VolunteerListResponse{
		Volunteers:    list.Volunteers,
		PendingCount:  list.PendingCount(),
		AcceptedCount: list.AcceptedCount(),
	})
}

func (h *VolunteerHandler) GetOfferStatus(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	status, err := h.VolunteerService.StatusFor(r.Context(), middleware.GetUserID(r.Context()), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]any{"status": status})
}
