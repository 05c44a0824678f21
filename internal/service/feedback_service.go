package service

import (
	"context"
	"errors"
	"fmt"

	"volunteerHub/internal/models"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
)

type FeedbackService struct {
	feedback   FeedbackRepository
	tasks      TaskRepository
	volunteers *VolunteerService
}

func NewFeedbackService(feedback FeedbackRepository, tasks TaskRepository, volunteers *VolunteerService) FeedbackService {
	return FeedbackService{
		feedback:   feedback,
		tasks:      tasks,
		volunteers: volunteers,
	}
}

// Submit - оценка одним участником другого по завершённой задаче,
// не больше одной на пару (from, to)
func (s *FeedbackService) Submit(ctx context.Context, userID, taskID, toUser uuid.UUID, rating int, comment string) (*models.Feedback, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}
	if !models.ValidRating(rating) {
		return nil, NewValidationError("rating", "оценка от 1 до 5")
	}
	if toUser == userID {
		return nil, NewValidationError("to_user", "нельзя оценивать самого себя")
	}

	t, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if t.Status != models.StatusCompleted {
		return nil, NewInvalidTransition(string(t.Status), "feedback")
	}

	fromOk, err := s.volunteers.IsParticipant(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	toOk, err := s.volunteers.IsParticipant(ctx, toUser, taskID)
	if err != nil {
		return nil, err
	}
	if !fromOk || !toOk {
		return nil, NewForbidden("оценки доступны только участникам задачи")
	}

	f := &models.Feedback{
		ID:       uuid.New(),
		TaskID:   taskID,
		FromUser: userID,
		ToUser:   toUser,
		Rating:   rating,
		Comment:  comment,
	}

	if err := s.feedback.CreateFeedback(ctx, f); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, NewAlreadyRated(taskID.String())
		}
		return nil, fmt.Errorf("сохранение оценки: %w", err)
	}

	return f, nil
}

// ListForUser - полученные пользователем оценки и средний балл
func (s *FeedbackService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, float64, error) {
	feedback, err := s.feedback.ListFeedbackForUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("получение оценок: %w", err)
	}

	if len(feedback) == 0 {
		return feedback, 0, nil
	}

	sum := 0
	for _, f := range feedback {
		sum += f.Rating
	}

	return feedback, float64(sum) / float64(len(feedback)), nil
}
