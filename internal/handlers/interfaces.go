package handlers

import (
	"context"

	"volunteerHub/internal/assist"
	"volunteerHub/internal/models"
	"volunteerHub/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, draft service.TaskDraft) (*models.Task, error)
	List(ctx context.Context, viewerUserID uuid.UUID) ([]*service.TaskView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, options ...service.TaskOption) (*models.Task, error)
	Cancel(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	Complete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	BestMatch(ctx context.Context, userID uuid.UUID) (*service.TaskView, float64, error)
}

type VolunteerService interface {
	Offer(ctx context.Context, userID, taskID uuid.UUID, message string) (*models.TaskVolunteer, error)
	Accept(ctx context.Context, userID, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error)
	Reject(ctx context.Context, userID, volunteerRowID uuid.UUID) (*models.TaskVolunteer, error)
	Withdraw(ctx context.Context, userID, taskID uuid.UUID) error
	ListForTask(ctx context.Context, userID, taskID uuid.UUID) (*service.VolunteerList, error)
	StatusFor(ctx context.Context, userID, taskID uuid.UUID) (models.VolunteerStatus, error)
}

type MessageService interface {
	Append(ctx context.Context, userID, taskID uuid.UUID, content string) (*models.TaskMessage, error)
	ListForTask(ctx context.Context, userID, taskID uuid.UUID) ([]*models.TaskMessage, error)
}

type FeedbackService interface {
	Submit(ctx context.Context, userID, taskID, toUser uuid.UUID, rating int, comment string) (*models.Feedback, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, float64, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, draft service.ProfileDraft) (*models.Profile, error)
}

type AssistClient interface {
	StructureTask(ctx context.Context, transcribedText string) (*assist.TaskDraft, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
