package service

import (
	"context"

	"volunteerHub/internal/models"

	"github.com/google/uuid"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, t *models.Task) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetActiveTasks(ctx context.Context) ([]*models.Task, error)
	CompleteTask(ctx context.Context, taskID uuid.UUID, hours float64) (*models.Task, []uuid.UUID, error)
}

type ProfileRepository interface {
	UpsertProfile(ctx context.Context, p *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
}

type VolunteerRepository interface {
	Offer(ctx context.Context, v *models.TaskVolunteer) error
	GetVolunteerByID(ctx context.Context, id uuid.UUID) (*models.TaskVolunteer, error)
	GetVolunteerByTaskAndUser(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.TaskVolunteer, error)
	ListVolunteersForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskVolunteer, error)
	AcceptVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error)
	RejectVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error)
	WithdrawOffer(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.Task, error)
}

type MessageRepository interface {
	AppendMessage(ctx context.Context, m *models.TaskMessage) error
	ListMessagesForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMessage, error)
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, error)
}
