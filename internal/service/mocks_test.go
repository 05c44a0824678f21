package service_test

import (
	"context"

	"volunteerHub/internal/models"
	"volunteerHub/internal/realtime"
	"volunteerHub/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) CreateTask(ctx context.Context, t *models.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetActiveTasks(ctx context.Context) ([]*models.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) CompleteTask(ctx context.Context, taskID uuid.UUID, hours float64) (*models.Task, []uuid.UUID, error) {
	args := m.Called(ctx, taskID, hours)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Task), args.Get(1).([]uuid.UUID), args.Error(2)
}

// MockProfileRepository - мок репозитория профилей
type MockProfileRepository struct {
	mock.Mock
}

var _ service.ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) UpsertProfile(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Profile), args.Error(1)
}

// MockVolunteerRepository - мок репозитория волонтёров
type MockVolunteerRepository struct {
	mock.Mock
}

var _ service.VolunteerRepository = (*MockVolunteerRepository)(nil)

func (m *MockVolunteerRepository) Offer(ctx context.Context, v *models.TaskVolunteer) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVolunteerRepository) GetVolunteerByID(ctx context.Context, id uuid.UUID) (*models.TaskVolunteer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskVolunteer), args.Error(1)
}

func (m *MockVolunteerRepository) GetVolunteerByTaskAndUser(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.TaskVolunteer, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskVolunteer), args.Error(1)
}

func (m *MockVolunteerRepository) ListVolunteersForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskVolunteer, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskVolunteer), args.Error(1)
}

func (m *MockVolunteerRepository) AcceptVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	args := m.Called(ctx, volunteerRowID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.TaskVolunteer), args.Get(1).(*models.Task), args.Error(2)
}

func (m *MockVolunteerRepository) RejectVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	args := m.Called(ctx, volunteerRowID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}

	var t *models.Task
	if args.Get(1) != nil {
		t = args.Get(1).(*models.Task)
	}
	return args.Get(0).(*models.TaskVolunteer), t, args.Error(2)
}

func (m *MockVolunteerRepository) WithdrawOffer(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

// MockMessageRepository - мок репозитория сообщений
type MockMessageRepository struct {
	mock.Mock
}

var _ service.MessageRepository = (*MockMessageRepository)(nil)

func (m *MockMessageRepository) AppendMessage(ctx context.Context, msg *models.TaskMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListMessagesForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMessage, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskMessage), args.Error(1)
}

// MockFeedbackRepository - мок репозитория оценок
type MockFeedbackRepository struct {
	mock.Mock
}

var _ service.FeedbackRepository = (*MockFeedbackRepository)(nil)

func (m *MockFeedbackRepository) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

// MockPublisher собирает опубликованные события для проверок
type MockPublisher struct {
	mock.Mock
}

var _ realtime.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, table string, ev realtime.Event) error {
	args := m.Called(ctx, table, ev)
	return args.Error(0)
}
