package service_test

import (
	"context"
	"testing"

	"volunteerHub/internal/models"
	repo "volunteerHub/internal/repository"
	"volunteerHub/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestVolunteerService_Offer тестирует предложение помощи
func TestVolunteerService_Offer(t *testing.T) {
	creator := uuid.New()
	volunteer := uuid.New()

	tests := []struct {
		name         string
		userID       uuid.UUID
		setupMock    func(*MockVolunteerRepository, *MockTaskRepository, *models.Task)
		expectedCode string
	}{
		{
			name:   "success - first offer",
			userID: volunteer,
			setupMock: func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {
				mt.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
				mv.On("Offer", mock.Anything, mock.MatchedBy(func(v *models.TaskVolunteer) bool {
					return v.Status == models.VolunteerPending && v.VolunteerID == volunteer
				})).Return(nil)
			},
		},
		{
			name:   "error - repeated offer",
			userID: volunteer,
			setupMock: func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {
				mt.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
				mv.On("Offer", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)
			},
			expectedCode: service.CodeAlreadyOffered,
		},
		{
			name:   "error - creator offers on own task",
			userID: creator,
			setupMock: func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {
				mt.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
			},
			expectedCode: service.CodeForbidden,
		},
		{
			name:   "error - task is completed",
			userID: volunteer,
			setupMock: func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {
				task.Status = models.StatusCompleted
				mt.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
			},
			expectedCode: service.CodeInvalidTransition,
		},
		{
			name:   "error - task does not exist",
			userID: volunteer,
			setupMock: func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {
				mt.On("GetTaskByID", mock.Anything, task.ID).Return(nil, repo.ErrNotFound)
			},
			expectedCode: service.CodeNotFound,
		},
		{
			name:         "error - anonymous",
			userID:       uuid.Nil,
			setupMock:    func(mv *MockVolunteerRepository, mt *MockTaskRepository, task *models.Task) {},
			expectedCode: service.CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newOpenTask(creator)
			mockVolunteers := new(MockVolunteerRepository)
			mockTasks := new(MockTaskRepository)
			tt.setupMock(mockVolunteers, mockTasks, task)

			svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
			row, err := svc.Offer(context.Background(), tt.userID, task.ID, "могу помочь")

			if tt.expectedCode != "" {
				var businessErr *service.BusinessError
				require.ErrorAs(t, err, &businessErr)
				assert.Equal(t, tt.expectedCode, businessErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.VolunteerPending, row.Status)
				assert.Equal(t, "могу помочь", row.Message)
			}

			mockVolunteers.AssertExpectations(t)
			mockTasks.AssertExpectations(t)
		})
	}
}

// TestVolunteerService_Accept тестирует принятие волонтёра создателем
func TestVolunteerService_Accept(t *testing.T) {
	creator := uuid.New()
	volunteer := uuid.New()

	newPendingRow := func(task *models.Task) *models.TaskVolunteer {
		return &models.TaskVolunteer{
			ID:          uuid.New(),
			TaskID:      task.ID,
			VolunteerID: volunteer,
			Status:      models.VolunteerPending,
		}
	}

	t.Run("success - first accept flips task to in_progress", func(t *testing.T) {
		task := newOpenTask(creator)
		row := newPendingRow(task)

		accepted := *row
		accepted.Status = models.VolunteerAccepted
		updatedTask := *task
		updatedTask.Status = models.StatusInProgress
		updatedTask.CurrentVolunteers = 1

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
		mockVolunteers.On("AcceptVolunteer", mock.Anything, row.ID).Return(&accepted, &updatedTask, nil)

		events := new(MockPublisher)
		events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), events)
		gotRow, gotTask, err := svc.Accept(context.Background(), creator, row.ID)

		require.NoError(t, err)
		assert.Equal(t, models.VolunteerAccepted, gotRow.Status)
		assert.Equal(t, models.StatusInProgress, gotTask.Status)
		assert.Equal(t, 1, gotTask.CurrentVolunteers)
		events.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("error - capacity reached", func(t *testing.T) {
		task := newOpenTask(creator)
		task.MaxVolunteers = 1
		task.CurrentVolunteers = 1
		row := newPendingRow(task)

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
		mockVolunteers.On("AcceptVolunteer", mock.Anything, row.ID).
			Return(nil, nil, repo.ErrCapacityReached)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
		_, _, err := svc.Accept(context.Background(), creator, row.ID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeCapacityExceeded, businessErr.Code)
	})

	t.Run("error - stranger decides", func(t *testing.T) {
		task := newOpenTask(creator)
		row := newPendingRow(task)

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
		_, _, err := svc.Accept(context.Background(), volunteer, row.ID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeForbidden, businessErr.Code)
		mockVolunteers.AssertNotCalled(t, "AcceptVolunteer", mock.Anything, mock.Anything)
	})

	t.Run("error - already rejected row", func(t *testing.T) {
		task := newOpenTask(creator)
		row := newPendingRow(task)
		row.Status = models.VolunteerRejected

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
		_, _, err := svc.Accept(context.Background(), creator, row.ID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeInvalidTransition, businessErr.Code)
	})
}

// TestVolunteerService_Reject - отклонение, в том числе уже принятого волонтёра
func TestVolunteerService_Reject(t *testing.T) {
	creator := uuid.New()

	t.Run("accepted volunteer can be rejected", func(t *testing.T) {
		task := newOpenTask(creator)
		task.Status = models.StatusInProgress
		task.CurrentVolunteers = 1

		row := &models.TaskVolunteer{
			ID:          uuid.New(),
			TaskID:      task.ID,
			VolunteerID: uuid.New(),
			Status:      models.VolunteerAccepted,
		}

		rejected := *row
		rejected.Status = models.VolunteerRejected
		updatedTask := *task
		updatedTask.CurrentVolunteers = 0

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)
		mockVolunteers.On("RejectVolunteer", mock.Anything, row.ID).Return(&rejected, &updatedTask, nil)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
		got, err := svc.Reject(context.Background(), creator, row.ID)

		require.NoError(t, err)
		assert.Equal(t, models.VolunteerRejected, got.Status)
	})

	t.Run("rejected row stays rejected", func(t *testing.T) {
		task := newOpenTask(creator)
		row := &models.TaskVolunteer{
			ID:     uuid.New(),
			TaskID: task.ID,
			Status: models.VolunteerRejected,
		}

		mockVolunteers := new(MockVolunteerRepository)
		mockTasks := new(MockTaskRepository)
		mockVolunteers.On("GetVolunteerByID", mock.Anything, row.ID).Return(row, nil)
		mockTasks.On("GetTaskByID", mock.Anything, task.ID).Return(task, nil)

		svc := service.NewVolunteerService(mockVolunteers, mockTasks, new(MockProfileRepository), nil)
		_, err := svc.Reject(context.Background(), creator, row.ID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeInvalidTransition, businessErr.Code)
		mockVolunteers.AssertNotCalled(t, "RejectVolunteer", mock.Anything, mock.Anything)
	})
}

// TestVolunteerService_Withdraw - отзыв собственного предложения
func TestVolunteerService_Withdraw(t *testing.T) {
	volunteer := uuid.New()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		row := &models.TaskVolunteer{
			ID:          uuid.New(),
			TaskID:      taskID,
			VolunteerID: volunteer,
			Status:      models.VolunteerPending,
		}

		mockVolunteers := new(MockVolunteerRepository)
		mockVolunteers.On("GetVolunteerByTaskAndUser", mock.Anything, taskID, volunteer).Return(row, nil)
		mockVolunteers.On("WithdrawOffer", mock.Anything, taskID, volunteer).Return(nil, nil)

		svc := service.NewVolunteerService(mockVolunteers, new(MockTaskRepository), new(MockProfileRepository), nil)
		err := svc.Withdraw(context.Background(), volunteer, taskID)

		require.NoError(t, err)
		mockVolunteers.AssertExpectations(t)
	})

	t.Run("nothing to withdraw", func(t *testing.T) {
		mockVolunteers := new(MockVolunteerRepository)
		mockVolunteers.On("GetVolunteerByTaskAndUser", mock.Anything, taskID, volunteer).
			Return(nil, repo.ErrNotFound)

		svc := service.NewVolunteerService(mockVolunteers, new(MockTaskRepository), new(MockProfileRepository), nil)
		err := svc.Withdraw(context.Background(), volunteer, taskID)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeNotFound, businessErr.Code)
	})
}

// TestVolunteerList_Counts - счётчики считаются по загруженному списку
func TestVolunteerList_Counts(t *testing.T) {
	list := &service.VolunteerList{
		Volunteers: []*service.VolunteerView{
			{Volunteer: &models.TaskVolunteer{Status: models.VolunteerPending}},
			{Volunteer: &models.TaskVolunteer{Status: models.VolunteerPending}},
			{Volunteer: &models.TaskVolunteer{Status: models.VolunteerAccepted}},
			{Volunteer: &models.TaskVolunteer{Status: models.VolunteerRejected}},
		},
	}

	assert.Equal(t, 2, list.PendingCount())
	assert.Equal(t, 1, list.AcceptedCount())
}

// TestVolunteerService_StatusFor - отсутствие строки означает none
func TestVolunteerService_StatusFor(t *testing.T) {
	volunteer := uuid.New()
	taskID := uuid.New()

	mockVolunteers := new(MockVolunteerRepository)
	mockVolunteers.On("GetVolunteerByTaskAndUser", mock.Anything, taskID, volunteer).
		Return(nil, repo.ErrNotFound)

	svc := service.NewVolunteerService(mockVolunteers, new(MockTaskRepository), new(MockProfileRepository), nil)
	status, err := svc.StatusFor(context.Background(), volunteer, taskID)

	require.NoError(t, err)
	assert.Empty(t, status)
}
