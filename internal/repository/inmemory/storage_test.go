package inmemory_test

import (
	"context"
	"testing"

	"volunteerHub/internal/models"
	repo "volunteerHub/internal/repository"
	"volunteerHub/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, s *inmemory.Storage, maxVolunteers int) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:            uuid.New(),
		CreatorID:     uuid.New(),
		Title:         "Помочь соседям",
		TimeNeeded:    models.Time1Hour,
		Urgency:       models.UrgencyMedium,
		MaxVolunteers: maxVolunteers,
	}
	require.NoError(t, s.CreateTask(context.Background(), task))
	return task
}

func offerHelp(t *testing.T, s *inmemory.Storage, taskID, userID uuid.UUID) *models.TaskVolunteer {
	t.Helper()

	v := &models.TaskVolunteer{
		ID:          uuid.New(),
		TaskID:      taskID,
		VolunteerID: userID,
	}
	require.NoError(t, s.Offer(context.Background(), v))
	return v
}

func TestStorage_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 1)
	assert.Equal(t, models.StatusOpen, task.Status)
	assert.Equal(t, 1, task.Version)

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)

	got.Title = "Обновлённый заголовок"
	require.NoError(t, s.UpdateTask(ctx, got))
	assert.Equal(t, 2, got.Version)

	// обновление по устаревшей версии отклоняется
	stale := *got
	stale.Version = 1
	assert.ErrorIs(t, s.UpdateTask(ctx, &stale), repo.ErrVersionConflict)

	_, err = s.GetTaskByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStorage_OfferDuplicate(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 1)
	volunteer := uuid.New()
	offerHelp(t, s, task.ID, volunteer)

	dup := &models.TaskVolunteer{ID: uuid.New(), TaskID: task.ID, VolunteerID: volunteer}
	assert.ErrorIs(t, s.Offer(ctx, dup), repo.ErrDuplicate)

	// после отзыва можно предложить помощь снова
	_, err := s.WithdrawOffer(ctx, task.ID, volunteer)
	require.NoError(t, err)
	assert.NoError(t, s.Offer(ctx, dup))
}

func TestStorage_AcceptVolunteer(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 1)
	first := offerHelp(t, s, task.ID, uuid.New())
	second := offerHelp(t, s, task.ID, uuid.New())

	accepted, updatedTask, err := s.AcceptVolunteer(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VolunteerAccepted, accepted.Status)
	// первый принятый волонтёр переводит задачу в работу
	assert.Equal(t, models.StatusInProgress, updatedTask.Status)
	assert.Equal(t, 1, updatedTask.CurrentVolunteers)

	// мест больше нет
	_, _, err = s.AcceptVolunteer(ctx, second.ID)
	assert.ErrorIs(t, err, repo.ErrCapacityReached)

	// повторное принятие той же строки не проходит
	_, _, err = s.AcceptVolunteer(ctx, first.ID)
	assert.ErrorIs(t, err, repo.ErrVersionConflict)
}

func TestStorage_RejectAcceptedDecrementsCounter(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 2)
	row := offerHelp(t, s, task.ID, uuid.New())

	_, _, err := s.AcceptVolunteer(ctx, row.ID)
	require.NoError(t, err)

	rejected, updatedTask, err := s.RejectVolunteer(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VolunteerRejected, rejected.Status)
	require.NotNil(t, updatedTask)
	assert.Equal(t, 0, updatedTask.CurrentVolunteers)

	// из rejected дороги назад нет
	_, _, err = s.RejectVolunteer(ctx, row.ID)
	assert.ErrorIs(t, err, repo.ErrVersionConflict)
}

func TestStorage_RejectPendingKeepsTaskUntouched(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 1)
	row := offerHelp(t, s, task.ID, uuid.New())

	_, updatedTask, err := s.RejectVolunteer(ctx, row.ID)
	require.NoError(t, err)
	assert.Nil(t, updatedTask, "отклонение pending не трогает задачу")
}

func TestStorage_CompleteTaskCreditsVolunteers(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	task := createTask(t, s, 2)

	volunteerA := uuid.New()
	volunteerB := uuid.New()
	pendingOnly := uuid.New()

	for _, userID := range []uuid.UUID{volunteerA, volunteerB, pendingOnly} {
		require.NoError(t, s.UpsertProfile(ctx, &models.Profile{
			ID:          uuid.New(),
			UserID:      userID,
			DisplayName: "Волонтёр",
		}))
	}

	rowA := offerHelp(t, s, task.ID, volunteerA)
	rowB := offerHelp(t, s, task.ID, volunteerB)
	offerHelp(t, s, task.ID, pendingOnly)

	_, _, err := s.AcceptVolunteer(ctx, rowA.ID)
	require.NoError(t, err)
	_, _, err = s.AcceptVolunteer(ctx, rowB.ID)
	require.NoError(t, err)

	completed, credited, err := s.CompleteTask(ctx, task.ID, 1.0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.ElementsMatch(t, []uuid.UUID{volunteerA, volunteerB}, credited)

	// принятые получили зачёт и значок первой задачи
	for _, userID := range []uuid.UUID{volunteerA, volunteerB} {
		p, err := s.GetProfileByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, p.TasksCompleted)
		assert.InDelta(t, 1.0, p.TotalVolunteerHours, 0.001)
		assert.Contains(t, p.Badges, models.BadgeFirstTask)
	}

	// pending остался без зачёта
	p, err := s.GetProfileByUserID(ctx, pendingOnly)
	require.NoError(t, err)
	assert.Zero(t, p.TasksCompleted)

	// завершённую задачу нельзя завершить повторно
	_, _, err = s.CompleteTask(ctx, task.ID, 1.0)
	assert.ErrorIs(t, err, repo.ErrVersionConflict)
}

func TestStorage_UpsertProfileKeepsStats(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	userID := uuid.New()
	require.NoError(t, s.UpsertProfile(ctx, &models.Profile{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: "Анна",
	}))

	// начисляем статистику через завершение задачи
	task := createTask(t, s, 1)
	row := offerHelp(t, s, task.ID, userID)
	_, _, err := s.AcceptVolunteer(ctx, row.ID)
	require.NoError(t, err)
	_, _, err = s.CompleteTask(ctx, task.ID, 2.0)
	require.NoError(t, err)

	// правка профиля не сбрасывает накопленное
	require.NoError(t, s.UpsertProfile(ctx, &models.Profile{
		UserID:      userID,
		DisplayName: "Анна Петрова",
		Skills:      []string{"cooking"},
	}))

	p, err := s.GetProfileByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Анна Петрова", p.DisplayName)
	assert.Equal(t, 1, p.TasksCompleted)
	assert.InDelta(t, 2.0, p.TotalVolunteerHours, 0.001)
}

func TestStorage_FeedbackUniquePerPair(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	taskID := uuid.New()
	from := uuid.New()
	to := uuid.New()

	require.NoError(t, s.CreateFeedback(ctx, &models.Feedback{
		ID: uuid.New(), TaskID: taskID, FromUser: from, ToUser: to, Rating: 5,
	}))

	err := s.CreateFeedback(ctx, &models.Feedback{
		ID: uuid.New(), TaskID: taskID, FromUser: from, ToUser: to, Rating: 3,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	// обратная оценка по той же задаче допустима
	assert.NoError(t, s.CreateFeedback(ctx, &models.Feedback{
		ID: uuid.New(), TaskID: taskID, FromUser: to, ToUser: from, Rating: 4,
	}))

	got, err := s.ListFeedbackForUser(ctx, to)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStorage_Messages(t *testing.T) {
	ctx := context.Background()
	s := inmemory.NewStorage()

	taskID := uuid.New()
	require.NoError(t, s.AppendMessage(ctx, &models.TaskMessage{
		ID: uuid.New(), TaskID: taskID, SenderID: uuid.New(), Content: "когда удобно?",
	}))
	require.NoError(t, s.AppendMessage(ctx, &models.TaskMessage{
		ID: uuid.New(), TaskID: taskID, SenderID: uuid.New(), Content: "завтра утром",
	}))

	messages, err := s.ListMessagesForTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "когда удобно?", messages[0].Content)
	assert.Equal(t, "завтра утром", messages[1].Content)
}
