package service

import (
	"context"
	"errors"
	"fmt"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models"
	"volunteerHub/internal/realtime"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VolunteerView - строка волонтёра с гидрированным профилем
type VolunteerView struct {
	Volunteer *models.TaskVolunteer `json:"volunteer"`
	Profile   *models.Profile       `json:"profile,omitempty"`
}

// VolunteerList - загруженный список волонтёров задачи; счётчики
// считаются фильтрацией этого списка, отдельных запросов нет
type VolunteerList struct {
	Volunteers []*VolunteerView `json:"volunteers"`
}

func (l *VolunteerList) PendingCount() int {
	count := 0
	for _, v := range l.Volunteers {
		if v.Volunteer.Status == models.VolunteerPending {
			count++
		}
	}
	return count
}

func (l *VolunteerList) AcceptedCount() int {
	count := 0
	for _, v := range l.Volunteers {
		if v.Volunteer.Status == models.VolunteerAccepted {
			count++
		}
	}
	return count
}

type VolunteerService struct {
	volunteers VolunteerRepository
	tasks      TaskRepository
	profiles   ProfileRepository
	events     realtime.Publisher
}

func NewVolunteerService(volunteers VolunteerRepository, tasks TaskRepository, profiles ProfileRepository, events realtime.Publisher) VolunteerService {
	return VolunteerService{
		volunteers: volunteers,
		tasks:      tasks,
		profiles:   profiles,
		events:     events,
	}
}

// Offer - предложение помощи: none -> pending. Повторное предложение при
// живой строке отклоняется, после отзыва строка создаётся заново.
func (s *VolunteerService) Offer(ctx context.Context, userID, taskID uuid.UUID, message string) (*models.TaskVolunteer, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	t, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", taskID.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if !t.Status.IsActive() {
		return nil, NewInvalidTransition(string(t.Status), "offer")
	}
	if t.CreatorID == userID {
		return nil, NewForbidden("создатель не может быть волонтёром своей задачи")
	}

	v := &models.TaskVolunteer{
		ID:          uuid.New(),
		TaskID:      taskID,
		VolunteerID: userID,
		Status:      models.VolunteerPending,
		Message:     message,
	}

	if err := s.volunteers.Offer(ctx, v); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, NewAlreadyOffered(taskID.String())
		}
		return nil, fmt.Errorf("создание предложения: %w", err)
	}

	logger.Info("Service: Предложение помощи создано",
		zap.String("task_id", taskID.String()),
		zap.String("volunteer_id", userID.String()))

	s.publish(ctx, realtime.TableVolunteers, realtime.OpInsert, v.ID)
	return v, nil
}

// Accept - pending -> accepted, только для создателя задачи. Счётчик задачи
// и переход open -> in_progress происходят в одной транзакции репозитория.
func (s *VolunteerService) Accept(ctx context.Context, userID, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	if userID == uuid.Nil {
		return nil, nil, NewUnauthenticated()
	}

	v, t, err := s.authorizeCreator(ctx, userID, volunteerRowID)
	if err != nil {
		return nil, nil, err
	}

	if !v.Status.CanTransitionTo(models.VolunteerAccepted) {
		return nil, nil, NewInvalidTransition(string(v.Status), string(models.VolunteerAccepted))
	}

	accepted, updatedTask, err := s.volunteers.AcceptVolunteer(ctx, volunteerRowID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCapacityReached):
			return nil, nil, NewCapacityExceeded(t.ID.String(), t.MaxVolunteers)
		case errors.Is(err, repo.ErrVersionConflict):
			return nil, nil, NewVersionConflict("предложение", volunteerRowID.String())
		case errors.Is(err, repo.ErrNotFound):
			return nil, nil, NewNotFound("предложение", volunteerRowID.String())
		}
		return nil, nil, fmt.Errorf("принятие волонтёра: %w", err)
	}

	logger.Info("Service: Волонтёр принят",
		zap.String("task_id", t.ID.String()),
		zap.String("volunteer_id", accepted.VolunteerID.String()),
		zap.Int("current_volunteers", updatedTask.CurrentVolunteers))

	s.publish(ctx, realtime.TableVolunteers, realtime.OpUpdate, accepted.ID)
	s.publish(ctx, realtime.TableTasks, realtime.OpUpdate, t.ID)
	return accepted, updatedTask, nil
}

// Reject - pending|accepted -> rejected, только для создателя задачи
func (s *VolunteerService) Reject(ctx context.Context, userID, volunteerRowID uuid.UUID) (*models.TaskVolunteer, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	v, _, err := s.authorizeCreator(ctx, userID, volunteerRowID)
	if err != nil {
		return nil, err
	}

	if !v.Status.CanTransitionTo(models.VolunteerRejected) {
		return nil, NewInvalidTransition(string(v.Status), string(models.VolunteerRejected))
	}

	rejected, updatedTask, err := s.volunteers.RejectVolunteer(ctx, volunteerRowID)
	if err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return nil, NewVersionConflict("предложение", volunteerRowID.String())
		}
		return nil, fmt.Errorf("отклонение волонтёра: %w", err)
	}

	s.publish(ctx, realtime.TableVolunteers, realtime.OpUpdate, rejected.ID)
	if updatedTask != nil {
		s.publish(ctx, realtime.TableTasks, realtime.OpUpdate, updatedTask.ID)
	}
	return rejected, nil
}

// Withdraw удаляет собственную строку волонтёра независимо от статуса,
// локальный статус возвращается к none
func (s *VolunteerService) Withdraw(ctx context.Context, userID, taskID uuid.UUID) error {
	if userID == uuid.Nil {
		return NewUnauthenticated()
	}

	row, err := s.volunteers.GetVolunteerByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("предложение", taskID.String())
		}
		return fmt.Errorf("получение предложения: %w", err)
	}

	updatedTask, err := s.volunteers.WithdrawOffer(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("предложение", taskID.String())
		}
		return fmt.Errorf("отзыв предложения: %w", err)
	}

	logger.Info("Service: Предложение отозвано",
		zap.String("task_id", taskID.String()),
		zap.String("volunteer_id", userID.String()))

	s.publish(ctx, realtime.TableVolunteers, realtime.OpDelete, row.ID)
	if updatedTask != nil {
		s.publish(ctx, realtime.TableTasks, realtime.OpUpdate, updatedTask.ID)
	}
	return nil
}

// ListForTask - волонтёры задачи с профилями, виден создателю и самим волонтёрам
func (s *VolunteerService) ListForTask(ctx context.Context, userID, taskID uuid.UUID) (*VolunteerList, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	rows, err := s.volunteers.ListVolunteersForTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение волонтёров: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, v := range rows {
		userIDs = append(userIDs, v.VolunteerID)
	}

	profiles, err := s.profiles.GetProfilesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("гидрация профилей: %w", err)
	}

	list := &VolunteerList{Volunteers: make([]*VolunteerView, 0, len(rows))}
	for _, v := range rows {
		list.Volunteers = append(list.Volunteers, &VolunteerView{
			Volunteer: v,
			Profile:   profiles[v.VolunteerID],
		})
	}

	return list, nil
}

// StatusFor - положение пользователя относительно задачи:
// пустая строка означает none
func (s *VolunteerService) StatusFor(ctx context.Context, userID, taskID uuid.UUID) (models.VolunteerStatus, error) {
	if userID == uuid.Nil {
		return "", NewUnauthenticated()
	}

	v, err := s.volunteers.GetVolunteerByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("получение предложения: %w", err)
	}

	return v.Status, nil
}

// IsParticipant - создатель задачи или обладатель строки волонтёра
func (s *VolunteerService) IsParticipant(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	t, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, NewNotFound("задача", taskID.String())
		}
		return false, fmt.Errorf("получение задачи: %w", err)
	}
	if t.CreatorID == userID {
		return true, nil
	}

	_, err = s.volunteers.GetVolunteerByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("получение предложения: %w", err)
	}
	return true, nil
}

func (s *VolunteerService) authorizeCreator(ctx context.Context, userID, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	v, err := s.volunteers.GetVolunteerByID(ctx, volunteerRowID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, NewNotFound("предложение", volunteerRowID.String())
		}
		return nil, nil, fmt.Errorf("получение предложения: %w", err)
	}

	t, err := s.tasks.GetTaskByID(ctx, v.TaskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, NewNotFound("задача", v.TaskID.String())
		}
		return nil, nil, fmt.Errorf("получение задачи: %w", err)
	}

	if t.CreatorID != userID {
		logger.Warn("Service: Решение по волонтёру не от создателя задачи",
			zap.String("task_id", t.ID.String()),
			zap.String("user_id", userID.String()))
		return nil, nil, NewForbidden("решение по волонтёру принимает создатель задачи")
	}

	return v, t, nil
}

func (s *VolunteerService) publish(ctx context.Context, table, op string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, table, realtime.Event{Op: op, ID: id}); err != nil {
		logger.Warn("Service: Не удалось опубликовать событие",
			zap.Error(err),
			zap.String("table", table),
			zap.String("op", op))
	}
}
