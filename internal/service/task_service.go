package service

import (
	"context"
	"errors"
	"fmt"

	"volunteerHub/internal/cache"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/matching"
	"volunteerHub/internal/models"
	"volunteerHub/internal/realtime"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskDraft - данные новой задачи от клиента (или от функции
// структурирования голосового ввода)
type TaskDraft struct {
	Title         string
	ImprovedTitle *string
	Description   string
	Lat           *float64
	Lng           *float64
	LocationName  string
	TimeNeeded    models.TimeNeeded
	Urgency       models.Urgency
	SkillsNeeded  []string
	MaxVolunteers int
}

// TaskView - задача для выдачи: строка tasks, профиль создателя отдельным
// запросом и расстояние до зрителя, когда у обеих сторон есть координаты
type TaskView struct {
	Task       *models.Task    `json:"task"`
	Creator    *models.Profile `json:"creator,omitempty"`
	DistanceMi *float64        `json:"distance_mi,omitempty"`
}

type TaskService struct {
	tasks    TaskRepository
	profiles ProfileRepository
	cache    *cache.TaskCache
	events   realtime.Publisher
}

func NewTaskService(tasks TaskRepository, profiles ProfileRepository, taskCache *cache.TaskCache, events realtime.Publisher) TaskService {
	return TaskService{
		tasks:    tasks,
		profiles: profiles,
		cache:    taskCache,
		events:   events,
	}
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, draft TaskDraft) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	if draft.Title == "" {
		return nil, NewValidationError("title", "пустое значение")
	}
	if draft.Lat == nil || draft.Lng == nil {
		return nil, NewValidationError("location", "координаты обязательны")
	}
	if !models.ValidUrgency(draft.Urgency) {
		return nil, NewValidationError("urgency", "допустимы low, medium, high")
	}
	if !models.ValidTimeNeeded(draft.TimeNeeded) {
		return nil, NewValidationError("time_needed", "неизвестная длительность")
	}
	if draft.MaxVolunteers < 1 {
		draft.MaxVolunteers = 1
	}

	t := &models.Task{
		ID:            uuid.New(),
		CreatorID:     userID,
		Title:         draft.Title,
		ImprovedTitle: draft.ImprovedTitle,
		Description:   draft.Description,
		Lat:           draft.Lat,
		Lng:           draft.Lng,
		LocationName:  draft.LocationName,
		TimeNeeded:    draft.TimeNeeded,
		Urgency:       draft.Urgency,
		Status:        models.StatusOpen,
		SkillsNeeded:  draft.SkillsNeeded,
		MaxVolunteers: draft.MaxVolunteers,
		Version:       1,
	}
	if t.SkillsNeeded == nil {
		t.SkillsNeeded = []string{}
	}

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.publishTask(ctx, realtime.OpInsert, t.ID)
	return t, nil
}

// List отдаёт активные задачи от новых к старым. Тёплый кеш избавляет от
// похода в базу, гидрация профилей создателей всегда отдельным запросом.
func (s *TaskService) List(ctx context.Context, viewerUserID uuid.UUID) ([]*TaskView, error) {
	var tasks []*models.Task
	var err error

	if s.cache != nil && s.cache.Warm() {
		tasks = s.cache.Snapshot()
	} else {
		tasks, err = s.tasks.GetActiveTasks(ctx)
		if err != nil {
			return nil, fmt.Errorf("получение задач: %w", err)
		}
	}

	creatorIDs := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		if !seen[t.CreatorID] {
			seen[t.CreatorID] = true
			creatorIDs = append(creatorIDs, t.CreatorID)
		}
	}

	creators, err := s.profiles.GetProfilesByUserIDs(ctx, creatorIDs)
	if err != nil {
		return nil, fmt.Errorf("гидрация профилей: %w", err)
	}

	var viewer *models.Profile
	if viewerUserID != uuid.Nil {
		viewer, err = s.profiles.GetProfileByUserID(ctx, viewerUserID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("профиль зрителя: %w", err)
		}
	}

	views := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := &TaskView{
			Task:    t,
			Creator: creators[t.CreatorID],
		}

		if viewer != nil && viewer.Lat != nil && viewer.Lng != nil && t.Lat != nil && t.Lng != nil {
			d := matching.Distance(*viewer.Lat, *viewer.Lng, *t.Lat, *t.Lng)
			view.DistanceMi = &d
		}

		views = append(views, view)
	}

	return views, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// Update - частичное обновление своих полей задачи создателем
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, options ...TaskOption) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	t, err := s.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if t.CreatorID != userID {
		logger.Warn("Service: Попытка изменить чужую задачу",
			zap.String("task_id", taskID.String()),
			zap.String("user_id", userID.String()))
		return nil, NewForbidden("изменять задачу может только её создатель")
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	// принятых волонтёров не может стать больше лимита
	if t.MaxVolunteers < t.CurrentVolunteers {
		return nil, NewValidationError("max_volunteers",
			fmt.Sprintf("меньше числа уже принятых волонтёров (%d)", t.CurrentVolunteers))
	}

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", taskID.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	s.publishTask(ctx, realtime.OpUpdate, t.ID)
	return t, nil
}

func (s *TaskService) Cancel(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return s.transition(ctx, userID, taskID, models.StatusCancelled)
}

func (s *TaskService) transition(ctx context.Context, userID, taskID uuid.UUID, next models.TaskStatus) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	t, err := s.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.CreatorID != userID {
		return nil, NewForbidden("менять статус задачи может только её создатель")
	}
	if !t.Status.CanTransitionTo(next) {
		return nil, NewInvalidTransition(string(t.Status), string(next))
	}

	t.Status = next
	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", taskID.String())
		}
		return nil, fmt.Errorf("смена статуса: %w", err)
	}

	s.publishTask(ctx, realtime.OpUpdate, t.ID)
	return t, nil
}

// Complete завершает задачу и одной транзакцией начисляет статистику всем
// принятым волонтёрам: tasks_completed +1 и часы по time_needed
func (s *TaskService) Complete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	t, err := s.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.CreatorID != userID {
		return nil, NewForbidden("завершать задачу может только её создатель")
	}
	if !t.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, NewInvalidTransition(string(t.Status), string(models.StatusCompleted))
	}

	completed, credited, err := s.tasks.CompleteTask(ctx, taskID, t.TimeNeeded.EstimatedHours())
	if err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return nil, NewVersionConflict("задача", taskID.String())
		}
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}

	logger.Info("Service: Задача завершена",
		zap.String("task_id", taskID.String()),
		zap.Int("credited_volunteers", len(credited)),
		zap.Float64("hours_each", t.TimeNeeded.EstimatedHours()))

	s.publishTask(ctx, realtime.OpUpdate, taskID)
	for _, volunteerID := range credited {
		s.publish(ctx, realtime.TableProfiles, realtime.OpUpdate, volunteerID)
	}

	return completed, nil
}

// BestMatch - лучшая задача для волонтёра по навыкам, близости и срочности
func (s *TaskService) BestMatch(ctx context.Context, userID uuid.UUID) (*TaskView, float64, error) {
	if userID == uuid.Nil {
		return nil, 0, NewUnauthenticated()
	}

	views, err := s.List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	viewer, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, NewNotFound("профиль", userID.String())
		}
		return nil, 0, fmt.Errorf("профиль волонтёра: %w", err)
	}

	candidates := make([]matching.Candidate, 0, len(views))
	byID := make(map[uuid.UUID]*TaskView, len(views))
	for _, v := range views {
		// собственные задачи волонтёру не предлагаются
		if v.Task.CreatorID == userID {
			continue
		}
		candidates = append(candidates, matching.Candidate{
			TaskID:       v.Task.ID,
			SkillsNeeded: v.Task.SkillsNeeded,
			Urgency:      v.Task.Urgency,
			DistanceMi:   v.DistanceMi,
		})
		byID[v.Task.ID] = v
	}

	best, score := matching.BestMatch(viewer.Skills, candidates)
	if best == nil {
		return nil, 0, nil
	}

	return byID[best.TaskID], score, nil
}

func (s *TaskService) publishTask(ctx context.Context, op string, id uuid.UUID) {
	s.publish(ctx, realtime.TableTasks, op, id)
}

// события реального времени не должны ронять мутацию, поэтому ошибка
// публикации только логируется
func (s *TaskService) publish(ctx context.Context, table, op string, id uuid.UUID) {
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
