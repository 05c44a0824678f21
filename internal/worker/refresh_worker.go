package worker

import (
	"context"
	"errors"
	"time"

	"volunteerHub/internal/cache"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/models"
	"volunteerHub/internal/realtime"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskReader interface {
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetActiveTasks(ctx context.Context) ([]*models.Task, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, table string, handler func(realtime.Event))
}

// RefreshWorker держит кеш задач свежим: точечно латает его по событиям
// изменений и периодически делает полную сверку с репозиторием на случай
// пропущенных событий.
type RefreshWorker struct {
	reader       TaskReader
	subscriber   Subscriber
	cache        *cache.TaskCache
	syncInterval time.Duration
}

func NewRefreshWorker(reader TaskReader, subscriber Subscriber, taskCache *cache.TaskCache, syncInterval *time.Duration) *RefreshWorker {
	interval := 5 * time.Minute
	if syncInterval != nil {
		interval = *syncInterval
	}

	return &RefreshWorker{
		reader:       reader,
		subscriber:   subscriber,
		cache:        taskCache,
		syncInterval: interval,
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	// первичное наполнение, без него кеш считается холодным
	w.Resync(ctx)

	go w.subscriber.Subscribe(ctx, realtime.TableTasks, func(ev realtime.Event) {
		w.apply(ctx, ev)
	})

	ticker := time.NewTicker(w.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Плановая сверка кеша задач", zap.Time("started_at", time.Now()))
			w.Resync(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Обновление кеша останавливается")
			return
		}
	}
}

func (w *RefreshWorker) apply(ctx context.Context, ev realtime.Event) {
	if ev.Op == realtime.OpDelete {
		w.cache.Evict(ev.ID)
		return
	}

	t, err := w.reader.GetTaskByID(ctx, ev.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			w.cache.Evict(ev.ID)
			return
		}
		logger.Warn("Worker: Не удалось перечитать задачу по событию",
			zap.Error(err),
			zap.String("task_id", ev.ID.String()))
		return
	}

	w.cache.Patch(t)
}

func (w *RefreshWorker) Resync(ctx context.Context) {
	start := time.Now()

	tasks, err := w.reader.GetActiveTasks(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка полной сверки кеша", zap.Error(err))
		return
	}

	w.cache.Replace(tasks)

	logger.Info("Worker: Сверка кеша завершена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("tasks", len(tasks)))
}
