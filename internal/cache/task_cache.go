package cache

import (
	"sort"
	"sync"

	"volunteerHub/internal/models"

	"github.com/google/uuid"
)

// TaskCache - нормализованный кеш активных задач по id. Вместо полного
// перечитывания списка на каждое событие кеш латается точечно: insert/update
// кладут свежую строку, delete и потеря активности выселяют её.
type TaskCache struct {
	mtx   sync.RWMutex
	tasks map[uuid.UUID]*models.Task
	warm  bool
}

func NewTaskCache() *TaskCache {
	return &TaskCache{
		tasks: make(map[uuid.UUID]*models.Task),
	}
}

// Warm сообщает, был ли кеш хоть раз наполнен полным списком
func (c *TaskCache) Warm() bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.warm
}

// Replace - полная синхронизация с источником
func (c *TaskCache) Replace(tasks []*models.Task) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.tasks = make(map[uuid.UUID]*models.Task, len(tasks))
	for _, t := range tasks {
		if t.Status.IsActive() {
			copied := *t
			c.tasks[t.ID] = &copied
		}
	}
	c.warm = true
}

// Patch кладёт свежую версию строки; задача, переставшая быть активной,
// выселяется из кеша
func (c *TaskCache) Patch(t *models.Task) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !t.Status.IsActive() {
		delete(c.tasks, t.ID)
		return
	}

	copied := *t
	c.tasks[t.ID] = &copied
}

func (c *TaskCache) Evict(id uuid.UUID) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	delete(c.tasks, id)
}

// Snapshot возвращает активные задачи от новых к старым, как их
// отдаёт репозиторий
func (c *TaskCache) Snapshot() []*models.Task {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	res := make([]*models.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		copied := *t
		res = append(res, &copied)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID.String() < res[j].ID.String()
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res
}

func (c *TaskCache) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.tasks)
}
