package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"volunteerHub/internal/models"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
)

// Storage - хранилище в памяти, повторяет семантику postgres-репозитория.
// Используется в тестах и для локального запуска без базы.
type Storage struct {
	mtx        sync.RWMutex
	tasks      map[uuid.UUID]*models.Task
	profiles   map[uuid.UUID]*models.Profile // ключ - user_id
	volunteers map[uuid.UUID]*models.TaskVolunteer
	messages   map[uuid.UUID][]*models.TaskMessage // ключ - task_id
	feedback   map[uuid.UUID]*models.Feedback
}

func NewStorage() *Storage {
	return &Storage{
		tasks:      make(map[uuid.UUID]*models.Task),
		profiles:   make(map[uuid.UUID]*models.Profile),
		volunteers: make(map[uuid.UUID]*models.TaskVolunteer),
		messages:   make(map[uuid.UUID][]*models.TaskMessage),
		feedback:   make(map[uuid.UUID]*models.Feedback),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}

// --- задачи ---

func (s *Storage) CreateTask(ctx context.Context, t *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t.CreatedAt = time.Now()
	t.Status = models.StatusOpen
	t.CurrentVolunteers = 0
	if t.Version == 0 {
		t.Version = 1
	}

	copied := *t
	s.tasks[t.ID] = &copied
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, t *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != t.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	t.UpdatedAt = &now
	t.Version++

	copied := *t
	s.tasks[t.ID] = &copied
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *Storage) GetActiveTasks(ctx context.Context) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, t := range s.tasks {
		if t.Status.IsActive() {
			copied := *t
			res = append(res, &copied)
		}
	}

	// от новых к старым, как в postgres-репозитории
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res, nil
}

func (s *Storage) CompleteTask(ctx context.Context, taskID uuid.UUID, hours float64) (*models.Task, []uuid.UUID, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}
	if !t.Status.IsActive() {
		return nil, nil, repo.ErrVersionConflict
	}

	now := time.Now()
	t.Status = models.StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = &now
	t.Version++

	credited := []uuid.UUID{}
	for _, v := range s.volunteers {
		if v.TaskID != taskID || v.Status != models.VolunteerAccepted {
			continue
		}
		credited = append(credited, v.VolunteerID)

		p, ok := s.profiles[v.VolunteerID]
		if !ok {
			continue
		}
		p.TasksCompleted++
		p.TotalVolunteerHours += hours
		p.Badges = models.BadgesFor(p.Badges, p.TasksCompleted, p.TotalVolunteerHours)
		p.UpdatedAt = &now
	}

	copied := *t
	return &copied, credited, nil
}

// --- профили ---

func (s *Storage) UpsertProfile(ctx context.Context, p *models.Profile) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now()
	existing, ok := s.profiles[p.UserID]
	if ok {
		existing.DisplayName = p.DisplayName
		existing.AvatarURL = p.AvatarURL
		existing.Lat = p.Lat
		existing.Lng = p.Lng
		existing.LocationName = p.LocationName
		existing.Skills = p.Skills
		existing.Availability = p.Availability
		existing.UpdatedAt = &now

		*p = *existing
		return nil
	}

	p.CreatedAt = now
	copied := *p
	s.profiles[p.UserID] = &copied
	return nil
}

func (s *Storage) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *Storage) GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make(map[uuid.UUID]*models.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			copied := *p
			res[id] = &copied
		}
	}
	return res, nil
}

// --- волонтёры ---

func (s *Storage) Offer(ctx context.Context, v *models.TaskVolunteer) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.volunteers {
		if existing.TaskID == v.TaskID && existing.VolunteerID == v.VolunteerID {
			return repo.ErrDuplicate
		}
	}

	v.Status = models.VolunteerPending
	v.CreatedAt = time.Now()

	copied := *v
	s.volunteers[v.ID] = &copied
	return nil
}

func (s *Storage) GetVolunteerByID(ctx context.Context, id uuid.UUID) (*models.TaskVolunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	v, ok := s.volunteers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (s *Storage) GetVolunteerByTaskAndUser(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.TaskVolunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, v := range s.volunteers {
		if v.TaskID == taskID && v.VolunteerID == volunteerID {
			copied := *v
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Storage) ListVolunteersForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskVolunteer, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.TaskVolunteer{}
	for _, v := range s.volunteers {
		if v.TaskID == taskID {
			copied := *v
			res = append(res, &copied)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})

	return res, nil
}

func (s *Storage) AcceptVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	v, ok := s.volunteers[volunteerRowID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}
	if v.Status != models.VolunteerPending {
		return nil, nil, repo.ErrVersionConflict
	}

	t, ok := s.tasks[v.TaskID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}
	if t.CurrentVolunteers >= t.MaxVolunteers {
		return nil, nil, repo.ErrCapacityReached
	}

	now := time.Now()
	v.Status = models.VolunteerAccepted
	t.CurrentVolunteers++
	if t.Status == models.StatusOpen {
		t.Status = models.StatusInProgress
	}
	t.UpdatedAt = &now
	t.Version++

	copiedV := *v
	copiedT := *t
	return &copiedV, &copiedT, nil
}

func (s *Storage) RejectVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	v, ok := s.volunteers[volunteerRowID]
	if !ok {
		return nil, nil, repo.ErrNotFound
	}
	if !v.Status.CanTransitionTo(models.VolunteerRejected) {
		return nil, nil, repo.ErrVersionConflict
	}

	wasAccepted := v.Status == models.VolunteerAccepted
	v.Status = models.VolunteerRejected

	var copiedT *models.Task
	if wasAccepted {
		if t, ok := s.tasks[v.TaskID]; ok {
			now := time.Now()
			t.CurrentVolunteers--
			t.UpdatedAt = &now
			t.Version++
			c := *t
			copiedT = &c
		}
	}

	copiedV := *v
	return &copiedV, copiedT, nil
}

func (s *Storage) WithdrawOffer(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var found *models.TaskVolunteer
	for _, v := range s.volunteers {
		if v.TaskID == taskID && v.VolunteerID == volunteerID {
			found = v
			break
		}
	}
	if found == nil {
		return nil, repo.ErrNotFound
	}

	delete(s.volunteers, found.ID)

	var copiedT *models.Task
	if found.Status == models.VolunteerAccepted {
		if t, ok := s.tasks[taskID]; ok {
			now := time.Now()
			t.CurrentVolunteers--
			t.UpdatedAt = &now
			t.Version++
			c := *t
			copiedT = &c
		}
	}

	return copiedT, nil
}

// --- сообщения ---

func (s *Storage) AppendMessage(ctx context.Context, m *models.TaskMessage) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	m.CreatedAt = time.Now()
	copied := *m
	s.messages[m.TaskID] = append(s.messages[m.TaskID], &copied)
	return nil
}

func (s *Storage) ListMessagesForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMessage, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*models.TaskMessage, 0, len(s.messages[taskID]))
	for _, m := range s.messages[taskID] {
		copied := *m
		res = append(res, &copied)
	}
	return res, nil
}

// --- оценки ---

func (s *Storage) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.feedback {
		if existing.TaskID == f.TaskID && existing.FromUser == f.FromUser && existing.ToUser == f.ToUser {
			return repo.ErrDuplicate
		}
	}

	f.CreatedAt = time.Now()
	copied := *f
	s.feedback[f.ID] = &copied
	return nil
}

func (s *Storage) ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Feedback{}
	for _, f := range s.feedback {
		if f.ToUser == userID {
			copied := *f
			res = append(res, &copied)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res, nil
}
