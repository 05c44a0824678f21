package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models"
	repo "volunteerHub/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `id,
					creator_id,
					title,
					improved_title,
					description,
					lat,
					lng,
					location_name,
					time_needed,
					urgency,
					status,
					skills_needed,
					max_volunteers,
					current_volunteers,
					created_at,
					updated_at,
					completed_at,
					version`

func scanTask(row pgx.Row) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID,
		&t.CreatorID,
		&t.Title,
		&t.ImprovedTitle,
		&t.Description,
		&t.Lat,
		&t.Lng,
		&t.LocationName,
		&t.TimeNeeded,
		&t.Urgency,
		&t.Status,
		&t.SkillsNeeded,
		&t.MaxVolunteers,
		&t.CurrentVolunteers,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CompletedAt,
		&t.Version,
	)
	return t, err
}

func (s *Storage) CreateTask(ctx context.Context, t *models.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, creator_id, title, improved_title, description, lat, lng, location_name,
				 time_needed, urgency, status, skills_needed, max_volunteers, current_volunteers, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		t.ID,
		t.CreatorID,
		t.Title,
		t.ImprovedTitle,
		t.Description,
		t.Lat,
		t.Lng,
		t.LocationName,
		t.TimeNeeded,
		t.Urgency,
		models.StatusOpen,
		t.SkillsNeeded,
		t.MaxVolunteers,
	).Scan(&t.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, t *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				improved_title = $2,
				description = $3,
				lat = $4,
				lng = $5,
				location_name = $6,
				time_needed = $7,
				urgency = $8,
				status = $9,
				skills_needed = $10,
				max_volunteers = $11,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $12 AND version = $13
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		t.Title,
		t.ImprovedTitle,
		t.Description,
		t.Lat,
		t.Lng,
		t.LocationName,
		t.TimeNeeded,
		t.Urgency,
		t.Status,
		t.SkillsNeeded,
		t.MaxVolunteers,
		t.ID,
		t.Version,
	).Scan(&t.UpdatedAt, &t.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении задачи",
				zap.String("task_id", t.ID.String()),
				zap.Int("expected_version", t.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// активные задачи (open и in_progress) от новых к старым
func (s *Storage) GetActiveTasks(ctx context.Context) ([]*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE status = $1 OR status = $2
				ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, models.StatusOpen, models.StatusInProgress)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*models.Task{}

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*150 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

// CompleteTask закрывает задачу и начисляет статистику принятым волонтёрам
// одной транзакцией: либо задача завершена и все профили обновлены, либо ничего.
func (s *Storage) CompleteTask(ctx context.Context, taskID uuid.UUID, hours float64) (*models.Task, []uuid.UUID, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	completeQuery := `UPDATE tasks
			SET status = $1,
				completed_at = NOW(),
				updated_at = NOW(),
				version = version + 1
			WHERE id = $2 AND (status = $3 OR status = $4)
			RETURNING ` + taskColumns

	t, err := scanTask(tx.QueryRow(ctx, completeQuery,
		models.StatusCompleted, taskID, models.StatusOpen, models.StatusInProgress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Задача не активна, завершение невозможно",
				zap.String("task_id", taskID.String()))
			return nil, nil, repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось завершить задачу", err)
		return nil, nil, fmt.Errorf("завершение задачи: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT volunteer_id FROM task_volunteers WHERE task_id = $1 AND status = $2`,
		taskID, models.VolunteerAccepted)
	if err != nil {
		logger.Error("Repository: Не удалось получить волонтёров задачи", err)
		return nil, nil, fmt.Errorf("получение волонтёров: %w", err)
	}

	volunteers := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("сканирование волонтёра: %w", err)
		}
		volunteers = append(volunteers, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	for _, volunteerID := range volunteers {
		var tasksCompleted int
		var totalHours float64
		var badges []string

		err := tx.QueryRow(ctx,
			`UPDATE profiles
				SET tasks_completed = tasks_completed + 1,
					total_volunteer_hours = total_volunteer_hours + $1,
					updated_at = NOW()
				WHERE user_id = $2
				RETURNING tasks_completed, total_volunteer_hours, badges`,
			hours, volunteerID).Scan(&tasksCompleted, &totalHours, &badges)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// волонтёр без профиля: статистику начислять некуда
				logger.Warn("Repository: Профиль волонтёра не найден",
					zap.String("volunteer_id", volunteerID.String()))
				continue
			}
			logger.Error("Repository: Не удалось обновить статистику профиля", err)
			return nil, nil, fmt.Errorf("обновление статистики: %w", err)
		}

		newBadges := models.BadgesFor(badges, tasksCompleted, totalHours)
		if len(newBadges) != len(badges) {
			_, err = tx.Exec(ctx,
				`UPDATE profiles SET badges = $1 WHERE user_id = $2`,
				newBadges, volunteerID)
			if err != nil {
				logger.Error("Repository: Не удалось обновить значки", err)
				return nil, nil, fmt.Errorf("обновление значков: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить завершение задачи", err)
		return nil, nil, fmt.Errorf("коммит транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*200 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return t, volunteers, nil
}
