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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const volunteerColumns = `id, task_id, volunteer_id, status, message, created_at`

func scanVolunteer(row pgx.Row) (*models.TaskVolunteer, error) {
	v := &models.TaskVolunteer{}
	err := row.Scan(&v.ID, &v.TaskID, &v.VolunteerID, &v.Status, &v.Message, &v.CreatedAt)
	return v, err
}

// Offer создаёт pending-предложение, уникальность по (task_id, volunteer_id)
// гарантирует база
func (s *Storage) Offer(ctx context.Context, v *models.TaskVolunteer) error {
	start := time.Now()

	query := `INSERT INTO task_volunteers (id, task_id, volunteer_id, status, message, created_at)
				VALUES ($1, $2, $3, $4, $5, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		v.ID, v.TaskID, v.VolunteerID, models.VolunteerPending, v.Message,
	).Scan(&v.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Repository: Повторное предложение помощи",
				zap.String("task_id", v.TaskID.String()),
				zap.String("volunteer_id", v.VolunteerID.String()))
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось создать предложение", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание предложения: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetVolunteerByID(ctx context.Context, id uuid.UUID) (*models.TaskVolunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM task_volunteers WHERE id = $1`

	v, err := scanVolunteer(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить предложение", err)
		return nil, fmt.Errorf("получение предложения: %w", err)
	}
	return v, nil
}

func (s *Storage) GetVolunteerByTaskAndUser(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.TaskVolunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM task_volunteers
				WHERE task_id = $1 AND volunteer_id = $2`

	v, err := scanVolunteer(s.pool.QueryRow(ctx, query, taskID, volunteerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить предложение", err)
		return nil, fmt.Errorf("получение предложения: %w", err)
	}
	return v, nil
}

func (s *Storage) ListVolunteersForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskVolunteer, error) {
	start := time.Now()

	query := `SELECT ` + volunteerColumns + ` FROM task_volunteers
				WHERE task_id = $1
				ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить волонтёров", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение волонтёров: %w", err)
	}
	defer rows.Close()

	volunteers := []*models.TaskVolunteer{}
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования волонтёра", zap.Error(err))
			continue
		}
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return volunteers, nil
}

// AcceptVolunteer переводит pending -> accepted и в той же транзакции
// увеличивает current_volunteers; задача переходит в in_progress при первом
// принятом волонтёре. Превышение max_volunteers невозможно.
func (s *Storage) AcceptVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	v, err := scanVolunteer(tx.QueryRow(ctx,
		`SELECT `+volunteerColumns+` FROM task_volunteers WHERE id = $1 FOR UPDATE`,
		volunteerRowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить предложение", err)
		return nil, nil, fmt.Errorf("получение предложения: %w", err)
	}

	if v.Status != models.VolunteerPending {
		logger.Warn("Repository: Принятие возможно только из pending",
			zap.String("volunteer_row", volunteerRowID.String()),
			zap.String("status", string(v.Status)))
		return nil, nil, repo.ErrVersionConflict
	}

	var current, max int
	err = tx.QueryRow(ctx,
		`SELECT current_volunteers, max_volunteers FROM tasks WHERE id = $1 FOR UPDATE`,
		v.TaskID).Scan(&current, &max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, nil, fmt.Errorf("получение задачи: %w", err)
	}

	if current >= max {
		logger.Warn("Repository: Лимит волонтёров достигнут",
			zap.String("task_id", v.TaskID.String()),
			zap.Int("max_volunteers", max))
		return nil, nil, repo.ErrCapacityReached
	}

	_, err = tx.Exec(ctx,
		`UPDATE task_volunteers SET status = $1 WHERE id = $2`,
		models.VolunteerAccepted, volunteerRowID)
	if err != nil {
		logger.Error("Repository: Не удалось принять волонтёра", err)
		return nil, nil, fmt.Errorf("принятие волонтёра: %w", err)
	}
	v.Status = models.VolunteerAccepted

	t, err := scanTask(tx.QueryRow(ctx,
		`UPDATE tasks
			SET current_volunteers = current_volunteers + 1,
				status = CASE WHEN status = $1 THEN $2 ELSE status END,
				updated_at = NOW(),
				version = version + 1
			WHERE id = $3
			RETURNING `+taskColumns,
		models.StatusOpen, models.StatusInProgress, v.TaskID))
	if err != nil {
		logger.Error("Repository: Не удалось обновить счётчик задачи", err)
		return nil, nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить принятие", err)
		return nil, nil, fmt.Errorf("коммит транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return v, t, nil
}

// RejectVolunteer переводит pending|accepted -> rejected; у ранее принятого
// волонтёра транзакционно снимается зачёт в current_volunteers
func (s *Storage) RejectVolunteer(ctx context.Context, volunteerRowID uuid.UUID) (*models.TaskVolunteer, *models.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	v, err := scanVolunteer(tx.QueryRow(ctx,
		`SELECT `+volunteerColumns+` FROM task_volunteers WHERE id = $1 FOR UPDATE`,
		volunteerRowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить предложение", err)
		return nil, nil, fmt.Errorf("получение предложения: %w", err)
	}

	if !v.Status.CanTransitionTo(models.VolunteerRejected) {
		logger.Warn("Repository: Недопустимый переход статуса",
			zap.String("volunteer_row", volunteerRowID.String()),
			zap.String("status", string(v.Status)))
		return nil, nil, repo.ErrVersionConflict
	}

	wasAccepted := v.Status == models.VolunteerAccepted

	_, err = tx.Exec(ctx,
		`UPDATE task_volunteers SET status = $1 WHERE id = $2`,
		models.VolunteerRejected, volunteerRowID)
	if err != nil {
		logger.Error("Repository: Не удалось отклонить волонтёра", err)
		return nil, nil, fmt.Errorf("отклонение волонтёра: %w", err)
	}
	v.Status = models.VolunteerRejected

	var t *models.Task
	if wasAccepted {
		t, err = scanTask(tx.QueryRow(ctx,
			`UPDATE tasks
				SET current_volunteers = current_volunteers - 1,
					updated_at = NOW(),
					version = version + 1
				WHERE id = $1
				RETURNING `+taskColumns, v.TaskID))
		if err != nil {
			logger.Error("Repository: Не удалось обновить счётчик задачи", err)
			return nil, nil, fmt.Errorf("обновление задачи: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить отклонение", err)
		return nil, nil, fmt.Errorf("коммит транзакции: %w", err)
	}

	return v, t, nil
}

// WithdrawOffer удаляет строку волонтёра; принятый волонтёр при уходе
// уменьшает current_volunteers в той же транзакции
func (s *Storage) WithdrawOffer(ctx context.Context, taskID, volunteerID uuid.UUID) (*models.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var status models.VolunteerStatus
	err = tx.QueryRow(ctx,
		`DELETE FROM task_volunteers WHERE task_id = $1 AND volunteer_id = $2 RETURNING status`,
		taskID, volunteerID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось удалить предложение", err)
		return nil, fmt.Errorf("удаление предложения: %w", err)
	}

	var t *models.Task
	if status == models.VolunteerAccepted {
		t, err = scanTask(tx.QueryRow(ctx,
			`UPDATE tasks
				SET current_volunteers = current_volunteers - 1,
					updated_at = NOW(),
					version = version + 1
				WHERE id = $1
				RETURNING `+taskColumns, taskID))
		if err != nil {
			logger.Error("Repository: Не удалось обновить счётчик задачи", err)
			return nil, fmt.Errorf("обновление задачи: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить отзыв предложения", err)
		return nil, fmt.Errorf("коммит транзакции: %w", err)
	}

	return t, nil
}
