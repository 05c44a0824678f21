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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func (s *Storage) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	start := time.Now()

	query := `INSERT INTO feedback (id, task_id, from_user, to_user, rating, comment, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		f.ID, f.TaskID, f.FromUser, f.ToUser, f.Rating, f.Comment,
	).Scan(&f.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Repository: Повторная оценка",
				zap.String("task_id", f.TaskID.String()),
				zap.String("from_user", f.FromUser.String()))
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось сохранить оценку", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение оценки: %w", err)
	}

	return nil
}

func (s *Storage) ListFeedbackForUser(ctx context.Context, userID uuid.UUID) ([]*models.Feedback, error) {
	query := `SELECT id, task_id, from_user, to_user, rating, comment, created_at
				FROM feedback
				WHERE to_user = $1
				ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Не удалось получить оценки", err)
		return nil, fmt.Errorf("получение оценок: %w", err)
	}
	defer rows.Close()

	feedback := []*models.Feedback{}
	for rows.Next() {
		f := &models.Feedback{}
		if err := rows.Scan(&f.ID, &f.TaskID, &f.FromUser, &f.ToUser, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования оценки", zap.Error(err))
			continue
		}
		feedback = append(feedback, f)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return feedback, nil
}
