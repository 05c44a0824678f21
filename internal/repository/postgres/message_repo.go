package postgres

import (
	"context"
	"fmt"
	"time"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Storage) AppendMessage(ctx context.Context, m *models.TaskMessage) error {
	start := time.Now()

	query := `INSERT INTO task_messages (id, task_id, sender_id, content, created_at)
				VALUES ($1, $2, $3, $4, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query, m.ID, m.TaskID, m.SenderID, m.Content).Scan(&m.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить сообщение", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление сообщения: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// сообщения задачи в порядке отправки
func (s *Storage) ListMessagesForTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMessage, error) {
	query := `SELECT id, task_id, sender_id, content, created_at
				FROM task_messages
				WHERE task_id = $1
				ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить сообщения", err)
		return nil, fmt.Errorf("получение сообщений: %w", err)
	}
	defer rows.Close()

	messages := []*models.TaskMessage{}
	for rows.Next() {
		m := &models.TaskMessage{}
		if err := rows.Scan(&m.ID, &m.TaskID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования сообщения", zap.Error(err))
			continue
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return messages, nil
}
