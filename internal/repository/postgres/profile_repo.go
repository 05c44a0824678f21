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

const profileColumns = `id,
					user_id,
					display_name,
					avatar_url,
					lat,
					lng,
					location_name,
					skills,
					availability,
					tasks_completed,
					total_volunteer_hours,
					badges,
					created_at,
					updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Lat,
		&p.Lng,
		&p.LocationName,
		&p.Skills,
		&p.Availability,
		&p.TasksCompleted,
		&p.TotalVolunteerHours,
		&p.Badges,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// UpsertProfile создаёт профиль или обновляет пользовательские поля.
// Счётчики статистики этим путём не трогаются.
func (s *Storage) UpsertProfile(ctx context.Context, p *models.Profile) error {
	start := time.Now()

	query := `INSERT INTO profiles
				(id, user_id, display_name, avatar_url, lat, lng, location_name, skills, availability, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
				ON CONFLICT (user_id) DO UPDATE SET
					display_name = EXCLUDED.display_name,
					avatar_url = EXCLUDED.avatar_url,
					lat = EXCLUDED.lat,
					lng = EXCLUDED.lng,
					location_name = EXCLUDED.location_name,
					skills = EXCLUDED.skills,
					availability = EXCLUDED.availability,
					updated_at = NOW()
				RETURNING id, tasks_completed, total_volunteer_hours, badges, created_at`

	err := s.pool.QueryRow(ctx, query,
		p.ID,
		p.UserID,
		p.DisplayName,
		p.AvatarURL,
		p.Lat,
		p.Lng,
		p.LocationName,
		p.Skills,
		p.Availability,
	).Scan(&p.ID, &p.TasksCompleted, &p.TotalVolunteerHours, &p.Badges, &p.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось сохранить профиль", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение профиля: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	p, err := scanProfile(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить профиль", err)
		return nil, fmt.Errorf("получение профиля: %w", err)
	}
	return p, nil
}

// GetProfilesByUserIDs - батчевый второй запрос для гидрации списков,
// вместо джойна на стороне базы
func (s *Storage) GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	start := time.Now()

	result := make(map[uuid.UUID]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, userIDs)
	if err != nil {
		logger.Error("Repository: Не удалось получить профили", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение профилей: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования профиля", zap.Error(err))
			continue
		}
		result[p.UserID] = p
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return result, nil
}
