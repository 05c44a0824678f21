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

// ProfileDraft - пользовательские поля профиля; счётчики статистики
// меняются только завершением задач
type ProfileDraft struct {
	DisplayName  string
	AvatarURL    string
	Lat          *float64
	Lng          *float64
	LocationName string
	Skills       []string
	Availability string
}

type ProfileService struct {
	profiles ProfileRepository
	events   realtime.Publisher
}

func NewProfileService(profiles ProfileRepository, events realtime.Publisher) ProfileService {
	return ProfileService{
		profiles: profiles,
		events:   events,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	p, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("профиль", userID.String())
		}
		return nil, fmt.Errorf("получение профиля: %w", err)
	}
	return p, nil
}

// Upsert сохраняет собственный профиль пользователя
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, draft ProfileDraft) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}
	if draft.DisplayName == "" {
		return nil, NewValidationError("display_name", "пустое значение")
	}

	p := &models.Profile{
		ID:           uuid.New(),
		UserID:       userID,
		DisplayName:  draft.DisplayName,
		AvatarURL:    draft.AvatarURL,
		Lat:          draft.Lat,
		Lng:          draft.Lng,
		LocationName: draft.LocationName,
		Skills:       draft.Skills,
		Availability: draft.Availability,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}

	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("сохранение профиля: %w", err)
	}

	s.publishProfile(ctx, userID)

	return p, nil
}

// ошибка публикации не роняет мутацию, только логируется
func (s *ProfileService) publishProfile(ctx context.Context, userID uuid.UUID) {
	if s.events == nil {
		return
	}
	event := realtime.Event{Op: realtime.OpUpdate, ID: userID}
	if err := s.events.Publish(ctx, realtime.TableProfiles, event); err != nil {
		logger.Warn("Service: Не удалось опубликовать событие",
			zap.Error(err),
			zap.String("table", realtime.TableProfiles),
			zap.String("op", realtime.OpUpdate))
	}
}
