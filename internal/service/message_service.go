package service

import (
	"context"
	"fmt"

	"volunteerHub/internal/models"
	"volunteerHub/internal/realtime"

	"github.com/google/uuid"
)

type MessageService struct {
	messages   MessageRepository
	volunteers *VolunteerService
	events     realtime.Publisher
}

func NewMessageService(messages MessageRepository, volunteers *VolunteerService, events realtime.Publisher) MessageService {
	return MessageService{
		messages:   messages,
		volunteers: volunteers,
		events:     events,
	}
}

// Append добавляет сообщение в чат задачи, писать могут только участники
func (s *MessageService) Append(ctx context.Context, userID, taskID uuid.UUID, content string) (*models.TaskMessage, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}
	if content == "" {
		return nil, NewValidationError("content", "пустое сообщение")
	}

	ok, err := s.volunteers.IsParticipant(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewForbidden("чат доступен только участникам задачи")
	}

	m := &models.TaskMessage{
		ID:       uuid.New(),
		TaskID:   taskID,
		SenderID: userID,
		Content:  content,
	}

	if err := s.messages.AppendMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("добавление сообщения: %w", err)
	}

	s.volunteers.publish(ctx, realtime.TableMessages, realtime.OpInsert, m.ID)
	return m, nil
}

func (s *MessageService) ListForTask(ctx context.Context, userID, taskID uuid.UUID) ([]*models.TaskMessage, error) {
	if userID == uuid.Nil {
		return nil, NewUnauthenticated()
	}

	ok, err := s.volunteers.IsParticipant(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewForbidden("чат доступен только участникам задачи")
	}

	messages, err := s.messages.ListMessagesForTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение сообщений: %w", err)
	}
	return messages, nil
}
