package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskVolunteer - связка задачи и волонтёра, уникальна по (task_id, volunteer_id).
// Отзыв предложения удаляет строку целиком, статуса "withdrawn" нет.
type TaskVolunteer struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TaskID      uuid.UUID       `json:"task_id" db:"task_id"`
	VolunteerID uuid.UUID       `json:"volunteer_id" db:"volunteer_id"`
	Status      VolunteerStatus `json:"status" db:"status"`
	Message     string          `json:"message" db:"message"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type VolunteerStatus string

const VolunteerPending VolunteerStatus = "pending"
const VolunteerAccepted VolunteerStatus = "accepted"
const VolunteerRejected VolunteerStatus = "rejected"

// pending -> accepted | rejected, accepted -> rejected (передумал создатель)
func (s VolunteerStatus) CanTransitionTo(next VolunteerStatus) bool {
	switch s {
	case VolunteerPending:
		return next == VolunteerAccepted || next == VolunteerRejected
	case VolunteerAccepted:
		return next == VolunteerRejected
	default:
		return false
	}
}
