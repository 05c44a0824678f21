package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback - оценка участника участником по завершённой задаче,
// уникальна по (task_id, from_user, to_user).
type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	FromUser  uuid.UUID `json:"from_user" db:"from_user"`
	ToUser    uuid.UUID `json:"to_user" db:"to_user"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
