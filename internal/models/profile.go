package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	UserID              uuid.UUID  `json:"user_id" db:"user_id"`
	DisplayName         string     `json:"display_name" db:"display_name"`
	AvatarURL           string     `json:"avatar_url" db:"avatar_url"`
	Lat                 *float64   `json:"lat,omitempty" db:"lat"`
	Lng                 *float64   `json:"lng,omitempty" db:"lng"`
	LocationName        string     `json:"location_name" db:"location_name"`
	Skills              []string   `json:"skills" db:"skills"`
	Availability        string     `json:"availability" db:"availability"`
	TasksCompleted      int        `json:"tasks_completed" db:"tasks_completed"`
	TotalVolunteerHours float64    `json:"total_volunteer_hours" db:"total_volunteer_hours"`
	Badges              []string   `json:"badges" db:"badges"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

const BadgeFirstTask = "first_task"
const BadgeTenTasks = "ten_tasks"
const BadgeMarathon = "marathon_25h"

// BadgesFor пересчитывает набор значков по накопленной статистике.
// Вызывается после зачёта завершённой задачи, уже выданные значки не отбираются.
func BadgesFor(current []string, tasksCompleted int, totalHours float64) []string {
	have := make(map[string]bool, len(current))
	for _, b := range current {
		have[b] = true
	}

	if tasksCompleted >= 1 {
		have[BadgeFirstTask] = true
	}
	if tasksCompleted >= 10 {
		have[BadgeTenTasks] = true
	}
	if totalHours >= 25 {
		have[BadgeMarathon] = true
	}

	res := make([]string, 0, len(have))
	for _, b := range []string{BadgeFirstTask, BadgeTenTasks, BadgeMarathon} {
		if have[b] {
			res = append(res, b)
		}
	}
	return res
}
