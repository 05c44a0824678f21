package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	CreatorID         uuid.UUID  `json:"creator_id" db:"creator_id"`
	Title             string     `json:"title" db:"title"`
	ImprovedTitle     *string    `json:"improved_title,omitempty" db:"improved_title"`
	Description       string     `json:"description" db:"description"`
	Lat               *float64   `json:"lat,omitempty" db:"lat"`
	Lng               *float64   `json:"lng,omitempty" db:"lng"`
	LocationName      string     `json:"location_name" db:"location_name"`
	TimeNeeded        TimeNeeded `json:"time_needed" db:"time_needed"`
	Urgency           Urgency    `json:"urgency" db:"urgency"`
	Status            TaskStatus `json:"status" db:"status"`
	SkillsNeeded      []string   `json:"skills_needed" db:"skills_needed"`
	MaxVolunteers     int        `json:"max_volunteers" db:"max_volunteers"`
	CurrentVolunteers int        `json:"current_volunteers" db:"current_volunteers"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Version           int        `json:"version" db:"version"`
}

type TaskStatus string
type Urgency string
type TimeNeeded string

const StatusOpen TaskStatus = "open"
const StatusInProgress TaskStatus = "in_progress"
const StatusCompleted TaskStatus = "completed"
const StatusCancelled TaskStatus = "cancelled"

const UrgencyLow Urgency = "low"
const UrgencyMedium Urgency = "medium"
const UrgencyHigh Urgency = "high"

const Time15Min TimeNeeded = "15min"
const Time30Min TimeNeeded = "30min"
const Time1Hour TimeNeeded = "1hour"
const Time2Hours TimeNeeded = "2hours"
const TimeHalfDay TimeNeeded = "half_day"

// статус двигается только вперёд: open -> in_progress -> completed/cancelled
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusInProgress || next == StatusCompleted || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

func (s TaskStatus) IsActive() bool {
	return s == StatusOpen || s == StatusInProgress
}

func ValidUrgency(u Urgency) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

func ValidTimeNeeded(t TimeNeeded) bool {
	_, ok := hoursByTimeNeeded[t]
	return ok
}

var hoursByTimeNeeded = map[TimeNeeded]float64{
	Time15Min:   0.25,
	Time30Min:   0.5,
	Time1Hour:   1,
	Time2Hours:  2,
	TimeHalfDay: 4,
}

// оценка часов волонтёра для зачёта в статистику профиля
func (t TimeNeeded) EstimatedHours() float64 {
	return hoursByTimeNeeded[t]
}
