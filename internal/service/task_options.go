package service

import "volunteerHub/internal/models"

// TaskOption - функция частичного обновления задачи, nil-опции пропускаются
type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(t *models.Task) {
		t.Title = title
	}
}

func WithImprovedTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(t *models.Task) {
		t.ImprovedTitle = &title
	}
}

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(t *models.Task) {
		t.Description = description
	}
}

func WithUrgency(urgency models.Urgency) TaskOption {
	if !models.ValidUrgency(urgency) {
		return nil
	}
	return func(t *models.Task) {
		t.Urgency = urgency
	}
}

func WithTimeNeeded(timeNeeded models.TimeNeeded) TaskOption {
	if !models.ValidTimeNeeded(timeNeeded) {
		return nil
	}
	return func(t *models.Task) {
		t.TimeNeeded = timeNeeded
	}
}

func WithLocation(lat, lng float64, name string) TaskOption {
	return func(t *models.Task) {
		t.Lat = &lat
		t.Lng = &lng
		t.LocationName = name
	}
}

func WithSkillsNeeded(skills []string) TaskOption {
	if skills == nil {
		return nil
	}
	return func(t *models.Task) {
		t.SkillsNeeded = skills
	}
}

func WithMaxVolunteers(max int) TaskOption {
	if max < 1 {
		return nil
	}
	return func(t *models.Task) {
		t.MaxVolunteers = max
	}
}
