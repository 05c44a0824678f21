package dto

import (
	"volunteerHub/internal/models"
	"volunteerHub/internal/service"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title         string   `json:"title"`
	ImprovedTitle *string  `json:"improved_title,omitempty"`
	Description   string   `json:"description"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	LocationName  string   `json:"location_name"`
	TimeNeeded    string   `json:"time_needed"`
	Urgency       string   `json:"urgency"`
	SkillsNeeded  []string `json:"skills_needed"`
	MaxVolunteers int      `json:"max_volunteers"`
}

func (r CreateTaskRequest) ToDraft() service.TaskDraft {
	return service.TaskDraft{
		Title:         r.Title,
		ImprovedTitle: r.ImprovedTitle,
		Description:   r.Description,
		Lat:           r.Lat,
		Lng:           r.Lng,
		LocationName:  r.LocationName,
		TimeNeeded:    models.TimeNeeded(r.TimeNeeded),
		Urgency:       models.Urgency(r.Urgency),
		SkillsNeeded:  r.SkillsNeeded,
		MaxVolunteers: r.MaxVolunteers,
	}
}

type UpdateTaskRequest struct {
	Title         *string   `json:"title,omitempty"`
	ImprovedTitle *string   `json:"improved_title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	LocationName  *string   `json:"location_name,omitempty"`
	TimeNeeded    *string   `json:"time_needed,omitempty"`
	Urgency       *string   `json:"urgency,omitempty"`
	SkillsNeeded  []string  `json:"skills_needed,omitempty"`
	MaxVolunteers *int      `json:"max_volunteers,omitempty"`
}

// ToOptions собирает функции частичного обновления из переданных полей
func (r UpdateTaskRequest) ToOptions() []service.TaskOption {
	options := []service.TaskOption{}

	if r.Title != nil {
		options = append(options, service.WithTitle(*r.Title))
	}
	if r.ImprovedTitle != nil {
		options = append(options, service.WithImprovedTitle(*r.ImprovedTitle))
	}
	if r.Description != nil {
		options = append(options, service.WithDescription(*r.Description))
	}
	if r.Lat != nil && r.Lng != nil {
		name := ""
		if r.LocationName != nil {
			name = *r.LocationName
		}
		options = append(options, service.WithLocation(*r.Lat, *r.Lng, name))
	}
	if r.TimeNeeded != nil {
		options = append(options, service.WithTimeNeeded(models.TimeNeeded(*r.TimeNeeded)))
	}
	if r.Urgency != nil {
		options = append(options, service.WithUrgency(models.Urgency(*r.Urgency)))
	}
	if r.SkillsNeeded != nil {
		options = append(options, service.WithSkillsNeeded(r.SkillsNeeded))
	}
	if r.MaxVolunteers != nil {
		options = append(options, service.WithMaxVolunteers(*r.MaxVolunteers))
	}

	return options
}

type OfferRequest struct {
	Message string `json:"message"`
}

type MessageRequest struct {
	Content string `json:"content"`
}

type FeedbackRequest struct {
	ToUser  uuid.UUID `json:"to_user"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}

type ProfileRequest struct {
	DisplayName  string   `json:"display_name"`
	AvatarURL    string   `json:"avatar_url"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	LocationName string   `json:"location_name"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
}

func (r ProfileRequest) ToDraft() service.ProfileDraft {
	return service.ProfileDraft{
		DisplayName:  r.DisplayName,
		AvatarURL:    r.AvatarURL,
		Lat:          r.Lat,
		Lng:          r.Lng,
		LocationName: r.LocationName,
		Skills:       r.Skills,
		Availability: r.Availability,
	}
}

type StructureRequest struct {
	TranscribedText string `json:"transcribedText"`
}

type VolunteerListResponse struct {
	Volunteers    []*service.VolunteerView `json:"volunteers"`
	PendingCount  int                      `json:"pending_count"`
	AcceptedCount int                      `json:"accepted_count"`
}

type BestMatchResponse struct {
	Match *service.TaskView `json:"match"`
	Score float64           `json:"score"`
}

type FeedbackListResponse struct {
	Feedback      []*models.Feedback `json:"feedback"`
	AverageRating float64            `json:"average_rating"`
}
