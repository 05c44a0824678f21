package matching_test

import (
	"testing"

	"volunteerHub/internal/matching"
	"volunteerHub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestScore_ZeroForIrrelevantTask(t *testing.T) {
	// нет пересечения навыков, далеко, low - оценка строго 0
	c := matching.Candidate{
		TaskID:       uuid.New(),
		SkillsNeeded: []string{"plumbing"},
		Urgency:      models.UrgencyLow,
		DistanceMi:   ptr(7.5),
	}

	score := matching.Score([]string{"cooking", "driving"}, c)
	assert.Equal(t, 0.0, score)

	best, _ := matching.BestMatch([]string{"cooking", "driving"}, []matching.Candidate{c})
	assert.Nil(t, best, "задача с нулевой оценкой не может быть лучшим совпадением")
}

func TestScore_SkillOverlap(t *testing.T) {
	c := matching.Candidate{
		SkillsNeeded: []string{"cooking", "driving", "plumbing"},
		Urgency:      models.UrgencyLow,
	}

	score := matching.Score([]string{"cooking", "driving"}, c)
	assert.Equal(t, 4.0, score, "+2 за каждый совпавший навык")
}

func TestScore_UrgencyBonus(t *testing.T) {
	base := matching.Candidate{
		SkillsNeeded: []string{"cooking"},
		Urgency:      models.UrgencyLow,
		DistanceMi:   ptr(3.0),
	}
	urgent := base
	urgent.Urgency = models.UrgencyHigh

	low := matching.Score([]string{"cooking"}, base)
	high := matching.Score([]string{"cooking"}, urgent)

	assert.InDelta(t, 1.0, high-low, 1e-9, "high даёт ровно +1 к идентичной задаче")
}

func TestScore_ProximityBonus(t *testing.T) {
	tests := []struct {
		name     string
		distance *float64
		expected float64
	}{
		{"вплотную", ptr(0.0), 2.0},
		{"в полутора милях", ptr(1.5), 1.7},
		{"на границе радиуса", ptr(5.0), 0.0},
		{"за радиусом", ptr(12.0), 0.0},
		{"расстояние неизвестно", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := matching.Candidate{Urgency: models.UrgencyLow, DistanceMi: tt.distance}
			assert.InDelta(t, tt.expected, matching.Score(nil, c), 1e-9)
		})
	}
}

func TestBestMatch_TieKeepsFirst(t *testing.T) {
	first := matching.Candidate{TaskID: uuid.New(), SkillsNeeded: []string{"cooking"}}
	second := matching.Candidate{TaskID: uuid.New(), SkillsNeeded: []string{"cooking"}}

	best, score := matching.BestMatch([]string{"cooking"}, []matching.Candidate{first, second})

	require.NotNil(t, best)
	assert.Equal(t, first.TaskID, best.TaskID)
	assert.Equal(t, 2.0, score)
}

func TestBestMatch_PicksHighest(t *testing.T) {
	weak := matching.Candidate{TaskID: uuid.New(), SkillsNeeded: []string{"cooking"}}
	strong := matching.Candidate{
		TaskID:       uuid.New(),
		SkillsNeeded: []string{"cooking", "driving"},
		Urgency:      models.UrgencyHigh,
	}

	best, score := matching.BestMatch([]string{"cooking", "driving"}, []matching.Candidate{weak, strong})

	require.NotNil(t, best)
	assert.Equal(t, strong.TaskID, best.TaskID)
	assert.Equal(t, 5.0, score)
}

func TestBestMatch_EmptyInput(t *testing.T) {
	best, score := matching.BestMatch([]string{"cooking"}, nil)

	assert.Nil(t, best)
	assert.Equal(t, 0.0, score)
}
