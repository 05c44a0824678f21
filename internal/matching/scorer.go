package matching

import (
	"volunteerHub/internal/models"

	"github.com/google/uuid"
)

// Candidate - задача-кандидат для подбора: навыки, срочность и
// расстояние до волонтёра, если у обеих сторон есть координаты.
type Candidate struct {
	TaskID       uuid.UUID
	SkillsNeeded []string
	Urgency      models.Urgency
	DistanceMi   *float64
}

const skillWeight = 2.0
const proximityRadiusMi = 5.0
const urgencyBonus = 1.0

// Score - жадная оценка задачи для набора навыков волонтёра:
// +2 за каждое пересечение навыков, бонус близости 2 - d/5 при d < 5 миль,
// +1 если срочность high.
func Score(userSkills []string, c Candidate) float64 {
	score := 0.0

	have := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		have[s] = true
	}
	for _, s := range c.SkillsNeeded {
		if have[s] {
			score += skillWeight
		}
	}

	if c.DistanceMi != nil && *c.DistanceMi < proximityRadiusMi {
		// бонус убывает линейно, за радиусом не начисляется
		score += 2 - *c.DistanceMi/proximityRadiusMi
	}

	if c.Urgency == models.UrgencyHigh {
		score += urgencyBonus
	}

	return score
}

// BestMatch возвращает кандидата со строго наибольшей положительной оценкой.
// При равенстве выигрывает первый по порядку входа, при отсутствии
// положительных оценок - nil.
func BestMatch(userSkills []string, candidates []Candidate) (*Candidate, float64) {
	var best *Candidate
	bestScore := 0.0

	for i := range candidates {
		score := Score(userSkills, candidates[i])
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	return best, bestScore
}
