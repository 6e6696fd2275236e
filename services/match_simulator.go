package services

import (
	"math"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/models"
)

// MatchOutcome is what the match-outcome service returns for one match.
type MatchOutcome struct {
	HomeScore      int
	AwayScore      int
	HomeSkillDelta float64
	AwaySkillDelta float64
	// Penalties is only set by SimulateWithDecision when normal time ends level.
	Penalties *models.PenaltyScore
}

// MatchSimulator produces scores and rating deltas from two skill ratings.
// Implementations must return non-negative scores and deltas that keep ratings
// within [models.MinSkill, models.MaxSkill].
type MatchSimulator interface {
	Simulate(rng brackets.RandomSource, homeSkill, awaySkill float64, disableHomeAdvantage bool) MatchOutcome
	SimulateWithDecision(rng brackets.RandomSource, homeSkill, awaySkill float64, disableHomeAdvantage bool) MatchOutcome
}

const (
	eloScale         = 40.0
	homeAdvantage    = 3.0
	ratingStep       = 2.0
	goalFloor        = 0.3
	goalSpread       = 2.4
	maxGoals         = 10
	regulationKicks  = 5
	maxSuddenDeath   = 30
	baseKickAccuracy = 0.75
	kickSkillWeight  = 0.002
)

// EloSimulator draws Poisson goals around an Elo expectation.
type EloSimulator struct{}

func NewEloSimulator() *EloSimulator {
	return &EloSimulator{}
}

func (s *EloSimulator) Simulate(rng brackets.RandomSource, homeSkill, awaySkill float64, disableHomeAdvantage bool) MatchOutcome {
	expected := expectedScore(homeSkill, awaySkill, disableHomeAdvantage)
	home := poisson(rng, goalFloor+goalSpread*expected)
	away := poisson(rng, goalFloor+goalSpread*(1-expected))

	outcome := MatchOutcome{HomeScore: home, AwayScore: away}
	outcome.HomeSkillDelta, outcome.AwaySkillDelta = skillDeltas(homeSkill, awaySkill, expected, resultValue(home, away))
	return outcome
}

func (s *EloSimulator) SimulateWithDecision(rng brackets.RandomSource, homeSkill, awaySkill float64, disableHomeAdvantage bool) MatchOutcome {
	outcome := s.Simulate(rng, homeSkill, awaySkill, disableHomeAdvantage)
	if outcome.HomeScore != outcome.AwayScore {
		return outcome
	}
	outcome.Penalties = shootout(rng, homeSkill, awaySkill)
	return outcome
}

func expectedScore(homeSkill, awaySkill float64, neutral bool) float64 {
	diff := homeSkill - awaySkill
	if !neutral {
		diff += homeAdvantage
	}
	return 1 / (1 + math.Pow(10, -diff/eloScale))
}

// resultValue is 1 for a home win, 0 for an away win and 0.5 for a draw.
// A shoot-out counts as a draw for ratings.
func resultValue(home, away int) float64 {
	switch {
	case home > away:
		return 1
	case home < away:
		return 0
	default:
		return 0.5
	}
}

func skillDeltas(homeSkill, awaySkill, expected, result float64) (float64, float64) {
	change := ratingStep * (result - expected)
	newHome := models.ClampSkill(homeSkill + change)
	newAway := models.ClampSkill(awaySkill - change)
	return newHome - homeSkill, newAway - awaySkill
}

// poisson uses Knuth's multiplication method, capped at maxGoals.
func poisson(rng brackets.RandomSource, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := rng.Float64()
	for p > limit && k < maxGoals {
		k++
		p *= rng.Float64()
	}
	return k
}

func shootout(rng brackets.RandomSource, homeSkill, awaySkill float64) *models.PenaltyScore {
	homeAccuracy := baseKickAccuracy + kickSkillWeight*(homeSkill-awaySkill)
	awayAccuracy := baseKickAccuracy + kickSkillWeight*(awaySkill-homeSkill)
	kick := func(accuracy float64) int {
		if rng.Float64() < accuracy {
			return 1
		}
		return 0
	}

	score := &models.PenaltyScore{}
	for i := 0; i < regulationKicks; i++ {
		score.Home += kick(homeAccuracy)
		score.Away += kick(awayAccuracy)
	}
	for i := 0; score.Home == score.Away && i < maxSuddenDeath; i++ {
		score.Home += kick(homeAccuracy)
		score.Away += kick(awayAccuracy)
	}
	if score.Home == score.Away {
		if rng.IntN(2) == 0 {
			score.Home++
		} else {
			score.Away++
		}
	}
	return score
}
