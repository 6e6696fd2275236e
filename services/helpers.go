package services

import (
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
)

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusQualifiersInProgress:     {models.StatusQualifiersComplete},
		models.StatusQualifiersComplete:       {models.StatusWorldCupGroupsInProgress},
		models.StatusWorldCupGroupsInProgress: {models.StatusWorldCupGroupsComplete},
		models.StatusWorldCupGroupsComplete:   {models.StatusKnockoutInProgress},
		models.StatusKnockoutInProgress:       {models.StatusChampionDecided},
		models.StatusChampionDecided:          {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func requireStatus(t *models.Tournament, want models.TournamentStatus) error {
	if t.Status != want {
		return fmt.Errorf("%w: tournament is %s, operation needs %s", ErrInvalidStatusTransition, t.Status, want)
	}
	return nil
}

func countPlayed(groups []models.Group) (played, total int) {
	for _, g := range groups {
		for _, m := range g.Matches {
			total++
			if m.Played {
				played++
			}
		}
	}
	return played, total
}

func findGroup(groups []models.Group, groupID string) int {
	for i, g := range groups {
		if g.ID == groupID {
			return i
		}
	}
	return -1
}

func snapshotSkills(teams map[string]models.Team) map[string]float64 {
	snapshot := make(map[string]float64, len(teams))
	for id, t := range teams {
		snapshot[id] = t.Skill
	}
	return snapshot
}

func restoreSkills(teams map[string]models.Team, snapshot map[string]float64) {
	for id, skill := range snapshot {
		if t, ok := teams[id]; ok {
			t.Skill = skill
			teams[id] = t
		}
	}
}

func teamsByID(teams map[string]models.Team, ids []string) ([]models.Team, error) {
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := teams[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown team %s", ErrValidationFailed, id)
		}
		out = append(out, t)
	}
	return out, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
