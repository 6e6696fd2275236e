package brackets

import (
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/google/uuid"
)

// GenerateMatches expands the group's fixture template through its pot-letter map.
// Matches come back in template order, which is matchday order.
func GenerateMatches(group models.Group) ([]models.Match, error) {
	template, ok := TemplateForGroupSize(len(group.TeamIDs))
	if !ok {
		return nil, fmt.Errorf("%w: group %s has %d teams", ErrInvalidGroupSize, group.Name, len(group.TeamIDs))
	}

	byLetter := make(map[models.PotLetter]string, len(group.PotLetters))
	for teamID, letter := range group.PotLetters {
		byLetter[letter] = teamID
	}

	matches := make([]models.Match, 0, len(template))
	for _, fixture := range template {
		home, okHome := byLetter[fixture.Home]
		away, okAway := byLetter[fixture.Away]
		if !okHome || !okAway {
			return nil, fmt.Errorf("%w: group %s, fixture %s-%s", ErrUnknownPotLetter, group.Name, fixture.Home, fixture.Away)
		}
		matches = append(matches, models.Match{
			ID:         uuid.NewString(),
			HomeTeamID: home,
			AwayTeamID: away,
			Stage:      group.Stage,
			Matchday:   fixture.Matchday,
		})
	}
	return matches, nil
}

// WithFixtures returns a copy of the group with freshly generated matches and zeroed standings.
func WithFixtures(group models.Group) (models.Group, error) {
	matches, err := GenerateMatches(group)
	if err != nil {
		return models.Group{}, err
	}
	out := cloneGroup(group)
	out.Matches = matches
	out.Standings = InitializeStandings(group.TeamIDs)
	return out, nil
}

func cloneGroup(g models.Group) models.Group {
	out := g
	out.TeamIDs = append([]string(nil), g.TeamIDs...)
	out.Matches = make([]models.Match, len(g.Matches))
	for i, m := range g.Matches {
		out.Matches[i] = cloneMatch(m)
	}
	out.Standings = append([]models.TeamStanding(nil), g.Standings...)
	if g.PotLetters != nil {
		out.PotLetters = make(map[string]models.PotLetter, len(g.PotLetters))
		for k, v := range g.PotLetters {
			out.PotLetters[k] = v
		}
	}
	return out
}

func cloneMatch(m models.Match) models.Match {
	if m.HomeScore != nil {
		m.HomeScore = models.IntPtr(*m.HomeScore)
	}
	if m.AwayScore != nil {
		m.AwayScore = models.IntPtr(*m.AwayScore)
	}
	return m
}
