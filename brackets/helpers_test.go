package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/require"
)

// testTeams returns n teams with strictly decreasing skill, cycling through every region.
func testTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{
			ID:     fmt.Sprintf("T%03d", i),
			Name:   fmt.Sprintf("Team %03d", i),
			Region: models.Regions[i%len(models.Regions)],
			Skill:  95 - float64(i)*0.5,
		}
	}
	return teams
}

func namesOf(teams []models.Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}

// fixtureGroup builds a drawn group whose pot letters follow the order of ids.
func fixtureGroup(t *testing.T, stage models.Stage, ids ...string) models.Group {
	t.Helper()
	letters := make(map[string]models.PotLetter, len(ids))
	for i, id := range ids {
		letters[id] = models.PotLetterFor(i)
	}
	g, err := WithFixtures(models.Group{
		ID:           "g-" + ids[0],
		Name:         "Group " + ids[0],
		Stage:        stage,
		TeamIDs:      ids,
		PotLetters:   letters,
		DrawComplete: true,
	})
	require.NoError(t, err)
	return g
}

// playAll applies score(match) to every match of the group in order.
func playAll(t *testing.T, g models.Group, score func(m models.Match) (int, int)) models.Group {
	t.Helper()
	for _, m := range g.Matches {
		home, away := score(m)
		var err error
		g, err = ApplyMatchResult(g, m.ID, home, away)
		require.NoError(t, err)
	}
	return g
}

func standingFor(g models.Group, teamID string) (models.TeamStanding, bool) {
	for _, s := range g.Standings {
		if s.TeamID == teamID {
			return s, true
		}
	}
	return models.TeamStanding{}, false
}
