package brackets

import (
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMatchResultUpdatesBothTeams(t *testing.T) {
	g := fixtureGroup(t, models.StageWorldCupGroup, "a", "b", "c", "d")
	first := g.Matches[0]

	out, err := ApplyMatchResult(g, first.ID, 3, 1)
	require.NoError(t, err)

	home, ok := standingFor(out, first.HomeTeamID)
	require.True(t, ok)
	away, ok := standingFor(out, first.AwayTeamID)
	require.True(t, ok)

	assert.Equal(t, models.TeamStanding{TeamID: first.HomeTeamID, Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 3}, home)
	assert.Equal(t, models.TeamStanding{TeamID: first.AwayTeamID, Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2}, away)

	// The input group is left untouched.
	assert.False(t, g.Matches[0].Played)
	assert.Zero(t, g.Standings[0].Played)
}

func TestApplyMatchResultDraw(t *testing.T) {
	g := fixtureGroup(t, models.StageWorldCupGroup, "a", "b", "c", "d")
	out, err := ApplyMatchResult(g, g.Matches[0].ID, 2, 2)
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		s, _ := standingFor(out, id)
		assert.Equal(t, 1, s.Drawn)
		assert.Equal(t, 1, s.Points)
		assert.Zero(t, s.GoalDifference)
	}
}

func TestApplyMatchResultErrors(t *testing.T) {
	g := fixtureGroup(t, models.StageWorldCupGroup, "a", "b", "c", "d")
	id := g.Matches[0].ID

	_, err := ApplyMatchResult(g, "missing", 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = ApplyMatchResult(g, id, -1, 0)
	assert.ErrorIs(t, err, ErrNegativeScore)

	played, err := ApplyMatchResult(g, id, 1, 0)
	require.NoError(t, err)
	_, err = ApplyMatchResult(played, id, 0, 0)
	assert.ErrorIs(t, err, ErrMatchAlreadyPlayed)
}

func TestApplyResultIgnoresUnplayedMatch(t *testing.T) {
	standings := InitializeStandings([]string{"a", "b"})
	out := ApplyResult(standings, models.Match{HomeTeamID: "a", AwayTeamID: "b", HomeScore: models.IntPtr(1)})
	assert.Equal(t, standings, out)
}

func TestGroupTotalsBalance(t *testing.T) {
	g := fixtureGroup(t, models.StageQualifier, "a", "b", "c", "d", "e")
	g = playAll(t, g, func(m models.Match) (int, int) {
		return m.Matchday % 3, (m.Matchday + len(m.HomeTeamID)) % 2
	})

	var goalDiff, goalsFor, goalsAgainst, played int
	for _, s := range g.Standings {
		goalDiff += s.GoalDifference
		goalsFor += s.GoalsFor
		goalsAgainst += s.GoalsAgainst
		played += s.Played
		assert.Equal(t, s.Played, s.Won+s.Drawn+s.Lost)
		assert.Equal(t, 3*s.Won+s.Drawn, s.Points)
		assert.Equal(t, 8, s.Played)
	}
	assert.Zero(t, goalDiff)
	assert.Equal(t, goalsFor, goalsAgainst)
	assert.Equal(t, 40, played)
	assert.True(t, g.AllMatchesPlayed())
}

func TestSortStandingsTieBreaks(t *testing.T) {
	names := map[string]string{"a": "Zambia", "b": "Angola", "c": "Chad", "d": "Chad", "e": "Egypt"}
	standings := []models.TeamStanding{
		{TeamID: "a", Points: 4, GoalDifference: 1, GoalsFor: 3},
		{TeamID: "b", Points: 4, GoalDifference: 1, GoalsFor: 3},
		{TeamID: "d", Points: 4, GoalDifference: 1, GoalsFor: 3},
		{TeamID: "c", Points: 4, GoalDifference: 1, GoalsFor: 3},
		{TeamID: "e", Points: 4, GoalDifference: 1, GoalsFor: 5},
		{TeamID: "f", Points: 4, GoalDifference: 2, GoalsFor: 1},
		{TeamID: "g", Points: 6, GoalDifference: -3, GoalsFor: 0},
	}

	sorted := SortStandings(standings, names)

	order := make([]string, len(sorted))
	for i, s := range sorted {
		order[i] = s.TeamID
	}
	// points, then goal difference, then goals for, then name, then id
	assert.Equal(t, []string{"g", "f", "e", "b", "c", "d", "a"}, order)
	assert.Equal(t, "a", standings[0].TeamID, "input must not be reordered")
}

func TestCompareStandingsIsAntisymmetric(t *testing.T) {
	a := models.TeamStanding{TeamID: "a", Points: 3}
	b := models.TeamStanding{TeamID: "b", Points: 3}
	assert.Negative(t, CompareStandings(a, b, nil))
	assert.Positive(t, CompareStandings(b, a, nil))
	assert.Zero(t, CompareStandings(a, a, nil))
}
