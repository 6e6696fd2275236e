package brackets

import (
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGroupsWorldCupShape(t *testing.T) {
	teams := testTeams(64)
	groups, err := GenerateGroups(DrawParams{
		Teams:           teams,
		GroupCount:      16,
		Stage:           models.StageWorldCupGroup,
		AvoidSameRegion: true,
		Random:          NewRandomSource(7),
	})
	require.NoError(t, err)
	require.Len(t, groups, 16)

	potOf := make(map[string]int, len(teams))
	for i, team := range teams {
		potOf[team.ID] = i / 16
	}

	seen := make(map[string]bool)
	for i, g := range groups {
		assert.Equal(t, "Group "+groupLetters(i), g.Name)
		assert.Equal(t, models.StageWorldCupGroup, g.Stage)
		assert.True(t, g.DrawComplete)
		require.Len(t, g.TeamIDs, 4)
		require.Len(t, g.PotLetters, 4)
		require.Len(t, g.Standings, 4)

		letters := make(map[models.PotLetter]bool)
		for pot, id := range g.TeamIDs {
			assert.False(t, seen[id], "team %s drawn twice", id)
			seen[id] = true
			assert.Equal(t, pot, potOf[id], "team %s drawn from the wrong pot", id)
			assert.Equal(t, models.PotLetterFor(pot), g.PotLetters[id])
			letters[g.PotLetters[id]] = true
		}
		assert.Equal(t, map[models.PotLetter]bool{"A": true, "B": true, "C": true, "D": true}, letters)
	}
	assert.Len(t, seen, 64)
}

func TestGenerateGroupsDeterministicForSeed(t *testing.T) {
	draw := func(seed uint64) [][]string {
		groups, err := GenerateGroups(DrawParams{
			Teams:      testTeams(64),
			GroupCount: 16,
			Stage:      models.StageWorldCupGroup,
			Random:     NewRandomSource(seed),
		})
		require.NoError(t, err)
		out := make([][]string, len(groups))
		for i, g := range groups {
			out[i] = g.TeamIDs
		}
		return out
	}

	assert.Equal(t, draw(42), draw(42))
	assert.NotEqual(t, draw(42), draw(43))
}

func TestGenerateGroupsSnakeDraftsTopPot(t *testing.T) {
	// With a single group per pot the shuffle is a no-op, so the snake order is observable.
	teams := testTeams(5)
	groups, err := GenerateGroups(DrawParams{
		Teams:      teams,
		GroupCount: 1,
		Stage:      models.StageQualifier,
		Region:     models.RegionSouthAmerica,
		Random:     NewRandomSource(1),
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "South America Group 1", groups[0].Name)
	assert.Equal(t, models.RegionSouthAmerica, groups[0].Region)
	assert.Equal(t, []string{"T000", "T001", "T002", "T003", "T004"}, groups[0].TeamIDs)
}

func TestGenerateGroupsRejectsBadInput(t *testing.T) {
	dup := testTeams(8)
	dup[7].ID = dup[0].ID

	tests := []struct {
		name   string
		params DrawParams
		want   error
	}{
		{"zero groups", DrawParams{Teams: testTeams(8), GroupCount: 0}, ErrInvalidGroupCount},
		{"no teams", DrawParams{GroupCount: 2}, ErrInvalidTeamCount},
		{"not a multiple", DrawParams{Teams: testTeams(63), GroupCount: 16}, ErrInvalidTeamCount},
		{"no template", DrawParams{Teams: testTeams(48), GroupCount: 16}, ErrInvalidGroupSize},
		{"duplicate team", DrawParams{Teams: dup, GroupCount: 2}, ErrDuplicateTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateGroups(tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSnakeOrder(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, snakeOrder(4, 0))
	assert.Equal(t, []int{3, 2, 1, 0}, snakeOrder(4, 1))
	assert.Equal(t, []int{0, 1, 2, 3}, snakeOrder(4, 2))
}

func TestAvoidRegionConflictsSwapsWithNeighbour(t *testing.T) {
	members := [][]models.Team{
		{{ID: "E1", Region: models.RegionEurope}},
		{{ID: "A1", Region: models.RegionAfrica}},
	}
	drawn := []models.Team{
		{ID: "E2", Region: models.RegionEurope},
		{ID: "A2", Region: models.RegionAfrica},
	}
	avoidRegionConflicts(drawn, []int{0, 1}, members)
	assert.Equal(t, "A2", drawn[0].ID)
	assert.Equal(t, "E2", drawn[1].ID)
}

func TestAvoidRegionConflictsSearchesWholePot(t *testing.T) {
	members := [][]models.Team{
		{{ID: "E1", Region: models.RegionEurope}},
		{{ID: "F1", Region: models.RegionAfrica}},
		{{ID: "S1", Region: models.RegionAsia}},
	}
	drawn := []models.Team{
		{ID: "E2", Region: models.RegionEurope},
		{ID: "E3", Region: models.RegionEurope},
		{ID: "F2", Region: models.RegionAfrica},
	}
	avoidRegionConflicts(drawn, []int{0, 1, 2}, members)
	assert.Equal(t, []string{"F2", "E3", "E2"}, []string{drawn[0].ID, drawn[1].ID, drawn[2].ID})
}

func TestGroupLetters(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"}, {15, "P"}, {25, "Z"}, {26, "AA"}, {27, "AB"}, {51, "AZ"}, {52, "BA"}, {701, "ZZ"}, {702, "AAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupLetters(tt.index), "index %d", tt.index)
	}
}

func TestGenerateGroupsNamesBeyondTwentySixGroups(t *testing.T) {
	groups, err := GenerateGroups(DrawParams{
		Teams:      testTeams(4 * 30),
		GroupCount: 30,
		Stage:      models.StageWorldCupGroup,
		Random:     NewRandomSource(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Group Z", groups[25].Name)
	assert.Equal(t, "Group AA", groups[26].Name)
	assert.Equal(t, "Group AD", groups[29].Name)
}

func TestAvoidRegionConflictsToleratesUnavoidable(t *testing.T) {
	members := [][]models.Team{
		{{ID: "E1", Region: models.RegionEurope}},
		{{ID: "E2", Region: models.RegionEurope}},
	}
	drawn := []models.Team{
		{ID: "E3", Region: models.RegionEurope},
		{ID: "E4", Region: models.RegionEurope},
	}
	avoidRegionConflicts(drawn, []int{0, 1}, members)
	assert.Equal(t, "E3", drawn[0].ID)
	assert.Equal(t, "E4", drawn[1].ID)
}
