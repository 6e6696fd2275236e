package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openingBracket(t *testing.T, groupCount int) models.KnockoutBracket {
	t.Helper()
	gen, err := GeneratorForGroupCount(groupCount)
	require.NoError(t, err)
	bracket, err := gen.GenerateBracket(GenerateBracketParams{Groups: rankedGroups(groupCount, 4)})
	require.NoError(t, err)
	return bracket
}

// playRound resolves every pending match with a home win.
func playRound(t *testing.T, b models.KnockoutBracket) models.KnockoutBracket {
	t.Helper()
	for _, m := range PendingMatches(b) {
		var err error
		b, _, err = ApplyKnockoutResult(b, m.ID, 1, 0, nil)
		require.NoError(t, err)
	}
	return b
}

func groupOf(teamID string) string {
	return teamID[:3]
}

func TestRoundOf32Pairings(t *testing.T) {
	b := openingBracket(t, 16)
	require.Len(t, b.RoundOf32, 16)
	assert.Empty(t, b.RoundOf16)

	half := make(map[string]map[int]bool)
	for pos, m := range b.RoundOf32 {
		require.NotNil(t, m.Position)
		assert.Equal(t, pos, *m.Position)
		assert.Equal(t, models.RoundOf32, m.Round)
		assert.Equal(t, fmt.Sprintf("g%02d-t0", pos), m.HomeTeamID)
		assert.Equal(t, "t1", m.AwayTeamID[4:])
		assert.NotEqual(t, groupOf(m.HomeTeamID), groupOf(m.AwayTeamID))

		for _, id := range []string{m.HomeTeamID, m.AwayTeamID} {
			g := groupOf(id)
			if half[g] == nil {
				half[g] = make(map[int]bool)
			}
			half[g][pos%2] = true
		}
	}
	// A group's two qualifiers land on opposite halves and can only meet in the final.
	for g, halves := range half {
		assert.Len(t, halves, 2, "group %s", g)
	}
}

func TestGeneratorForGroupCount(t *testing.T) {
	gen, err := GeneratorForGroupCount(8)
	require.NoError(t, err)
	assert.Equal(t, "RoundOf16", gen.GetName())

	b := openingBracket(t, 8)
	assert.Empty(t, b.RoundOf32)
	assert.Len(t, b.RoundOf16, 8)

	_, err = GeneratorForGroupCount(12)
	assert.ErrorIs(t, err, ErrUnsupportedBracketSize)

	_, err = NewRoundOf32Generator().GenerateBracket(GenerateBracketParams{Groups: rankedGroups(8, 4)})
	assert.ErrorIs(t, err, ErrUnsupportedBracketSize)
}

func TestKnockoutAdvancesToPodium(t *testing.T) {
	b := openingBracket(t, 16)

	sizes := []int{8, 4, 2}
	for _, size := range sizes {
		b = playRound(t, b)
		var ok bool
		b, ok = BuildNextKnockoutRound(b)
		require.True(t, ok)
		assert.Len(t, PendingMatches(b), size)
	}
	require.Len(t, b.SemiFinals, 2)
	assert.Equal(t, models.SemiFinal, b.SemiFinals[0].Round)

	b = playRound(t, b)
	b, ok := BuildNextKnockoutRound(b)
	require.True(t, ok)
	require.NotNil(t, b.Final)
	require.NotNil(t, b.ThirdPlace)

	pending := PendingMatches(b)
	require.Len(t, pending, 2)
	assert.Equal(t, models.ThirdPlace, pending[0].Round)
	assert.Equal(t, models.Final, pending[1].Round)

	_, ok = PodiumFor(b)
	assert.False(t, ok)

	b = playRound(t, b)
	podium, ok := PodiumFor(b)
	require.True(t, ok)
	assert.Equal(t, Podium{
		ChampionID:    "g00-t0",
		RunnerUpID:    "g01-t0",
		ThirdPlaceID:  "g02-t0",
		FourthPlaceID: "g03-t0",
	}, podium)

	_, ok = BuildNextKnockoutRound(b)
	assert.False(t, ok)
	assert.Empty(t, PendingMatches(b))
	assert.Len(t, b.AllMatches(), 32)
}

func TestQuarterFinalPairing(t *testing.T) {
	b := openingBracket(t, 16)
	for i := 0; i < 2; i++ {
		b = playRound(t, b)
		b, _ = BuildNextKnockoutRound(b)
	}
	require.Len(t, b.QuarterFinals, 4)
	want := [][2]int{{0, 4}, {2, 6}, {1, 5}, {3, 7}}
	for i, p := range want {
		assert.Equal(t, b.RoundOf16[p[0]].HomeTeamID, b.QuarterFinals[i].HomeTeamID)
		assert.Equal(t, b.RoundOf16[p[1]].HomeTeamID, b.QuarterFinals[i].AwayTeamID)
	}
}

func TestPartialRoundDoesNotAdvance(t *testing.T) {
	b := openingBracket(t, 16)
	b, _, err := ApplyKnockoutResult(b, b.RoundOf32[0].ID, 2, 1, nil)
	require.NoError(t, err)

	next, ok := BuildNextKnockoutRound(b)
	assert.False(t, ok)
	assert.Empty(t, next.RoundOf16)
	assert.Len(t, PendingMatches(b), 15)
}

func TestResolveKnockoutMatch(t *testing.T) {
	match := newKnockoutMatch(models.QuarterFinal, 0, "home", "away")

	tests := []struct {
		name       string
		home, away int
		penalties  *models.PenaltyScore
		wantWinner string
		wantPens   bool
		wantErr    error
	}{
		{name: "home wins", home: 2, away: 0, wantWinner: "home"},
		{name: "away wins", home: 0, away: 1, wantWinner: "away"},
		{name: "penalties ignored when decided", home: 3, away: 1, penalties: &models.PenaltyScore{Home: 1, Away: 4}, wantWinner: "home"},
		{name: "shoot-out", home: 1, away: 1, penalties: &models.PenaltyScore{Home: 3, Away: 5}, wantWinner: "away", wantPens: true},
		{name: "level without shoot-out", home: 2, away: 2, wantErr: ErrUnresolvedWinner},
		{name: "level shoot-out", home: 0, away: 0, penalties: &models.PenaltyScore{Home: 4, Away: 4}, wantErr: ErrUnresolvedWinner},
		{name: "negative penalties", home: 0, away: 0, penalties: &models.PenaltyScore{Home: -1, Away: 4}, wantErr: ErrNegativeScore},
		{name: "negative score", home: -1, away: 0, wantErr: ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveKnockoutMatch(match, tt.home, tt.away, tt.penalties)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got.Played)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Resolved())
			assert.Equal(t, tt.wantWinner, *got.WinnerID)
			assert.NotEqual(t, *got.WinnerID, *got.LoserID)
			assert.Equal(t, tt.wantPens, got.Penalties != nil)
		})
	}

	played, err := ResolveKnockoutMatch(match, 1, 0, nil)
	require.NoError(t, err)
	_, err = ResolveKnockoutMatch(played, 2, 0, nil)
	assert.ErrorIs(t, err, ErrMatchAlreadyPlayed)
}

func TestApplyKnockoutResultUnknownMatch(t *testing.T) {
	b := openingBracket(t, 16)
	out, _, err := ApplyKnockoutResult(b, "nope", 1, 0, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, b, out)

	_, ok := FindKnockoutMatch(b, b.RoundOf32[3].ID)
	assert.True(t, ok)
}
