package brackets

import (
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/google/uuid"
)

// GroupSlot pairs the winner of one group with the runner-up of another.
type GroupSlot struct {
	WinnerGroup   int
	RunnerUpGroup int
}

// RoundOf32Pairings maps 16 groups onto bracket positions 0-15. Even positions feed the
// first semifinal and odd positions the second, so a group's winner and runner-up
// cannot meet before the semifinals.
var RoundOf32Pairings = []GroupSlot{
	{0, 1}, {1, 0}, {2, 3}, {3, 2},
	{4, 5}, {5, 4}, {6, 7}, {7, 6},
	{8, 9}, {9, 8}, {10, 11}, {11, 10},
	{12, 13}, {13, 12}, {14, 15}, {15, 14},
}

// RoundOf16Pairings is the eight-group variant that opens directly at the round of 16.
var RoundOf16Pairings = []GroupSlot{
	{0, 1}, {1, 0}, {2, 3}, {3, 2},
	{4, 5}, {5, 4}, {6, 7}, {7, 6},
}

// Position pairs of the previous round whose winners meet in the next one.
var (
	roundOf16FromRoundOf32 = [][2]int{{0, 8}, {1, 9}, {2, 10}, {3, 11}, {4, 12}, {5, 13}, {6, 14}, {7, 15}}
	quarterFinalPairs      = [][2]int{{0, 4}, {2, 6}, {1, 5}, {3, 7}}
	semiFinalPairs         = [][2]int{{0, 1}, {2, 3}}
)

func newKnockoutMatch(round models.Round, position int, homeID, awayID string) models.KnockoutMatch {
	return models.KnockoutMatch{
		Match: models.Match{
			ID:         uuid.NewString(),
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			Stage:      models.StageKnockout,
		},
		Round:    round,
		Position: models.IntPtr(position),
	}
}

// buildFromGroups pairs group winners and runners-up through the slot table.
func buildFromGroups(groups []models.Group, names map[string]string, slots []GroupSlot, round models.Round) ([]models.KnockoutMatch, error) {
	if len(groups) != len(slots) {
		return nil, fmt.Errorf("%w: got %d groups", ErrUnsupportedBracketSize, len(groups))
	}
	winners := make([]string, len(groups))
	runnersUp := make([]string, len(groups))
	for i, g := range groups {
		sorted := SortStandings(g.Standings, names)
		if len(sorted) < 2 {
			return nil, fmt.Errorf("%w: %s", ErrGroupTooSmall, g.Name)
		}
		winners[i] = sorted[0].TeamID
		runnersUp[i] = sorted[1].TeamID
	}
	matches := make([]models.KnockoutMatch, len(slots))
	for pos, slot := range slots {
		matches[pos] = newKnockoutMatch(round, pos, winners[slot.WinnerGroup], runnersUp[slot.RunnerUpGroup])
	}
	return matches, nil
}

// BuildNextKnockoutRound generates the round after the latest one when every match in it
// is resolved. It reports false and returns the bracket unchanged otherwise; a partial
// round is never produced.
func BuildNextKnockoutRound(bracket models.KnockoutBracket) (models.KnockoutBracket, bool) {
	out := cloneBracket(bracket)
	switch {
	case out.Final != nil:
		return out, false
	case len(out.SemiFinals) > 0:
		semis, ok := resolvedByPosition(out.SemiFinals, 2)
		if !ok {
			return out, false
		}
		third := newKnockoutMatch(models.ThirdPlace, 0, *semis[0].LoserID, *semis[1].LoserID)
		final := newKnockoutMatch(models.Final, 0, *semis[0].WinnerID, *semis[1].WinnerID)
		out.ThirdPlace = &third
		out.Final = &final
		return out, true
	case len(out.QuarterFinals) > 0:
		next, ok := pairWinners(out.QuarterFinals, 4, semiFinalPairs, models.SemiFinal)
		if !ok {
			return out, false
		}
		out.SemiFinals = next
		return out, true
	case len(out.RoundOf16) > 0:
		next, ok := pairWinners(out.RoundOf16, 8, quarterFinalPairs, models.QuarterFinal)
		if !ok {
			return out, false
		}
		out.QuarterFinals = next
		return out, true
	case len(out.RoundOf32) > 0:
		next, ok := pairWinners(out.RoundOf32, 16, roundOf16FromRoundOf32, models.RoundOf16)
		if !ok {
			return out, false
		}
		out.RoundOf16 = next
		return out, true
	}
	return out, false
}

func pairWinners(round []models.KnockoutMatch, size int, pairs [][2]int, next models.Round) ([]models.KnockoutMatch, bool) {
	byPos, ok := resolvedByPosition(round, size)
	if !ok {
		return nil, false
	}
	matches := make([]models.KnockoutMatch, len(pairs))
	for i, p := range pairs {
		matches[i] = newKnockoutMatch(next, i, *byPos[p[0]].WinnerID, *byPos[p[1]].WinnerID)
	}
	return matches, true
}

// resolvedByPosition indexes a round by bracket position. It fails if the round is
// incomplete, has gaps, or holds an unresolved match.
func resolvedByPosition(round []models.KnockoutMatch, size int) ([]models.KnockoutMatch, bool) {
	if len(round) != size {
		return nil, false
	}
	byPos := make([]models.KnockoutMatch, size)
	filled := make([]bool, size)
	for _, m := range round {
		if !m.Resolved() || m.Position == nil {
			return nil, false
		}
		pos := *m.Position
		if pos < 0 || pos >= size || filled[pos] {
			return nil, false
		}
		byPos[pos] = m
		filled[pos] = true
	}
	return byPos, true
}

// ResolveKnockoutMatch records normal-time scores and, for level scores, the shoot-out.
// Penalties are dropped when normal time already decides the match.
func ResolveKnockoutMatch(match models.KnockoutMatch, homeScore, awayScore int, penalties *models.PenaltyScore) (models.KnockoutMatch, error) {
	if match.Played {
		return match, fmt.Errorf("%w: %s", ErrMatchAlreadyPlayed, match.ID)
	}
	if homeScore < 0 || awayScore < 0 {
		return match, fmt.Errorf("%w: %d-%d", ErrNegativeScore, homeScore, awayScore)
	}

	homeWins := homeScore > awayScore
	if homeScore == awayScore {
		if penalties == nil {
			return match, fmt.Errorf("%w: %s ended %d-%d", ErrUnresolvedWinner, match.ID, homeScore, awayScore)
		}
		if penalties.Home < 0 || penalties.Away < 0 {
			return match, fmt.Errorf("%w: penalties %d-%d", ErrNegativeScore, penalties.Home, penalties.Away)
		}
		if penalties.Home == penalties.Away {
			return match, fmt.Errorf("%w: penalties %d-%d", ErrUnresolvedWinner, penalties.Home, penalties.Away)
		}
		homeWins = penalties.Home > penalties.Away
		match.Penalties = &models.PenaltyScore{Home: penalties.Home, Away: penalties.Away}
	} else {
		match.Penalties = nil
	}

	match.HomeScore = models.IntPtr(homeScore)
	match.AwayScore = models.IntPtr(awayScore)
	match.Played = true
	winner, loser := match.HomeTeamID, match.AwayTeamID
	if !homeWins {
		winner, loser = loser, winner
	}
	match.WinnerID = &winner
	match.LoserID = &loser
	return match, nil
}

// ApplyKnockoutResult resolves a match anywhere in the bracket and returns the updated bracket.
func ApplyKnockoutResult(bracket models.KnockoutBracket, matchID string, homeScore, awayScore int, penalties *models.PenaltyScore) (models.KnockoutBracket, models.KnockoutMatch, error) {
	out := cloneBracket(bracket)
	target := findKnockoutMatch(&out, matchID)
	if target == nil {
		return bracket, models.KnockoutMatch{}, fmt.Errorf("%w: knockout match %s", ErrMatchNotFound, matchID)
	}
	resolved, err := ResolveKnockoutMatch(*target, homeScore, awayScore, penalties)
	if err != nil {
		return bracket, models.KnockoutMatch{}, err
	}
	*target = resolved
	return out, resolved, nil
}

// FindKnockoutMatch returns a copy of the match with the given id.
func FindKnockoutMatch(bracket models.KnockoutBracket, matchID string) (models.KnockoutMatch, bool) {
	if m := findKnockoutMatch(&bracket, matchID); m != nil {
		return *m, true
	}
	return models.KnockoutMatch{}, false
}

func findKnockoutMatch(b *models.KnockoutBracket, matchID string) *models.KnockoutMatch {
	for _, round := range [][]models.KnockoutMatch{b.RoundOf32, b.RoundOf16, b.QuarterFinals, b.SemiFinals} {
		for i := range round {
			if round[i].ID == matchID {
				return &round[i]
			}
		}
	}
	if b.ThirdPlace != nil && b.ThirdPlace.ID == matchID {
		return b.ThirdPlace
	}
	if b.Final != nil && b.Final.ID == matchID {
		return b.Final
	}
	return nil
}

// PendingMatches returns the unplayed matches of the latest generated round.
// Once the final is generated that is the third-place match and the final.
func PendingMatches(bracket models.KnockoutBracket) []models.KnockoutMatch {
	var latest []models.KnockoutMatch
	switch {
	case bracket.Final != nil:
		latest = []models.KnockoutMatch{*bracket.ThirdPlace, *bracket.Final}
	case len(bracket.SemiFinals) > 0:
		latest = bracket.SemiFinals
	case len(bracket.QuarterFinals) > 0:
		latest = bracket.QuarterFinals
	case len(bracket.RoundOf16) > 0:
		latest = bracket.RoundOf16
	default:
		latest = bracket.RoundOf32
	}
	pending := make([]models.KnockoutMatch, 0, len(latest))
	for _, m := range latest {
		if !m.Played {
			pending = append(pending, m)
		}
	}
	return pending
}

// Podium is derived from the final and the third-place match.
type Podium struct {
	ChampionID    string
	RunnerUpID    string
	ThirdPlaceID  string
	FourthPlaceID string
}

// PodiumFor reports false until both the final and the third-place match are resolved.
func PodiumFor(bracket models.KnockoutBracket) (Podium, bool) {
	if bracket.Final == nil || bracket.ThirdPlace == nil {
		return Podium{}, false
	}
	if !bracket.Final.Resolved() || !bracket.ThirdPlace.Resolved() {
		return Podium{}, false
	}
	return Podium{
		ChampionID:    *bracket.Final.WinnerID,
		RunnerUpID:    *bracket.Final.LoserID,
		ThirdPlaceID:  *bracket.ThirdPlace.WinnerID,
		FourthPlaceID: *bracket.ThirdPlace.LoserID,
	}, true
}

func cloneBracket(b models.KnockoutBracket) models.KnockoutBracket {
	out := models.KnockoutBracket{
		RoundOf32:     cloneKnockoutRound(b.RoundOf32),
		RoundOf16:     cloneKnockoutRound(b.RoundOf16),
		QuarterFinals: cloneKnockoutRound(b.QuarterFinals),
		SemiFinals:    cloneKnockoutRound(b.SemiFinals),
	}
	if b.ThirdPlace != nil {
		m := cloneKnockoutMatch(*b.ThirdPlace)
		out.ThirdPlace = &m
	}
	if b.Final != nil {
		m := cloneKnockoutMatch(*b.Final)
		out.Final = &m
	}
	return out
}

func cloneKnockoutRound(round []models.KnockoutMatch) []models.KnockoutMatch {
	if round == nil {
		return nil
	}
	out := make([]models.KnockoutMatch, len(round))
	for i, m := range round {
		out[i] = cloneKnockoutMatch(m)
	}
	return out
}

func cloneKnockoutMatch(m models.KnockoutMatch) models.KnockoutMatch {
	m.Match = cloneMatch(m.Match)
	if m.Position != nil {
		m.Position = models.IntPtr(*m.Position)
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		m.WinnerID = &w
	}
	if m.LoserID != nil {
		l := *m.LoserID
		m.LoserID = &l
	}
	if m.Penalties != nil {
		p := *m.Penalties
		m.Penalties = &p
	}
	return m
}
