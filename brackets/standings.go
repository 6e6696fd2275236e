package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/cup-simulator/models"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// InitializeStandings returns one zeroed standing per team, in the given order.
func InitializeStandings(teamIDs []string) []models.TeamStanding {
	standings := make([]models.TeamStanding, len(teamIDs))
	for i, id := range teamIDs {
		standings[i] = models.TeamStanding{TeamID: id}
	}
	return standings
}

// ApplyResult returns a new standings slice with the match folded in.
// Unplayed matches and matches without both scores leave the standings unchanged.
// The caller must apply each match exactly once.
func ApplyResult(standings []models.TeamStanding, match models.Match) []models.TeamStanding {
	out := append([]models.TeamStanding(nil), standings...)
	if !match.HasResult() {
		return out
	}
	home, away := *match.HomeScore, *match.AwayScore

	for i, s := range out {
		switch s.TeamID {
		case match.HomeTeamID:
			out[i] = addResult(s, home, away)
		case match.AwayTeamID:
			out[i] = addResult(s, away, home)
		}
	}
	return out
}

func addResult(s models.TeamStanding, scored, conceded int) models.TeamStanding {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		s.Won++
		s.Points += pointsForWin
	case scored < conceded:
		s.Lost++
	default:
		s.Drawn++
		s.Points += pointsForDraw
	}
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	return s
}

// CompareStandings orders by points, goal difference, goals for (all descending),
// then display name and finally team id ascending. It returns a negative number
// when a ranks above b.
func CompareStandings(a, b models.TeamStanding, names map[string]string) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return b.GoalDifference - a.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return b.GoalsFor - a.GoalsFor
	}
	nameA, nameB := names[a.TeamID], names[b.TeamID]
	if nameA != nameB {
		if nameA < nameB {
			return -1
		}
		return 1
	}
	switch {
	case a.TeamID < b.TeamID:
		return -1
	case a.TeamID > b.TeamID:
		return 1
	}
	return 0
}

// SortStandings returns a sorted copy of the standings.
func SortStandings(standings []models.TeamStanding, names map[string]string) []models.TeamStanding {
	out := append([]models.TeamStanding(nil), standings...)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareStandings(out[i], out[j], names) < 0
	})
	return out
}

// ApplyMatchResult records a score for one of the group's matches and returns the updated group.
// The input group is not modified.
func ApplyMatchResult(group models.Group, matchID string, homeScore, awayScore int) (models.Group, error) {
	idx := group.MatchIndex(matchID)
	if idx < 0 {
		return group, fmt.Errorf("%w: %s in group %s", ErrMatchNotFound, matchID, group.Name)
	}
	if group.Matches[idx].Played {
		return group, fmt.Errorf("%w: %s", ErrMatchAlreadyPlayed, matchID)
	}
	if homeScore < 0 || awayScore < 0 {
		return group, fmt.Errorf("%w: %d-%d", ErrNegativeScore, homeScore, awayScore)
	}

	out := cloneGroup(group)
	played := out.Matches[idx]
	played.HomeScore = models.IntPtr(homeScore)
	played.AwayScore = models.IntPtr(awayScore)
	played.Played = true
	out.Matches[idx] = played
	out.Standings = ApplyResult(out.Standings, played)
	return out, nil
}
