package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/cup-simulator/models"
)

// TopN returns the first n team ids of every group's sorted standings, group by group.
func TopN(groups []models.Group, n int, names map[string]string) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top %d", ErrNegativeSelection, n)
	}
	ids := make([]string, 0, len(groups)*n)
	for _, g := range groups {
		sorted := SortStandings(g.Standings, names)
		if len(sorted) < n {
			return nil, fmt.Errorf("%w: %s has %d teams, need %d", ErrGroupTooSmall, g.Name, len(sorted), n)
		}
		for _, s := range sorted[:n] {
			ids = append(ids, s.TeamID)
		}
	}
	return ids, nil
}

// BestAtPosition ranks the team placed at the zero-based position of every group
// against each other with the standings tie-break and returns the best k.
func BestAtPosition(groups []models.Group, position, k int, names map[string]string) ([]models.TeamStanding, error) {
	if k < 0 || position < 0 {
		return nil, fmt.Errorf("%w: best %d at position %d", ErrNegativeSelection, k, position)
	}
	if k == 0 {
		return []models.TeamStanding{}, nil
	}
	if k > len(groups) {
		return nil, fmt.Errorf("%w: %d requested from %d groups", ErrNotEnoughGroups, k, len(groups))
	}
	candidates := make([]models.TeamStanding, 0, len(groups))
	for _, g := range groups {
		sorted := SortStandings(g.Standings, names)
		if len(sorted) <= position {
			return nil, fmt.Errorf("%w: %s has %d teams", ErrGroupTooSmall, g.Name, len(sorted))
		}
		candidates = append(candidates, sorted[position])
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return CompareStandings(candidates[i], candidates[j], names) < 0
	})
	return candidates[:k], nil
}

// SelectQualifiers returns the top n of every group followed by the best k teams
// placed directly below them, in rank order. The result size is always
// len(groups)*topN + k or an error.
func SelectQualifiers(groups []models.Group, topN, bestRunnerUpCount int, names map[string]string) ([]string, error) {
	ids, err := TopN(groups, topN, names)
	if err != nil {
		return nil, err
	}
	extra, err := BestAtPosition(groups, topN, bestRunnerUpCount, names)
	if err != nil {
		return nil, err
	}
	for _, s := range extra {
		ids = append(ids, s.TeamID)
	}

	expected := len(groups)*topN + bestRunnerUpCount
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(ids) != expected || len(unique) != expected {
		return nil, fmt.Errorf("%w: %d unique teams selected, expected %d", ErrQualifierCountMismatch, len(unique), expected)
	}
	return ids, nil
}
