package brackets

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/google/uuid"
)

// RandomSource is the only source of randomness for draws and simulations.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
	Float64() float64
}

// NewRandomSource returns a seeded PCG generator so draws are reproducible.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type DrawParams struct {
	Teams      []models.Team
	GroupCount int
	Stage      models.Stage
	// Region is recorded on qualifier groups.
	Region models.Region
	// AvoidSameRegion enables the regional-diversity swap. Pointless for single-region qualifiers.
	AvoidSameRegion bool
	Random          RandomSource
}

// GenerateGroups seeds teams into pots by skill and snake-drafts each shuffled pot into groups.
// Pot k becomes pot letter k in every group, so letters are a bijection with group members.
func GenerateGroups(params DrawParams) ([]models.Group, error) {
	n := params.GroupCount
	if n <= 0 {
		return nil, ErrInvalidGroupCount
	}
	if len(params.Teams) == 0 || len(params.Teams)%n != 0 {
		return nil, fmt.Errorf("%w: %d teams for %d groups", ErrInvalidTeamCount, len(params.Teams), n)
	}
	size := len(params.Teams) / n
	if _, ok := TemplateForGroupSize(size); !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGroupSize, size)
	}
	seen := make(map[string]struct{}, len(params.Teams))
	for _, t := range params.Teams {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	rng := params.Random
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ranked := make([]models.Team, len(params.Teams))
	copy(ranked, params.Teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Skill != ranked[j].Skill {
			return ranked[i].Skill > ranked[j].Skill
		}
		return ranked[i].ID < ranked[j].ID
	})

	members := make([][]models.Team, n)
	for pot := 0; pot < size; pot++ {
		drawn := make([]models.Team, n)
		copy(drawn, ranked[pot*n:(pot+1)*n])
		rng.Shuffle(len(drawn), func(i, j int) { drawn[i], drawn[j] = drawn[j], drawn[i] })

		order := snakeOrder(n, pot)
		if params.AvoidSameRegion {
			avoidRegionConflicts(drawn, order, members)
		}
		for i, team := range drawn {
			members[order[i]] = append(members[order[i]], team)
		}
	}

	groups := make([]models.Group, n)
	for i, teams := range members {
		ids := make([]string, len(teams))
		letters := make(map[string]models.PotLetter, len(teams))
		for pot, team := range teams {
			ids[pot] = team.ID
			letters[team.ID] = models.PotLetterFor(pot)
		}
		groups[i] = models.Group{
			ID:           uuid.NewString(),
			Name:         groupName(params.Stage, params.Region, i),
			Region:       params.Region,
			Stage:        params.Stage,
			TeamIDs:      ids,
			Matches:      []models.Match{},
			Standings:    InitializeStandings(ids),
			PotLetters:   letters,
			DrawComplete: true,
		}
	}
	return groups, nil
}

// snakeOrder is ascending group order for even pots and descending for odd ones.
func snakeOrder(groupCount, pot int) []int {
	order := make([]int, groupCount)
	for i := range order {
		if pot%2 == 0 {
			order[i] = i
		} else {
			order[i] = groupCount - 1 - i
		}
	}
	return order
}

// avoidRegionConflicts moves a team that would join a group already holding its region
// by swapping it with any other team of the same pot, provided neither lands in a group
// of its own region. Earlier slots stay conflict-free, so each swap only removes clashes.
// Remaining conflicts are tolerated.
func avoidRegionConflicts(drawn []models.Team, order []int, members [][]models.Team) {
	fits := func(team models.Team, slot int) bool {
		return !hasRegion(members[order[slot]], team.Region)
	}
	for i := range drawn {
		if fits(drawn[i], i) {
			continue
		}
		for k := 1; k < len(drawn); k++ {
			j := (i + k) % len(drawn)
			if fits(drawn[i], j) && fits(drawn[j], i) {
				drawn[i], drawn[j] = drawn[j], drawn[i]
				break
			}
		}
	}
}

func hasRegion(teams []models.Team, region models.Region) bool {
	for _, t := range teams {
		if t.Region == region {
			return true
		}
	}
	return false
}

func groupName(stage models.Stage, region models.Region, index int) string {
	if stage == models.StageQualifier && region != "" {
		return fmt.Sprintf("%s Group %d", regionTitle(region), index+1)
	}
	return "Group " + groupLetters(index)
}

// groupLetters names groups A..Z, then AA, AB and so on, like spreadsheet columns.
func groupLetters(index int) string {
	var letters []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}

func regionTitle(region models.Region) string {
	words := strings.Split(string(region), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
