// Package catalog ships the default national-team catalog used to seed the team store
// and offline simulations.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
)

//go:embed teams.json
var teamsJSON []byte

// Default returns a fresh copy of the embedded catalog.
func Default() []models.Team {
	teams, err := Parse(teamsJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded teams.json is invalid: %v", err))
	}
	return teams
}

// Parse decodes and validates a team catalog.
func Parse(data []byte) ([]models.Team, error) {
	var teams []models.Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode team catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("team entry %+v is missing id or name", t)
		}
		if !t.Region.Valid() {
			return nil, fmt.Errorf("team %s has unknown region %q", t.ID, t.Region)
		}
		if t.Skill < models.MinSkill || t.Skill > models.MaxSkill {
			return nil, fmt.Errorf("team %s skill %.1f outside [%.0f, %.0f]", t.ID, t.Skill, models.MinSkill, models.MaxSkill)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("team %s appears twice", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return teams, nil
}

// ByRegion groups teams by region, preserving catalog order.
func ByRegion(teams []models.Team) map[models.Region][]models.Team {
	out := make(map[models.Region][]models.Team)
	for _, t := range teams {
		out[t.Region] = append(out[t.Region], t)
	}
	return out
}
