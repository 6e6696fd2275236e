package models

import "time"

// TournamentStatus is the stage the tournament state machine is in.
type TournamentStatus string

const (
	StatusQualifiersInProgress     TournamentStatus = "qualifiers_in_progress"
	StatusQualifiersComplete       TournamentStatus = "qualifiers_complete"
	StatusWorldCupGroupsInProgress TournamentStatus = "world_cup_groups_in_progress"
	StatusWorldCupGroupsComplete   TournamentStatus = "world_cup_groups_complete"
	StatusKnockoutInProgress       TournamentStatus = "knockout_in_progress"
	StatusChampionDecided          TournamentStatus = "champion_decided"
)

// WorldCup is the final-tournament part of the aggregate.
type WorldCup struct {
	Groups           []Group            `json:"groups"`
	Bracket          KnockoutBracket    `json:"bracket"`
	QualifiedTeamIDs []string           `json:"qualified_team_ids"`
	SkillSnapshot    map[string]float64 `json:"skill_snapshot,omitempty"`
	GroupsComplete   bool               `json:"groups_complete"`
	ChampionID       *string            `json:"champion_id,omitempty"`
	RunnerUpID       *string            `json:"runner_up_id,omitempty"`
	ThirdPlaceID     *string            `json:"third_place_id,omitempty"`
	FourthPlaceID    *string            `json:"fourth_place_id,omitempty"`
}

// Tournament is the aggregate root passed explicitly through the engine.
type Tournament struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Status             TournamentStatus   `json:"status"`
	Teams              map[string]Team    `json:"teams"`
	QualifierGroups    []Group            `json:"qualifier_groups"`
	QualifiersComplete bool               `json:"qualifiers_complete"`
	WorldCup           *WorldCup          `json:"world_cup,omitempty"`
	SkillSnapshot      map[string]float64 `json:"skill_snapshot"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// TeamNames indexes display names by team id, used for the final standings tie-break.
func (t *Tournament) TeamNames() map[string]string {
	names := make(map[string]string, len(t.Teams))
	for id, team := range t.Teams {
		names[id] = team.Name
	}
	return names
}

// QualifierGroupsByRegion returns the qualifier groups of one region in draw order.
func (t *Tournament) QualifierGroupsByRegion(region Region) []Group {
	groups := make([]Group, 0)
	for _, g := range t.QualifierGroups {
		if g.Region == region {
			groups = append(groups, g)
		}
	}
	return groups
}
