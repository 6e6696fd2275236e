package models

// TeamStanding is a per-team accumulator inside one group. It is treated as a value:
// updates replace the whole entry.
type TeamStanding struct {
	TeamID         string `json:"team_id" db:"team_id"`
	Played         int    `json:"played" db:"played"`
	Won            int    `json:"won" db:"won"`
	Drawn          int    `json:"drawn" db:"drawn"`
	Lost           int    `json:"lost" db:"lost"`
	GoalsFor       int    `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int    `json:"goals_against" db:"goals_against"`
	GoalDifference int    `json:"goal_difference" db:"goal_difference"`
	Points         int    `json:"points" db:"points"`
}
