package models

// Stage tags which part of the competition a match belongs to.
type Stage string

const (
	StageQualifier     Stage = "qualifier"
	StageWorldCupGroup Stage = "world_cup_group"
	StageKnockout      Stage = "knockout"
)

// Match is a single fixture. Scores are nil until the match is played,
// and a played match is never replayed.
type Match struct {
	ID         string `json:"id" db:"id"`
	HomeTeamID string `json:"home_team_id" db:"home_team_id"`
	AwayTeamID string `json:"away_team_id" db:"away_team_id"`
	HomeScore  *int   `json:"home_score" db:"home_score"`
	AwayScore  *int   `json:"away_score" db:"away_score"`
	Played     bool   `json:"played" db:"played"`
	Stage      Stage  `json:"stage" db:"stage"`
	Matchday   int    `json:"matchday,omitempty" db:"matchday"`
}

// HasResult is true when the match is played and both scores are present.
func (m Match) HasResult() bool {
	return m.Played && m.HomeScore != nil && m.AwayScore != nil
}

// IntPtr is a small helper for building scores.
func IntPtr(v int) *int {
	return &v
}
