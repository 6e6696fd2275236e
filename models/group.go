package models

const (
	QualifierGroupSize = 5
	WorldCupGroupSize  = 4
)

// PotLetter is the symbolic slot a team occupies inside its group.
type PotLetter string

// PotLetterFor returns the letter of the zero-based pot index (0 -> "A").
func PotLetterFor(pot int) PotLetter {
	return PotLetter(rune('A' + pot))
}

type Group struct {
	ID           string               `json:"id" db:"id"`
	Name         string               `json:"name" db:"name"`
	Region       Region               `json:"region,omitempty" db:"region"`
	Stage        Stage                `json:"stage" db:"stage"`
	TeamIDs      []string             `json:"team_ids" db:"team_ids"`
	Matches      []Match              `json:"matches" db:"-"`
	Standings    []TeamStanding       `json:"standings" db:"-"`
	PotLetters   map[string]PotLetter `json:"pot_letters,omitempty" db:"-"`
	DrawComplete bool                 `json:"draw_complete" db:"draw_complete"`
}

// AllMatchesPlayed reports whether the group has fixtures and every one of them is played.
func (g Group) AllMatchesPlayed() bool {
	if len(g.Matches) == 0 {
		return false
	}
	for _, m := range g.Matches {
		if !m.Played {
			return false
		}
	}
	return true
}

func (g Group) HasAnyMatchPlayed() bool {
	for _, m := range g.Matches {
		if m.Played {
			return true
		}
	}
	return false
}

// MatchIndex returns the index of the match with the given id or -1.
func (g Group) MatchIndex(matchID string) int {
	for i, m := range g.Matches {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}
