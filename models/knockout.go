package models

// Round is one rung of the knockout ladder.
type Round string

const (
	RoundOf32    Round = "round_of_32"
	RoundOf16    Round = "round_of_16"
	QuarterFinal Round = "quarter_final"
	SemiFinal    Round = "semi_final"
	ThirdPlace   Round = "third_place"
	Final        Round = "final"
)

type PenaltyScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type KnockoutMatch struct {
	Match
	Round     Round         `json:"round" db:"round"`
	Position  *int          `json:"position,omitempty" db:"position"`
	WinnerID  *string       `json:"winner_id,omitempty" db:"winner_id"`
	LoserID   *string       `json:"loser_id,omitempty" db:"loser_id"`
	Penalties *PenaltyScore `json:"penalties,omitempty" db:"-"`
}

// Resolved reports whether the match has a decided winner.
func (m KnockoutMatch) Resolved() bool {
	return m.Played && m.WinnerID != nil && m.LoserID != nil
}

// KnockoutBracket holds the generated rounds. Rounds not yet generated are empty,
// third place and final stay nil until both semifinals are resolved.
type KnockoutBracket struct {
	RoundOf32     []KnockoutMatch `json:"round_of_32,omitempty"`
	RoundOf16     []KnockoutMatch `json:"round_of_16,omitempty"`
	QuarterFinals []KnockoutMatch `json:"quarter_finals,omitempty"`
	SemiFinals    []KnockoutMatch `json:"semi_finals,omitempty"`
	ThirdPlace    *KnockoutMatch  `json:"third_place,omitempty"`
	Final         *KnockoutMatch  `json:"final,omitempty"`
}

// AllMatches returns every generated match in ladder order.
func (b KnockoutBracket) AllMatches() []KnockoutMatch {
	all := make([]KnockoutMatch, 0, len(b.RoundOf32)+len(b.RoundOf16)+len(b.QuarterFinals)+len(b.SemiFinals)+2)
	all = append(all, b.RoundOf32...)
	all = append(all, b.RoundOf16...)
	all = append(all, b.QuarterFinals...)
	all = append(all, b.SemiFinals...)
	if b.ThirdPlace != nil {
		all = append(all, *b.ThirdPlace)
	}
	if b.Final != nil {
		all = append(all, *b.Final)
	}
	return all
}

// HasAnyMatchPlayed reports whether any knockout match anywhere in the bracket is played.
func (b KnockoutBracket) HasAnyMatchPlayed() bool {
	for _, m := range b.AllMatches() {
		if m.Played {
			return true
		}
	}
	return false
}

// Empty is true when no round has been generated.
func (b KnockoutBracket) Empty() bool {
	return len(b.AllMatches()) == 0
}
