package models

// Region is the confederation a team qualifies through.
type Region string

const (
	RegionEurope       Region = "europe"
	RegionAfrica       Region = "africa"
	RegionAsia         Region = "asia"
	RegionNorthAmerica Region = "north_america"
	RegionSouthAmerica Region = "south_america"
	RegionOceania      Region = "oceania"
)

// Regions lists every region in the order qualifier groups are drawn.
var Regions = []Region{
	RegionEurope,
	RegionAfrica,
	RegionAsia,
	RegionNorthAmerica,
	RegionSouthAmerica,
	RegionOceania,
}

func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Skill bounds. Ratings are only moved by the match-outcome service and never leave this range.
const (
	MinSkill = 1.0
	MaxSkill = 100.0
)

type Tier string

const (
	TierElite       Tier = "elite"
	TierStrong      Tier = "strong"
	TierCompetitive Tier = "competitive"
	TierDeveloping  Tier = "developing"
	TierMinnow      Tier = "minnow"
)

// TierForSkill maps a rating onto its coarse skill band.
func TierForSkill(skill float64) Tier {
	switch {
	case skill >= 85:
		return TierElite
	case skill >= 75:
		return TierStrong
	case skill >= 65:
		return TierCompetitive
	case skill >= 50:
		return TierDeveloping
	default:
		return TierMinnow
	}
}

// ClampSkill keeps a rating inside [MinSkill, MaxSkill].
func ClampSkill(skill float64) float64 {
	if skill < MinSkill {
		return MinSkill
	}
	if skill > MaxSkill {
		return MaxSkill
	}
	return skill
}

type Team struct {
	ID     string  `json:"id" bson:"_id"`
	Name   string  `json:"name" bson:"name"`
	Region Region  `json:"region" bson:"region"`
	Skill  float64 `json:"skill" bson:"skill"`
}

func (t Team) Tier() Tier {
	return TierForSkill(t.Skill)
}
