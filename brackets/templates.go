package brackets

import "github.com/Dosada05/cup-simulator/models"

// FixtureTemplate is a symbolic pairing between two pot letters on a matchday.
type FixtureTemplate struct {
	Home     models.PotLetter
	Away     models.PotLetter
	Matchday int
}

// QualifierTemplate is the five-team double round-robin. Each matchday one letter rests.
// Matchdays 6-10 repeat 1-5 with home and away swapped.
var QualifierTemplate = []FixtureTemplate{
	{Home: "B", Away: "E", Matchday: 1},
	{Home: "C", Away: "D", Matchday: 1},
	{Home: "C", Away: "A", Matchday: 2},
	{Home: "D", Away: "E", Matchday: 2},
	{Home: "D", Away: "B", Matchday: 3},
	{Home: "E", Away: "A", Matchday: 3},
	{Home: "E", Away: "C", Matchday: 4},
	{Home: "A", Away: "B", Matchday: 4},
	{Home: "A", Away: "D", Matchday: 5},
	{Home: "B", Away: "C", Matchday: 5},

	{Home: "E", Away: "B", Matchday: 6},
	{Home: "D", Away: "C", Matchday: 6},
	{Home: "A", Away: "C", Matchday: 7},
	{Home: "E", Away: "D", Matchday: 7},
	{Home: "B", Away: "D", Matchday: 8},
	{Home: "A", Away: "E", Matchday: 8},
	{Home: "C", Away: "E", Matchday: 9},
	{Home: "B", Away: "A", Matchday: 9},
	{Home: "D", Away: "A", Matchday: 10},
	{Home: "C", Away: "B", Matchday: 10},
}

// WorldCupGroupTemplate is the four-team single round-robin.
var WorldCupGroupTemplate = []FixtureTemplate{
	{Home: "A", Away: "B", Matchday: 1},
	{Home: "C", Away: "D", Matchday: 1},
	{Home: "A", Away: "C", Matchday: 2},
	{Home: "B", Away: "D", Matchday: 2},
	{Home: "D", Away: "A", Matchday: 3},
	{Home: "B", Away: "C", Matchday: 3},
}

// TemplateForGroupSize returns the pairing table for a group of the given size.
func TemplateForGroupSize(size int) ([]FixtureTemplate, bool) {
	switch size {
	case models.QualifierGroupSize:
		return QualifierTemplate, true
	case models.WorldCupGroupSize:
		return WorldCupGroupTemplate, true
	default:
		return nil, false
	}
}
