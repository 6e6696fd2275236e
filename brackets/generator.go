package brackets

import (
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
)

type GenerateBracketParams struct {
	Groups []models.Group
	// Names feeds the final standings tie-break.
	Names map[string]string
}

// BracketGenerator builds the opening knockout round from completed groups.
type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (models.KnockoutBracket, error)

	GetName() string
}

type roundOf32Generator struct{}

func NewRoundOf32Generator() BracketGenerator {
	return &roundOf32Generator{}
}

func (g *roundOf32Generator) GetName() string {
	return "RoundOf32"
}

func (g *roundOf32Generator) GenerateBracket(params GenerateBracketParams) (models.KnockoutBracket, error) {
	matches, err := buildFromGroups(params.Groups, params.Names, RoundOf32Pairings, models.RoundOf32)
	if err != nil {
		return models.KnockoutBracket{}, fmt.Errorf("RoundOf32Generator: %w", err)
	}
	return models.KnockoutBracket{RoundOf32: matches}, nil
}

type roundOf16Generator struct{}

func NewRoundOf16Generator() BracketGenerator {
	return &roundOf16Generator{}
}

func (g *roundOf16Generator) GetName() string {
	return "RoundOf16"
}

func (g *roundOf16Generator) GenerateBracket(params GenerateBracketParams) (models.KnockoutBracket, error) {
	matches, err := buildFromGroups(params.Groups, params.Names, RoundOf16Pairings, models.RoundOf16)
	if err != nil {
		return models.KnockoutBracket{}, fmt.Errorf("RoundOf16Generator: %w", err)
	}
	return models.KnockoutBracket{RoundOf16: matches}, nil
}

// GeneratorForGroupCount picks the opening round for 16 or 8 groups.
func GeneratorForGroupCount(groupCount int) (BracketGenerator, error) {
	switch groupCount {
	case len(RoundOf32Pairings):
		return NewRoundOf32Generator(), nil
	case len(RoundOf16Pairings):
		return NewRoundOf16Generator(), nil
	default:
		return nil, fmt.Errorf("%w: got %d groups", ErrUnsupportedBracketSize, groupCount)
	}
}
