package catalog

import (
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	teams := Default()
	require.Len(t, teams, 210)

	byRegion := ByRegion(teams)
	want := map[models.Region]int{
		models.RegionEurope:       55,
		models.RegionAfrica:       50,
		models.RegionAsia:         45,
		models.RegionNorthAmerica: 35,
		models.RegionSouthAmerica: 10,
		models.RegionOceania:      15,
	}
	for region, n := range want {
		assert.Len(t, byRegion[region], n, "region %s", region)
		assert.Zero(t, n%models.QualifierGroupSize)
	}

	names := make(map[string]bool, len(teams))
	for _, team := range teams {
		assert.False(t, names[team.Name], "duplicate name %s", team.Name)
		names[team.Name] = true
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	first := Default()
	first[0].Skill = 1
	assert.NotEqual(t, first[0].Skill, Default()[0].Skill)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"missing name", `[{"id":"x","region":"asia","skill":50}]`},
		{"unknown region", `[{"id":"x","name":"X","region":"mars","skill":50}]`},
		{"skill out of range", `[{"id":"x","name":"X","region":"asia","skill":101}]`},
		{"duplicate id", `[{"id":"x","name":"X","region":"asia","skill":50},{"id":"x","name":"Y","region":"asia","skill":50}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	teams, err := Parse([]byte(`[{"id":"x","name":"X","region":"asia","skill":50}]`))
	require.NoError(t, err)
	assert.Equal(t, []models.Team{{ID: "x", Name: "X", Region: models.RegionAsia, Skill: 50}}, teams)
}
