package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate(t *testing.T) {
	energy := EnergyTable{
		{Country: "Iceland", Year: 2020, Generation: BySource{Hydro: Defined(12.9), Wind: Undefined()}},
		{Country: "Iceland", Year: 2021, Generation: BySource{Hydro: Defined(13.2)}},
		{Country: "Kosovo", Year: 2021, Generation: BySource{Hydro: Defined(0.2)}},
	}
	population := []PopulationRecord{
		{ISO3Code: "ISL", Country: "Iceland", Year: 2020, Population: 366.7},
		{ISO3Code: "ISL", Country: "Iceland", Year: 2020, Population: 999},
		{ISO3Code: "ISL", Country: "Iceland", Year: 2021, Population: 370.3},
		{ISO3Code: "NOR", Country: "Norway", Year: 2021, Population: 5403.0},
	}

	got := Integrate(energy, population)

	require.Len(t, got, 3)

	t.Run("defined population divides exactly", func(t *testing.T) {
		assert.Equal(t, "Iceland", got[0].Country)
		assert.InDelta(t, 12.9/366.7, got[0].PerCapita[Hydro].Float, 1e-15)
		assert.True(t, got[0].PerCapita[Hydro].Valid)
		assert.InDelta(t, 13.2/370.3, got[1].PerCapita[Hydro].Float, 1e-15)
	})

	t.Run("undefined generation propagates", func(t *testing.T) {
		assert.False(t, got[0].PerCapita[Wind].Valid)
		assert.False(t, got[1].PerCapita[Solar].Valid)
	})

	t.Run("missing population is undefined, not zero", func(t *testing.T) {
		assert.Equal(t, "Kosovo", got[2].Country)
		for _, s := range Sources {
			assert.False(t, got[2].PerCapita[s].Valid, "source %s", s)
		}
	})
}

func TestIntegrate_ZeroPopulationIsUndefined(t *testing.T) {
	energy := EnergyTable{{Country: "Nauru", Year: 2021, Generation: BySource{Solar: Defined(0.01)}}}
	population := []PopulationRecord{{Country: "Nauru", Year: 2021, Population: 0}}

	got := Integrate(energy, population)
	require.Len(t, got, 1)
	assert.False(t, got[0].PerCapita[Solar].Valid)
}
