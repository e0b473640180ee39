package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series builds per-capita rows for one country with the given Solar values
// starting at firstYear.
func series(country string, firstYear int, solar ...Value) []PerCapitaRow {
	rows := make([]PerCapitaRow, len(solar))
	for i, v := range solar {
		rows[i] = PerCapitaRow{Country: country, Year: firstYear + i, PerCapita: BySource{Solar: v}}
	}
	return rows
}

func solarOnly(records []IncreaseRecord) []IncreaseRecord {
	var out []IncreaseRecord
	for _, r := range records {
		if r.Source == Solar {
			out = append(out, r)
		}
	}
	return out
}

func TestMeltPerCapita(t *testing.T) {
	rows := []PerCapitaRow{{Country: "Chile", Year: 2021, PerCapita: BySource{Hydro: Defined(0.002), Wind: Undefined()}}}

	got := MeltPerCapita(rows, DefaultUnitScale)

	require.Len(t, got, len(Sources))
	assert.Equal(t, Hydro, got[0].Source)
	assert.InDelta(t, 2000.0, got[0].KWhPerCapita.Float, 1e-9)
	assert.False(t, got[3].KWhPerCapita.Valid)
}

func TestRollingIncrease_ConstantSeriesIsZero(t *testing.T) {
	values := make([]Value, 25)
	for i := range values {
		values[i] = Defined(0.0042)
	}

	got := solarOnly(RollingIncrease(series("Chile", 1990, values...), DefaultRollingWindow, DefaultUnitScale))

	require.Len(t, got, 25)
	for i, r := range got {
		if i < DefaultRollingWindow {
			assert.False(t, r.RollingIncrease.Valid, "year %d", r.Year)
			continue
		}
		require.True(t, r.RollingIncrease.Valid, "year %d", r.Year)
		assert.Zero(t, r.RollingIncrease.Float)
	}
}

func TestRollingIncrease_LinearSeriesConvergesToSlope(t *testing.T) {
	const slope = 0.25
	values := make([]Value, 30)
	for i := range values {
		values[i] = Defined(3 + slope*float64(i))
	}

	got := solarOnly(RollingIncrease(series("Chile", 1990, values...), DefaultRollingWindow, 1))

	for _, r := range got[DefaultRollingWindow:] {
		assert.InDelta(t, slope, r.RollingIncrease.Float, 1e-9, "year %d", r.Year)
	}
}

func TestRollingIncrease_HandComputedWindowOfThree(t *testing.T) {
	// 10,12,14,17,21 TWh over a constant population of 1,000,000 thousand
	// persons gives kWh per person equal to TWh.
	const population = 1_000_000.0
	generation := []float64{10, 12, 14, 17, 21}

	var energy EnergyTable
	var pop []PopulationRecord
	for i, g := range generation {
		year := 2001 + i
		energy = append(energy, EnergyRow{Country: "A", Year: year, Generation: BySource{Hydro: Defined(g)}})
		pop = append(pop, PopulationRecord{Country: "A", Year: year, Population: population})
	}

	got := RollingIncrease(Integrate(energy, pop), 3, DefaultUnitScale)

	var hydro []IncreaseRecord
	for _, r := range got {
		if r.Source == Hydro {
			hydro = append(hydro, r)
		}
	}
	require.Len(t, hydro, 5)
	for _, r := range hydro[:3] {
		assert.False(t, r.RollingIncrease.Valid, "year %d", r.Year)
	}
	assert.InDelta(t, (2.0+2+3)/3, hydro[3].RollingIncrease.Float, 1e-6)
	assert.InDelta(t, (2.0+3+4)/3, hydro[4].RollingIncrease.Float, 1e-6)
}

func TestRollingIncrease_GapsDoNotBridge(t *testing.T) {
	values := []Value{Defined(1), Defined(2), Undefined(), Defined(4), Defined(5), Defined(6), Defined(7)}

	got := solarOnly(RollingIncrease(series("Chile", 2000, values...), 2, 1))

	require.Len(t, got, 7)
	valid := make([]bool, len(got))
	for i, r := range got {
		valid[i] = r.RollingIncrease.Valid
	}
	// diffs: -, 1, -, -, 1, 1, 1
	assert.Equal(t, []bool{false, false, false, false, false, true, true}, valid)
	assert.InDelta(t, 1.0, got[6].RollingIncrease.Float, 1e-12)
}

func TestRollingIncrease_GroupsAreIndependent(t *testing.T) {
	short := series("Andorra", 2015, Defined(1), Defined(2))
	long := series("Bhutan", 2010, Defined(1), Defined(2), Defined(3), Defined(4))
	rows := append(append([]PerCapitaRow{}, long...), short...)

	got := solarOnly(RollingIncrease(rows, 2, 1))

	require.Len(t, got, 6)
	assert.Equal(t, "Andorra", got[0].Country)
	assert.False(t, got[0].RollingIncrease.Valid)
	assert.False(t, got[1].RollingIncrease.Valid, "short series must not borrow from another country")
	assert.Equal(t, "Bhutan", got[2].Country)
	assert.False(t, got[3].RollingIncrease.Valid)
	assert.Equal(t, Defined(1), got[4].RollingIncrease)
	assert.Equal(t, Defined(1), got[5].RollingIncrease)
}

func TestRollingIncrease_OrdersByYearWithinGroup(t *testing.T) {
	rows := []PerCapitaRow{
		{Country: "Chile", Year: 2003, PerCapita: BySource{Solar: Defined(7)}},
		{Country: "Chile", Year: 2001, PerCapita: BySource{Solar: Defined(1)}},
		{Country: "Chile", Year: 2002, PerCapita: BySource{Solar: Defined(3)}},
	}

	got := solarOnly(RollingIncrease(rows, 1, 1))

	require.Len(t, got, 3)
	assert.Equal(t, []int{2001, 2002, 2003}, []int{got[0].Year, got[1].Year, got[2].Year})
	assert.Equal(t, Defined(2), got[1].RollingIncrease)
	assert.Equal(t, Defined(4), got[2].RollingIncrease)
}
