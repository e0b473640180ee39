package domain

// Integrate left-joins the harmonized energy table onto population by exact
// (Country, Year) and divides every source's generation by population.
// Energy rows without a population match are kept with undefined per-capita
// values. If population repeats a key, the first record wins.
func Integrate(energy EnergyTable, population []PopulationRecord) []PerCapitaRow {
	type key struct {
		country string
		year    int
	}
	pop := make(map[key]Value, len(population))
	for _, p := range population {
		k := key{p.Country, p.Year}
		if _, dup := pop[k]; dup {
			continue
		}
		pop[k] = Defined(p.Population)
	}

	out := make([]PerCapitaRow, len(energy))
	for i, row := range energy {
		p := pop[key{row.Country, row.Year}]
		out[i] = PerCapitaRow{Country: row.Country, Year: row.Year}
		for _, s := range Sources {
			out[i].PerCapita[s] = Div(row.Generation[s], p)
		}
	}
	return out
}
