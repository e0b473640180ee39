package domain

import (
	"cmp"
	"slices"
)

// MeltSheet reshapes a cleaned sheet from wide (one column per year) to long
// (one record per country-year), sorted by (Country, Year).
func MeltSheet(sheet EnergySheet) []EnergyRecord {
	out := make([]EnergyRecord, 0, len(sheet.Labels)*len(sheet.Years))
	for r, country := range sheet.Labels {
		for j, year := range sheet.Years {
			out = append(out, EnergyRecord{
				Country:       country,
				Year:          year,
				Source:        sheet.Source,
				GenerationTWh: sheet.Generation[r][j],
			})
		}
	}
	slices.SortStableFunc(out, func(a, b EnergyRecord) int {
		return compareKey(a.Country, a.Year, b.Country, b.Year)
	})
	return out
}

// BuildEnergyTable outer-joins long generation tables on (Country, Year).
// Every key present in any input appears once; sources absent for a key stay
// undefined. If a table repeats a (Country, Year, Source) the last one wins.
func BuildEnergyTable(tables ...[]EnergyRecord) EnergyTable {
	type key struct {
		country string
		year    int
	}
	index := make(map[key]int)
	var rows EnergyTable
	for _, table := range tables {
		for _, rec := range table {
			k := key{rec.Country, rec.Year}
			i, ok := index[k]
			if !ok {
				i = len(rows)
				index[k] = i
				rows = append(rows, EnergyRow{Country: rec.Country, Year: rec.Year})
			}
			rows[i].Generation[rec.Source] = rec.GenerationTWh
		}
	}
	rows.sort()
	return rows
}

// Countries returns the distinct country labels of the table, sorted.
func (t EnergyTable) Countries() []string {
	var out []string
	for i, row := range t {
		if i == 0 || row.Country != t[i-1].Country {
			out = append(out, row.Country)
		}
	}
	return out
}

func (t EnergyTable) sort() {
	slices.SortStableFunc(t, func(a, b EnergyRow) int {
		return compareKey(a.Country, a.Year, b.Country, b.Year)
	})
}

func compareKey(countryA string, yearA int, countryB string, yearB int) int {
	if c := cmp.Compare(countryA, countryB); c != 0 {
		return c
	}
	return cmp.Compare(yearA, yearB)
}
