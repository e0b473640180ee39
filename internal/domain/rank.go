package domain

import (
	"cmp"
	"slices"
)

type combined struct {
	country string
	year    int
	total   float64
	sources BySource
}

// Rank selects the n countries with the largest combined rolling increase.
//
// Per-source increases are summed per (Country, Year) with undefined counting
// as zero. Each country is represented by its single best year. The result
// lists, for each selected country-year in rank order, every source whose
// increase is strictly positive, tagged with the country's 1-based rank.
//
// Ties on the combined value keep stable-sort order: the earlier
// (Country, Year) in ascending order ranks first. No secondary key is applied.
func Rank(increases []IncreaseRecord, n int) []RankedRow {
	if n <= 0 {
		return nil
	}
	totals := combine(increases)

	slices.SortStableFunc(totals, func(a, b combined) int {
		return cmp.Compare(b.total, a.total)
	})

	seen := make(map[string]bool)
	best := make([]combined, 0, n)
	for _, c := range totals {
		if len(best) >= n {
			break
		}
		if seen[c.country] {
			continue
		}
		seen[c.country] = true
		best = append(best, c)
	}

	var out []RankedRow
	for i, c := range best {
		for _, s := range Sources {
			v := c.sources[s]
			if !v.Valid || v.Float <= 0 {
				continue
			}
			out = append(out, RankedRow{
				Rank:             i + 1,
				Country:          c.country,
				Year:             c.year,
				CombinedIncrease: c.total,
				Source:           s,
				SourceIncrease:   v.Float,
			})
		}
	}
	return out
}

// combine groups increases by (Country, Year), sorted by that key.
func combine(increases []IncreaseRecord) []combined {
	type key struct {
		country string
		year    int
	}
	index := make(map[key]int)
	var out []combined
	for _, rec := range increases {
		k := key{rec.Country, rec.Year}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, combined{country: rec.Country, year: rec.Year})
		}
		out[i].sources[rec.Source] = rec.RollingIncrease
	}
	for i := range out {
		out[i].total = SumZeroSubstituting(out[i].sources[:]...)
	}
	slices.SortStableFunc(out, func(a, b combined) int {
		return compareKey(a.country, a.year, b.country, b.year)
	})
	return out
}
