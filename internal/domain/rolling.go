package domain

import (
	"cmp"
	"slices"
)

// MeltPerCapita reshapes per-capita rows to one record per (Country, Year,
// Source) and multiplies every value by scale.
func MeltPerCapita(rows []PerCapitaRow, scale float64) []PerCapitaRecord {
	out := make([]PerCapitaRecord, 0, len(rows)*len(Sources))
	for _, row := range rows {
		for _, s := range Sources {
			out = append(out, PerCapitaRecord{
				Country:      row.Country,
				Year:         row.Year,
				Source:       s,
				KWhPerCapita: row.PerCapita[s].Scale(scale),
			})
		}
	}
	return out
}

// RollingIncrease computes, independently for every (Country, Source) series
// ordered by Year, the trailing mean of window consecutive year-over-year
// differences. A mean is defined only when all window differences are
// defined; the first window entries of each series are always undefined.
// Output is sorted by (Country, Source, Year).
func RollingIncrease(rows []PerCapitaRow, window int, scale float64) []IncreaseRecord {
	long := MeltPerCapita(rows, scale)
	slices.SortStableFunc(long, func(a, b PerCapitaRecord) int {
		if c := cmp.Compare(a.Country, b.Country); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})

	out := make([]IncreaseRecord, 0, len(long))
	for start := 0; start < len(long); {
		end := start + 1
		for end < len(long) && long[end].Country == long[start].Country && long[end].Source == long[start].Source {
			end++
		}
		out = append(out, rollSeries(long[start:end], window)...)
		start = end
	}
	return out
}

// rollSeries handles a single (Country, Source) series sorted by Year.
func rollSeries(series []PerCapitaRecord, window int) []IncreaseRecord {
	diffs := make([]Value, len(series))
	for i := 1; i < len(series); i++ {
		diffs[i] = series[i].KWhPerCapita.Sub(series[i-1].KWhPerCapita)
	}

	out := make([]IncreaseRecord, len(series))
	for i, rec := range series {
		out[i] = IncreaseRecord{
			Country:         rec.Country,
			Source:          rec.Source,
			Year:            rec.Year,
			RollingIncrease: windowMean(diffs, i, window),
		}
	}
	return out
}

// windowMean averages diffs[i-window+1 .. i], undefined unless every term
// exists and is defined.
func windowMean(diffs []Value, i, window int) Value {
	if window < 1 || i+1 < window {
		return Undefined()
	}
	var sum float64
	for _, d := range diffs[i-window+1 : i+1] {
		if !d.Valid {
			return Undefined()
		}
		sum += d.Float
	}
	return Defined(sum / float64(window))
}
