package domain

import (
	"slices"
)

// EntityMerge folds the series of one historical entity into another, e.g.
// the USSR into the Russian Federation.
type EntityMerge struct {
	From string `yaml:"from"`
	Into string `yaml:"into"`
}

// Harmonizer rewrites both source vocabularies to canonical country labels.
type Harmonizer struct {
	EnergyNames     NameMap
	PopulationNames NameMap
	Merges          []EntityMerge
}

// NewHarmonizer builds a Harmonizer from substitution pairs and merges.
func NewHarmonizer(energy, population []NamePair, merges []EntityMerge) Harmonizer {
	return Harmonizer{
		EnergyNames:     NewNameMap(energy...),
		PopulationNames: NewNameMap(population...),
		Merges:          slices.Clone(merges),
	}
}

// DefaultHarmonizer uses the built-in BP/UN tables.
func DefaultHarmonizer() Harmonizer {
	return NewHarmonizer(DefaultEnergyNames, DefaultPopulationNames, DefaultMerges)
}

// HarmonizeEnergy substitutes energy labels, then applies every entity merge.
// Substitution runs first so merge labels are already canonical.
func (h Harmonizer) HarmonizeEnergy(table EnergyTable) EnergyTable {
	out := make(EnergyTable, len(table))
	for i, row := range table {
		row.Country = h.EnergyNames.Apply(row.Country)
		out[i] = row
	}
	for _, m := range h.Merges {
		out = mergeEntity(out, m)
	}
	out.sort()
	return out
}

// HarmonizePopulation substitutes population labels.
func (h Harmonizer) HarmonizePopulation(records []PopulationRecord) []PopulationRecord {
	out := make([]PopulationRecord, len(records))
	for i, rec := range records {
		rec.Country = h.PopulationNames.Apply(rec.Country)
		out[i] = rec
	}
	return out
}

// mergeEntity adds every From row into the Into row of the same year, missing
// values counting as zero, then drops the From rows. A cell stays undefined
// only when both sides are undefined. Years where only From exists produce a
// new Into row.
func mergeEntity(table EnergyTable, m EntityMerge) EnergyTable {
	out := make(EnergyTable, 0, len(table))
	var from []EnergyRow
	for _, row := range table {
		if row.Country == m.From {
			from = append(from, row)
			continue
		}
		out = append(out, row)
	}

	into := make(map[int]int)
	for i, row := range out {
		if row.Country == m.Into {
			into[row.Year] = i
		}
	}

	for _, f := range from {
		i, ok := into[f.Year]
		if !ok {
			i = len(out)
			into[f.Year] = i
			out = append(out, EnergyRow{Country: m.Into, Year: f.Year})
		}
		for _, s := range Sources {
			out[i].Generation[s] = addZeroSubstituting(out[i].Generation[s], f.Generation[s])
		}
	}
	return out
}

func addZeroSubstituting(a, b Value) Value {
	if !a.Valid && !b.Valid {
		return Undefined()
	}
	return Defined(SumZeroSubstituting(a, b))
}

// UnmatchedCountries lists energy labels with no population counterpart. Such
// labels never join and usually need a new substitution pair.
func UnmatchedCountries(energy EnergyTable, population []PopulationRecord) []string {
	known := make(map[string]bool)
	for _, p := range population {
		known[p.Country] = true
	}
	var out []string
	for _, c := range energy.Countries() {
		if !known[c] {
			out = append(out, c)
		}
	}
	return out
}
