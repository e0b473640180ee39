package domain

import "time"

// RawTable is a rectangular table as returned by a tabular reader. Header is
// the row at the reader's header offset; Rows are the rows below it. An empty
// cell is null. Rows may be shorter than Header.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Cell returns row r, column c, or "" when the row is short.
func (t RawTable) Cell(r, c int) string {
	row := t.Rows[r]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// EnergySheet is a cleaned generation sheet: country rows only, year columns
// only, label column and years resolved once.
type EnergySheet struct {
	Source     Source
	LabelName  string
	Years      []int
	Labels     []string
	Generation [][]Value // [row][year column]
}

// EnergyRecord is one country-year-source generation figure.
type EnergyRecord struct {
	Country       string
	Year          int
	Source        Source
	GenerationTWh Value
}

// EnergyRow is one (Country, Year) of the outer-joined generation table.
type EnergyRow struct {
	Country    string
	Year       int
	Generation BySource
}

// EnergyTable is sorted by (Country, Year) with unique keys.
type EnergyTable []EnergyRow

// PopulationRecord is one country-year population figure.
type PopulationRecord struct {
	ISO3Code   string
	Country    string
	Year       int
	Population float64
}

// PerCapitaRow is generation divided by population for one (Country, Year).
// Units are TWh per population unit until rescaled.
type PerCapitaRow struct {
	Country   string
	Year      int
	PerCapita BySource
}

// PerCapitaRecord is the long form of PerCapitaRow, in kWh per person.
type PerCapitaRecord struct {
	Country      string
	Year         int
	Source       Source
	KWhPerCapita Value
}

// IncreaseRecord is the trailing rolling mean of year-over-year per-capita
// differences for one (Country, Source, Year).
type IncreaseRecord struct {
	Country         string
	Source          Source
	Year            int
	RollingIncrease Value
}

// RankedRow is one contributing source of a top-ranked country's best year.
// Rank is the 1-based position of the country among the selected n, so
// countries that list no sources still occupy their place.
type RankedRow struct {
	Rank             int     `json:"rank"`
	Country          string  `json:"country"`
	Year             int     `json:"year"`
	CombinedIncrease float64 `json:"combined_increase"`
	Source           Source  `json:"source"`
	SourceIncrease   float64 `json:"source_increase"`
}

// Ranking is the final output of a pipeline run.
type Ranking struct {
	Rows        []RankedRow `json:"rows"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// NewRanking stamps rows with the current time from the package clock.
func NewRanking(rows []RankedRow) Ranking {
	return Ranking{Rows: rows, GeneratedAt: clock.Now().UTC()}
}

// Countries returns the distinct countries of the ranking in rank order.
func (r Ranking) Countries() []string {
	var out []string
	seen := make(map[string]bool)
	for _, row := range r.Rows {
		if !seen[row.Country] {
			seen[row.Country] = true
			out = append(out, row.Country)
		}
	}
	return out
}
