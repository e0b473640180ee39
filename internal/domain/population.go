package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PopulationColumns names the source columns retained from the UN table.
type PopulationColumns struct {
	ISO3Code   string
	Country    string
	Year       string
	Population string
}

// DefaultPopulationColumns matches the WPP2022 CSV header.
var DefaultPopulationColumns = PopulationColumns{
	ISO3Code:   "ISO3_code",
	Country:    "Location",
	Year:       "Time",
	Population: "PopTotal",
}

// BuildPopulationTable projects the four named columns out of the raw UN
// table. Every row is kept; columns are resolved by name once.
func BuildPopulationTable(raw RawTable, cols PopulationColumns) ([]PopulationRecord, error) {
	iso, err := columnIndex(raw, cols.ISO3Code)
	if err != nil {
		return nil, err
	}
	country, err := columnIndex(raw, cols.Country)
	if err != nil {
		return nil, err
	}
	year, err := columnIndex(raw, cols.Year)
	if err != nil {
		return nil, err
	}
	pop, err := columnIndex(raw, cols.Population)
	if err != nil {
		return nil, err
	}

	out := make([]PopulationRecord, 0, len(raw.Rows))
	for r := range raw.Rows {
		y, err := strconv.Atoi(strings.TrimSpace(raw.Cell(r, year)))
		if err != nil {
			return nil, fmt.Errorf("population row %d: parse %s: %w", r+1, cols.Year, err)
		}
		// An empty population stays 0, which Integrate treats as no match.
		var p float64
		if s := strings.TrimSpace(raw.Cell(r, pop)); s != "" {
			p, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("population row %d: parse %s: %w", r+1, cols.Population, err)
			}
		}
		out = append(out, PopulationRecord{
			ISO3Code:   raw.Cell(r, iso),
			Country:    raw.Cell(r, country),
			Year:       y,
			Population: p,
		})
	}
	return out, nil
}

func columnIndex(raw RawTable, name string) (int, error) {
	i := slices.Index(raw.Header, name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %q in table %q", ErrMissingColumn, name, raw.Name)
	}
	return i, nil
}
