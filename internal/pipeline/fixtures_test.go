package pipeline_test

import (
	"strconv"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/couchcryptid/clean-energy-etl/internal/pipeline"
)

var fixtureYears = []int{2000, 2001, 2002, 2003, 2004}

// bpSheet lays rows out the way the workbook reader returns a BP sheet: label
// column, one column per year, then the three summary columns.
func bpSheet(source domain.Source, rows map[string][]string) domain.RawTable {
	header := []string{"Terawatt-hours"}
	for _, y := range fixtureYears {
		header = append(header, strconv.Itoa(y))
	}
	header = append(header, "2021-20", "2011-21", "2021 share")

	t := domain.RawTable{Name: domain.DefaultSheetNames[source], Header: header}
	for _, label := range []string{"US", "Denmark", "Atlantis", "Total Europe", "Total World", "of which: OECD"} {
		cells, ok := rows[label]
		if !ok {
			cells = []string{"", "", "", "", ""}
		}
		row := append([]string{label}, cells...)
		t.Rows = append(t.Rows, append(row, "0.1", "0.2", "0.3"))
	}
	return t
}

// fixtureInputs builds a small run:
//   - US (hydro, population 1) has rolling increases 1.5, 2, 2 from 2002; its
//     best year is 2003 because the 2004 tie ranks later.
//   - Denmark (population 10) has wind 1, 1, 1 and solar 0, 0, 0.5; its best
//     year is 2004 at 1.5.
//   - Atlantis has no population and never contributes.
func fixtureInputs() pipeline.Inputs {
	sheets := map[domain.Source]domain.RawTable{
		domain.Hydro: bpSheet(domain.Hydro, map[string][]string{
			"US":           {"1", "2", "4", "6", "8"},
			"Total Europe": {"50", "50", "50", "50", "50"},
			"Total World":  {"99", "99", "99", "99", "99"},
		}),
		domain.Nuclear: bpSheet(domain.Nuclear, map[string][]string{
			"Atlantis": {"1", "2", "3", "4", "5"},
		}),
		domain.Solar: bpSheet(domain.Solar, map[string][]string{
			"Denmark": {"0", "0", "0", "0", "10"},
		}),
		domain.Wind: bpSheet(domain.Wind, map[string][]string{
			"Denmark":        {"10", "20", "30", "40", "50"},
			"of which: OECD": {"7", "7", "7", "7", "7"},
		}),
	}

	population := domain.RawTable{
		Name:   "WPP2022_TotalPopulationBySex.csv",
		Header: []string{"SortOrder", "ISO3_code", "Location", "Time", "PopTotal"},
	}
	for _, y := range fixtureYears {
		year := strconv.Itoa(y)
		population.Rows = append(population.Rows,
			[]string{"1", "USA", "United States of America", year, "1"},
			[]string{"2", "DNK", "Denmark", year, "10"},
			[]string{"3", "", "Europe", year, "750000"},
		)
	}

	return pipeline.Inputs{Sheets: sheets, Population: population}
}

func fixtureSettings() pipeline.Settings {
	s := pipeline.DefaultSettings()
	s.RollingWindow = 2
	s.TopN = 2
	s.UnitScale = 1
	return s
}

var fixtureRanking = []domain.RankedRow{
	{Rank: 1, Country: "United States", Year: 2003, CombinedIncrease: 2, Source: domain.Hydro, SourceIncrease: 2},
	{Rank: 2, Country: "Denmark", Year: 2004, CombinedIncrease: 1.5, Source: domain.Solar, SourceIncrease: 0.5},
	{Rank: 2, Country: "Denmark", Year: 2004, CombinedIncrease: 1.5, Source: domain.Wind, SourceIncrease: 1},
}
