// Command genmock writes a synthetic BP generation workbook and UN population
// table with the published layouts, for local runs and integration tests.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -workbook data/bp-stats-review-2022-all-data.xlsx \
//	  -population data/WPP2022_TotalPopulationBySex.zip
//
// A -population path ending in .zip is written as an archive, .gz is
// gzipped, anything else is plain CSV.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/couchcryptid/clean-energy-etl/internal/mockdata"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts := mockdata.DefaultOptions()

	workbook := flag.String("workbook", "data/bp-stats-review-2022-all-data.xlsx", "output path for the generation workbook")
	population := flag.String("population", "data/WPP2022_TotalPopulationBySex.zip", "output path for the population table")
	flag.IntVar(&opts.FirstYear, "first-year", opts.FirstYear, "first year column")
	flag.IntVar(&opts.LastYear, "last-year", opts.LastYear, "last year column")
	flag.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for generation noise")
	flag.Parse()

	if opts.LastYear <= opts.FirstYear {
		flag.Usage()
		return fmt.Errorf("-last-year must be after -first-year")
	}

	if err := mockdata.WriteWorkbook(*workbook, opts); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	log.Printf("wrote workbook: %s (%d countries, %d-%d)", *workbook, len(opts.Countries), opts.FirstYear, opts.LastYear)

	if err := mockdata.WritePopulation(*population, opts); err != nil {
		return fmt.Errorf("writing population table: %w", err)
	}
	log.Printf("wrote population table: %s", *population)
	return nil
}
