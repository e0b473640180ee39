// Command reconcile checks that the energy workbook and the population table
// line up before a ranking run. It reports sheet structure, lists every
// cleaned energy country with whether the harmonized population table knows
// it, and flags matched countries whose energy years lack a population figure.
//
// Usage:
//
//	go run ./cmd/reconcile \
//	  -energy data/bp-stats-review-2022-all-data.xlsx \
//	  -population data/WPP2022_TotalPopulationBySex.zip \
//	  -strict
//
// Paths default to ENERGY_FILE / POPULATION_FILE, and COUNTRY_MAP_FILE is
// honoured the same way as for the etl command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/clean-energy-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/clean-energy-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/clean-energy-etl/internal/config"
	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	"github.com/couchcryptid/clean-energy-etl/internal/pipeline"
)

// phase tracks pass/fail for a reconciliation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	energy := flag.String("energy", cfg.EnergyFile, "path to the BP statistical review workbook")
	population := flag.String("population", cfg.PopulationFile, "path to the UN population CSV (plain, .gz or .zip)")
	strict := flag.Bool("strict", false, "exit non-zero when any country or year is unmatched")
	flag.Parse()

	cfg.EnergyFile, cfg.PopulationFile = *energy, *population
	if code := run(context.Background(), cfg, *strict); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config, strict bool) int {
	logger := observability.NewLogger(cfg)
	transformer := pipeline.NewTransformer(pipeline.SettingsFromConfig(cfg))
	p := pipeline.New(
		xlsx.NewReader(cfg.EnergyFile, cfg.HeaderRow, logger),
		csvsource.NewReader(cfg.PopulationFile, logger),
		transformer,
		nil,
		logger,
		observability.NewMetrics(),
	)

	fmt.Println("=== Clean Energy Source Reconciliation ===")
	fmt.Println()

	in, err := p.Extract(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	structure := checkSheets(in, cfg.Countries.Denylist)
	if !structure.passed() {
		report([]*phase{structure})
		return 1
	}

	prepared, err := transformer.Prepare(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		structure,
		checkCountries(prepared),
		checkYears(prepared),
	}

	fmt.Println()
	fmt.Printf("Rows: %d energy (country-year), %d population\n", len(prepared.Energy), len(prepared.Population))

	if report(phases) || !strict {
		return 0
	}
	return 1
}

// report prints the phase summary and detailed errors, returning whether
// every phase passed.
func report(phases []*phase) bool {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
	} else {
		fmt.Println("\nReconciliation found gaps.")
	}
	return allPassed
}

// ── Phase 1: Sheet structure ──

func checkSheets(in pipeline.Inputs, denylist []string) *phase {
	p := &phase{name: "Phase 1: Sheet structure"}
	for _, s := range domain.Sources {
		raw := in.Sheets[s]
		sheet, err := domain.CleanEnergySheet(raw, s, denylist)
		if err != nil {
			p.errorf("%s: %v", s, err)
			continue
		}
		if len(sheet.Years) == 0 {
			p.errorf("%s: sheet %q has no year columns", s, raw.Name)
			continue
		}
		fmt.Printf("  %-8s %-28q %3d countries, %d-%d\n",
			s, raw.Name, len(sheet.Labels), sheet.Years[0], sheet.Years[len(sheet.Years)-1])
	}
	return p
}

// ── Phase 2: Country coverage ──
// Lists every harmonized energy country and whether population knows it.

func checkCountries(prepared pipeline.Prepared) *phase {
	p := &phase{name: "Phase 2: Country coverage"}
	unmatched := prepared.Unmatched()

	fmt.Println()
	for _, c := range prepared.Energy.Countries() {
		mark := "ok"
		if slices.Contains(unmatched, c) {
			mark = "--"
			p.errorf("%q has no population match", c)
		}
		fmt.Printf("  [%s] %s\n", mark, c)
	}
	return p
}

// ── Phase 3: Year coverage ──
// For matched countries, every energy year should have a population figure.

func checkYears(prepared pipeline.Prepared) *phase {
	p := &phase{name: "Phase 3: Year coverage"}

	type key struct {
		country string
		year    int
	}
	known := make(map[string]bool)
	pop := make(map[key]bool, len(prepared.Population))
	for _, r := range prepared.Population {
		known[r.Country] = true
		pop[key{r.Country, r.Year}] = true
	}

	for _, row := range prepared.Energy {
		k := key{row.Country, row.Year}
		if known[row.Country] && !pop[k] {
			p.errorf("%s %d: no population figure", row.Country, row.Year)
		}
	}
	return p
}
