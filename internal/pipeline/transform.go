package pipeline

import (
	"fmt"
	"maps"

	"github.com/couchcryptid/clean-energy-etl/internal/config"
	"github.com/couchcryptid/clean-energy-etl/internal/domain"
)

// Settings parameterizes a Transformer.
type Settings struct {
	SheetNames        map[domain.Source]string
	Denylist          []string
	Harmonizer        domain.Harmonizer
	PopulationColumns domain.PopulationColumns
	RollingWindow     int
	TopN              int
	UnitScale         float64
}

// DefaultSettings returns the BP/UN defaults.
func DefaultSettings() Settings {
	return Settings{
		SheetNames:        maps.Clone(domain.DefaultSheetNames),
		Denylist:          domain.DefaultDenylist,
		Harmonizer:        domain.DefaultHarmonizer(),
		PopulationColumns: domain.DefaultPopulationColumns,
		RollingWindow:     domain.DefaultRollingWindow,
		TopN:              domain.DefaultTopN,
		UnitScale:         domain.DefaultUnitScale,
	}
}

// SettingsFromConfig takes the country tables and ranking parameters from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SheetNames:        cfg.Countries.SheetNames,
		Denylist:          cfg.Countries.Denylist,
		Harmonizer:        cfg.Countries.Harmonizer(),
		PopulationColumns: domain.DefaultPopulationColumns,
		RollingWindow:     cfg.RollingWindow,
		TopN:              cfg.TopN,
		UnitScale:         cfg.UnitScale,
	}
}

// Inputs are the raw tables of one run.
type Inputs struct {
	Sheets     map[domain.Source]domain.RawTable
	Population domain.RawTable
}

// Prepared holds both sources after cleaning and name harmonization.
type Prepared struct {
	Energy     domain.EnergyTable
	Population []domain.PopulationRecord
}

// Unmatched lists energy countries that have no population counterpart.
func (p Prepared) Unmatched() []string {
	return domain.UnmatchedCountries(p.Energy, p.Population)
}

// Transformer turns raw tables into a ranking using the domain functions.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	settings Settings
}

// NewTransformer creates a Transformer.
func NewTransformer(settings Settings) *Transformer {
	return &Transformer{settings: settings}
}

// SheetName returns the workbook sheet holding source s.
func (t *Transformer) SheetName(s domain.Source) string {
	return t.settings.SheetNames[s]
}

// Prepare cleans every sheet, joins them into one energy table, projects the
// population table, and harmonizes country names on both.
func (t *Transformer) Prepare(in Inputs) (Prepared, error) {
	melted := make([][]domain.EnergyRecord, 0, len(domain.Sources))
	for _, s := range domain.Sources {
		raw, ok := in.Sheets[s]
		if !ok {
			return Prepared{}, fmt.Errorf("%w: no %s sheet", domain.ErrMalformedSheet, s)
		}
		sheet, err := domain.CleanEnergySheet(raw, s, t.settings.Denylist)
		if err != nil {
			return Prepared{}, fmt.Errorf("clean %s sheet %q: %w", s, raw.Name, err)
		}
		melted = append(melted, domain.MeltSheet(sheet))
	}

	population, err := domain.BuildPopulationTable(in.Population, t.settings.PopulationColumns)
	if err != nil {
		return Prepared{}, fmt.Errorf("build population table %q: %w", in.Population.Name, err)
	}

	h := t.settings.Harmonizer
	return Prepared{
		Energy:     h.HarmonizeEnergy(domain.BuildEnergyTable(melted...)),
		Population: h.HarmonizePopulation(population),
	}, nil
}

// Rank integrates the prepared tables and selects the top countries by
// rolling increase.
func (t *Transformer) Rank(p Prepared) []domain.RankedRow {
	perCapita := domain.Integrate(p.Energy, p.Population)
	increases := domain.RollingIncrease(perCapita, t.settings.RollingWindow, t.settings.UnitScale)
	return domain.Rank(increases, t.settings.TopN)
}
