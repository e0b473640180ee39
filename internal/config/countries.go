package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// CountryTables is the read-only vocabulary used to clean and reconcile the
// two sources.
type CountryTables struct {
	SheetNames      map[domain.Source]string
	Denylist        []string
	EnergyNames     []domain.NamePair
	PopulationNames []domain.NamePair
	Merges          []domain.EntityMerge
}

// countryFile is the YAML layout of COUNTRY_MAP_FILE. Omitted sections keep
// their defaults.
type countryFile struct {
	Sheets          map[string]string    `yaml:"sheets"`
	Denylist        []string             `yaml:"denylist"`
	EnergyNames     []domain.NamePair    `yaml:"energy_names"`
	PopulationNames []domain.NamePair    `yaml:"population_names"`
	Merges          []domain.EntityMerge `yaml:"merges"`
}

// DefaultCountryTables returns copies of the built-in BP/UN tables.
func DefaultCountryTables() CountryTables {
	return CountryTables{
		SheetNames:      maps.Clone(domain.DefaultSheetNames),
		Denylist:        slices.Clone(domain.DefaultDenylist),
		EnergyNames:     slices.Clone(domain.DefaultEnergyNames),
		PopulationNames: slices.Clone(domain.DefaultPopulationNames),
		Merges:          slices.Clone(domain.DefaultMerges),
	}
}

// Harmonizer builds the domain harmonizer for these tables.
func (t CountryTables) Harmonizer() domain.Harmonizer {
	return domain.NewHarmonizer(t.EnergyNames, t.PopulationNames, t.Merges)
}

// LoadCountryTables reads a YAML country map and overlays it on base.
func LoadCountryTables(filePath string, base CountryTables) (CountryTables, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return CountryTables{}, err
	}

	var f countryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CountryTables{}, fmt.Errorf("parse %s: %w", filePath, err)
	}

	out := base
	if len(f.Sheets) > 0 {
		out.SheetNames = maps.Clone(base.SheetNames)
		for name, sheet := range f.Sheets {
			s, err := domain.ParseSource(name)
			if err != nil {
				return CountryTables{}, fmt.Errorf("sheets: %w", err)
			}
			out.SheetNames[s] = sheet
		}
	}
	if f.Denylist != nil {
		out.Denylist = f.Denylist
	}
	if f.EnergyNames != nil {
		out.EnergyNames = f.EnergyNames
	}
	if f.PopulationNames != nil {
		out.PopulationNames = f.PopulationNames
	}
	if f.Merges != nil {
		out.Merges = f.Merges
	}

	for _, m := range out.Merges {
		if m.From == "" || m.Into == "" {
			return CountryTables{}, fmt.Errorf("merges: from and into are both required, got %+v", m)
		}
	}
	return out, nil
}
