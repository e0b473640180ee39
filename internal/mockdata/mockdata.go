// Package mockdata writes synthetic BP workbooks and UN population tables
// with the same layout as the published files.
package mockdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

// perSource holds hydro, nuclear, solar, wind.
type perSource = [len(domain.Sources)]float64

// Country is one synthetic country. BPName and UNName are the spellings used
// by the two publishers. Growth is the yearly TWh increase per source.
type Country struct {
	BPName     string
	UNName     string
	ISO3       string
	Population float64 // thousands, first year
	PopGrowth  float64 // yearly fraction
	Base       domain.BySource
	Growth     perSource
	FirstYear  int // 0 means present from Options.FirstYear
	LastYear   int // 0 means present through Options.LastYear
}

// Options controls the generated data.
type Options struct {
	FirstYear int
	LastYear  int
	Seed      uint64
	Countries []Country
	Regions   []string
}

// DefaultOptions returns a small world with BP spellings that need
// harmonizing and a USSR that dissolves into the Russian Federation.
func DefaultOptions() Options {
	return Options{
		FirstYear: 1965,
		LastYear:  2021,
		Seed:      42,
		Countries: []Country{
			country("US", "United States of America", "USA", 194000, 0.009, perSource{50, 40, 0, 0}, perSource{1.2, 14, 2.5, 6.5}),
			country("Denmark", "Denmark", "DNK", 4600, 0.003, perSource{0, 0, 0, 0}, perSource{0.01, 0, 0.03, 0.6}),
			country("Germany", "Germany", "DEU", 75600, 0.001, perSource{15, 2, 0, 0}, perSource{0.05, 3, 1.1, 2.2}),
			country("Chile", "Chile", "CHL", 8600, 0.012, perSource{5, 0, 0, 0}, perSource{0.4, 0, 0.5, 0.25}),
			country("Norway", "Norway", "NOR", 3700, 0.006, perSource{60, 0, 0, 0}, perSource{1.4, 0, 0, 0.2}),
			country("Uruguay", "Uruguay", "URY", 2700, 0.004, perSource{2, 0, 0, 0}, perSource{0.15, 0, 0.02, 0.12}),
			country("Trinidad & Tobago", "Trinidad and Tobago", "TTO", 900, 0.008, perSource{0, 0, 0, 0}, perSource{0, 0, 0.001, 0}),
			{
				BPName:   "USSR",
				Base:     sources(150, 2, 0, 0),
				Growth:   perSource{3, 8, 0, 0},
				LastYear: 1984,
			},
			{
				BPName:     "Russian Federation",
				UNName:     "Russian Federation",
				ISO3:       "RUS",
				Population: 127000,
				PopGrowth:  0.001,
				Base:       sources(150, 120, 0, 0),
				Growth:     perSource{1.5, 3, 0.05, 0.08},
				FirstYear:  1985,
			},
		},
		Regions: []string{"Total North America", "Total Europe", "Other Asia Pacific", "Total Africa"},
	}
}

// country builds a Country present for the whole range.
func country(bp, un, iso string, pop, popGrowth float64, base, growth perSource) Country {
	return Country{
		BPName:     bp,
		UNName:     un,
		ISO3:       iso,
		Population: pop,
		PopGrowth:  popGrowth,
		Base:       sources(base[0], base[1], base[2], base[3]),
		Growth:     growth,
	}
}

func sources(hydro, nuclear, solar, wind float64) domain.BySource {
	var b domain.BySource
	for i, v := range (perSource{hydro, nuclear, solar, wind}) {
		b[domain.Sources[i]] = domain.Defined(v)
	}
	return b
}

func (c Country) present(o Options, year int) bool {
	first, last := o.FirstYear, o.LastYear
	if c.FirstYear != 0 {
		first = c.FirstYear
	}
	if c.LastYear != 0 {
		last = c.LastYear
	}
	return year >= first && year <= last
}

// generation returns the TWh cell text, or "-" before a source has started.
func (c Country) generation(o Options, s domain.Source, year int, rng *rand.Rand) string {
	if !c.present(o, year) {
		return ""
	}
	t := float64(year - o.FirstYear)
	v := c.Base[s].OrZero() + c.Growth[s]*t*(1+t/float64(o.LastYear-o.FirstYear+1))
	if v <= 0 {
		return "-"
	}
	v *= 1 + (rng.Float64()-0.5)*0.04
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// WriteWorkbook writes the four generation sheets to path.
func WriteWorkbook(path string, o Options) error {
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed))
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, s := range domain.Sources {
		name := domain.DefaultSheetNames[s]
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, s, o, rng); err != nil {
			return fmt.Errorf("write sheet %q: %w", name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, s domain.Source, o Options, rng *rand.Rand) error {
	title := strings.TrimSuffix(name, " - TWh") + "*"
	header := []any{"Terawatt-hours"}
	for y := o.FirstYear; y <= o.LastYear; y++ {
		header = append(header, y)
	}
	header = append(header, "Growth rate per annum", "2011-21", "Share")

	rows := [][]any{{title}, {}, header}
	world := make([]float64, o.LastYear-o.FirstYear+1)
	for _, c := range o.Countries {
		row := []any{c.BPName}
		for y := o.FirstYear; y <= o.LastYear; y++ {
			cell := c.generation(o, s, y, rng)
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				world[y-o.FirstYear] += v
				row = append(row, v)
				continue
			}
			row = append(row, cell)
		}
		rows = append(rows, append(row, 0.05, 0.03, 0.01))
	}
	for _, r := range o.Regions {
		row := []any{r}
		for y := o.FirstYear; y <= o.LastYear; y++ {
			row = append(row, 100+float64(y-o.FirstYear))
		}
		rows = append(rows, append(row, 0.02, 0.02, 0.1))
	}
	totals := []any{domain.WorldTotalLabel}
	for _, w := range world {
		totals = append(totals, math.Round(w*1000)/1000)
	}
	rows = append(rows, append(totals, 0.04, 0.04, 1),
		[]any{"of which: OECD", 1, 2, 3},
		[]any{},
		[]any{"Source: synthetic data for local runs."},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// PopulationCSV renders the population table in the WPP CSV layout.
func PopulationCSV(o Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{"SortOrder", "LocID", "ISO3_code", "Location", "Time", "PopMale", "PopFemale", "PopTotal"}}
	order := 1
	for _, c := range o.Countries {
		if c.UNName == "" {
			continue
		}
		for y := o.FirstYear; y <= o.LastYear; y++ {
			total := c.Population * math.Pow(1+c.PopGrowth, float64(y-o.FirstYear))
			rows = append(rows, []string{
				strconv.Itoa(order), strconv.Itoa(order), c.ISO3, c.UNName, strconv.Itoa(y),
				fmtThousands(total / 2), fmtThousands(total / 2), fmtThousands(total),
			})
		}
		order++
	}
	for y := o.FirstYear; y <= o.LastYear; y++ {
		rows = append(rows, []string{strconv.Itoa(order), "900", "", "World", strconv.Itoa(y), "", "", fmtThousands(3e6 + float64(y-o.FirstYear)*7e4)})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fmtThousands(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WritePopulation writes the population table to path. A .zip path gets a
// zip archive holding one CSV entry, a .gz path is gzipped, anything else is
// written as plain CSV.
func WritePopulation(path string, o Options) error {
	data, err := PopulationCSV(o)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		zw := zip.NewWriter(&buf)
		entry := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".csv"
		fw, err := zw.Create(entry)
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	case ".gz":
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return err
		}
		if err := gw.Close(); err != nil {
			return err
		}
	default:
		buf.Write(data)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
