// Package console renders a ranking as a text table.
package console

import (
	"context"
	"io"
	"strconv"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/olekukonko/tablewriter"
)

var header = []string{"Rank", "Country", "Year", "Combined increase", "Source", "Source increase"}

// Printer writes rankings to w. It implements pipeline.RankingLoader.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// LoadRanking renders one line per (country, source). The country columns
// are printed only on the first line of each country.
func (p *Printer) LoadRanking(_ context.Context, ranking domain.Ranking) error {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	prev := ""
	for _, row := range ranking.Rows {
		lead := []string{"", "", "", ""}
		if row.Country != prev {
			prev = row.Country
			lead = []string{
				strconv.Itoa(row.Rank),
				row.Country,
				strconv.Itoa(row.Year),
				formatIncrease(row.CombinedIncrease),
			}
		}
		table.Append(append(lead, row.Source.String(), formatIncrease(row.SourceIncrease)))
	}

	table.Render()
	return nil
}

func formatIncrease(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
