// Package xlsx reads BP generation sheets from an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Reader extracts single sheets from a workbook on disk.
// It implements pipeline.SheetExtractor.
type Reader struct {
	path      string
	headerRow int
	logger    *slog.Logger
}

// NewReader creates a Reader for the workbook at path. headerRow is the
// zero-based row holding column names; rows above it are skipped.
func NewReader(path string, headerRow int, logger *slog.Logger) *Reader {
	return &Reader{path: path, headerRow: headerRow, logger: logger}
}

// ExtractSheet returns the named sheet as a RawTable with raw (unformatted)
// cell values. Each call opens its own handle so sheets can be read
// concurrently.
func (r *Reader) ExtractSheet(ctx context.Context, sheet string) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= r.headerRow {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %d rows, header expected at row %d", sheet, len(rows), r.headerRow)
	}

	table := domain.RawTable{
		Name:   sheet,
		Header: padHeader(rows[r.headerRow], rows[r.headerRow+1:]),
		Rows:   rows[r.headerRow+1:],
	}
	r.logger.Debug("sheet read", "sheet", sheet, "rows", len(table.Rows), "columns", len(table.Header))
	return table, nil
}

// padHeader widens the header to the widest row. excelize trims trailing
// empty cells, so an unlabeled trailing column would otherwise vanish from
// the header and shift the summary-column trim.
func padHeader(header []string, rows [][]string) []string {
	width := len(header)
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([]string, width)
	copy(out, header)
	return out
}
