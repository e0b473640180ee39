package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CleanEnergySheet trims a raw BP generation sheet to country rows and year
// columns. It keeps rows up to and including the first "Total World" row whose
// label is non-empty and not denylisted, and drops the trailing summary
// columns. A sheet without the sentinel row is rejected with ErrMalformedSheet.
func CleanEnergySheet(raw RawTable, source Source, denylist []string) (EnergySheet, error) {
	width := len(raw.Header) - TrailingSummaryColumns
	if width < 2 {
		return EnergySheet{}, fmt.Errorf("%w: sheet %q has %d columns, need at least %d",
			ErrMalformedSheet, raw.Name, len(raw.Header), TrailingSummaryColumns+2)
	}

	sentinel := slices.IndexFunc(raw.Rows, func(row []string) bool {
		return len(row) > 0 && row[0] == WorldTotalLabel
	})
	if sentinel < 0 {
		return EnergySheet{}, fmt.Errorf("%w: sheet %q has no %q row", ErrMalformedSheet, raw.Name, WorldTotalLabel)
	}

	years := make([]int, 0, width-1)
	for _, h := range raw.Header[1:width] {
		y, err := parseYear(h)
		if err != nil {
			return EnergySheet{}, fmt.Errorf("%w: sheet %q: %w", ErrMalformedSheet, raw.Name, err)
		}
		years = append(years, y)
	}

	deny := make(map[string]bool, len(denylist))
	for _, d := range denylist {
		deny[d] = true
	}

	sheet := EnergySheet{
		Source:    source,
		LabelName: raw.Header[0],
		Years:     years,
	}
	for r := 0; r <= sentinel; r++ {
		label := raw.Cell(r, 0)
		if strings.TrimSpace(label) == "" || deny[label] {
			continue
		}
		values := make([]Value, len(years))
		for j := range years {
			values[j] = ParseValue(raw.Cell(r, j+1))
		}
		sheet.Labels = append(sheet.Labels, label)
		sheet.Generation = append(sheet.Generation, values)
	}
	return sheet, nil
}

// Columns returns the number of columns of the cleaned sheet, label included.
func (s EnergySheet) Columns() int {
	return len(s.Years) + 1
}

// parseYear accepts "1965" as well as the "1965.0" some readers produce for
// numeric header cells.
func parseYear(h string) (int, error) {
	h = strings.TrimSpace(h)
	if y, err := strconv.Atoi(h); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(h, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("header %q is not a year", h)
	}
	return int(f), nil
}
