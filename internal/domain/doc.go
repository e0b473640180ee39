// Package domain models the clean-energy per-capita ranking: BP electricity
// generation sheets joined with UN population estimates.
//
// # Data Sources
//
// Generation data comes from the BP Statistical Review of World Energy
// workbook (bp-stats-review-2022-all-data.xlsx). Population data comes from
// the UN World Population Prospects "Total Population by Sex" CSV
// (WPP2022_TotalPopulationBySex), distributed zipped.
//
// # BP Sheet Conventions
//
// Each generation sheet ("Hydro Generation - TWh", "Nuclear Generation - TWh",
// "Solar Generation - TWh", "Wind Generation - TWh") has the same layout:
//
//	row 0-1   title and unit banner (skipped by the reader)
//	row 2     header: label column, one column per year, 3 summary columns
//	row 3..   one row per country, interleaved with regional subtotals
//	          ("Total Europe", "Other CIS", ...) and blank spacer rows
//	"Total World"  the world-total sentinel; everything below is footnotes
//
// The last three columns hold growth rates and shares, never generation.
// Values are terawatt-hours. Cells such as "-" or "n/a" are read as undefined.
//
// # UN Population Conventions
//
// The CSV is one row per (location, year, variant). Only ISO3_code, Location,
// Time and PopTotal are used. PopTotal is in thousands of persons, so
// TWh / PopTotal * 1e6 yields kWh per person.
//
// # Country Identity
//
// The two sources spell countries differently ("US" vs "United States of
// America", "Vietnam" vs "Viet Nam"). Both vocabularies are rewritten to a
// shared canonical spelling by exact match. BP also reports "USSR" until 1984
// and "Russian Federation" from 1985, while the UN reports Russian Federation
// throughout; the two BP series are summed into one.
//
// # Undefined Values
//
// [Value] carries an explicit Valid flag. Per-capita division, differencing
// and rolling means propagate undefined. Cross-source combination in [Rank]
// substitutes zero for undefined. Both behaviours are deliberate and kept
// separate.
package domain
