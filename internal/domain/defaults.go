package domain

const (
	// WorldTotalLabel marks the end of per-country data in a BP sheet.
	WorldTotalLabel = "Total World"

	// TrailingSummaryColumns is the number of growth/share columns at the
	// right edge of every BP sheet.
	TrailingSummaryColumns = 3

	DefaultHeaderRow     = 2
	DefaultRollingWindow = 10
	DefaultTopN          = 20

	// DefaultUnitScale converts TWh per thousand persons to kWh per person.
	DefaultUnitScale = 1e6
)

// DefaultSheetNames maps each Source to its BP sheet.
var DefaultSheetNames = map[Source]string{
	Hydro:   "Hydro Generation - TWh",
	Nuclear: "Nuclear Generation - TWh",
	Solar:   "Solar Generation - TWh",
	Wind:    "Wind Generation - TWh",
}

// DefaultDenylist holds BP aggregate-region labels that are not countries.
var DefaultDenylist = []string{
	"Total North America", "Central America", "Other Caribbean", "Other South America",
	"Total S. & Cent. America", "Other Europe", "Total Europe", "Other CIS", "Total CIS",
	"Other Middle East", "Total Middle East", "Eastern Africa", "Middle Africa",
	"Western Africa", "Other Northern Africa", "Other Southern Africa", "Total Africa",
	"Other Asia Pacific", "Total Asia Pacific", WorldTotalLabel,
}

// DefaultEnergyNames rewrites BP spellings to canonical labels.
var DefaultEnergyNames = []NamePair{
	{From: "US", To: "United States"},
	{From: "Trinidad & Tobago", To: "Trinidad and Tobago"},
	{From: "China Hong Kong SAR", To: "Hong Kong"},
}

// DefaultPopulationNames rewrites UN spellings to canonical labels.
var DefaultPopulationNames = []NamePair{
	{From: "United States of America", To: "United States"},
	{From: "Czechia", To: "Czech Republic"},
	{From: "Türkiye", To: "Turkey"},
	{From: "Iran (Islamic Republic of)", To: "Iran"},
	{From: "Venezuela (Bolivarian Republic of)", To: "Venezuela"},
	{From: "China, Hong Kong SAR", To: "Hong Kong"},
	{From: "China, Taiwan Province of China", To: "Taiwan"},
	{From: "Republic of Korea", To: "South Korea"},
	{From: "Viet Nam", To: "Vietnam"},
}

// DefaultMerges folds the USSR series into the Russian Federation.
var DefaultMerges = []EntityMerge{
	{From: "USSR", Into: "Russian Federation"},
}
