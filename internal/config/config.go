package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultEnergyURL     = "https://www.bp.com/content/dam/bp/business-sites/en/global/corporate/xlsx/energy-economics/statistical-review/bp-stats-review-2022-all-data.xlsx"
	defaultPopulationURL = "https://population.un.org/wpp/Download/Files/1_Indicators%20(Standard)/CSV_FILES/WPP2022_TotalPopulationBySex.zip"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir        string
	EnergyURL      string
	PopulationURL  string
	EnergyFile     string
	PopulationFile string
	FetchTimeout   time.Duration
	FetchAttempts  int

	HeaderRow     int
	RollingWindow int
	TopN          int
	UnitScale     float64

	// Country vocabulary, optionally overridden by COUNTRY_MAP_FILE.
	CountryMapFile string
	Countries      CountryTables

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Ranking publication; disabled when KafkaBrokers is empty.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "60s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	fetchAttempts, err := parseInt("FETCH_ATTEMPTS", 3, 1)
	if err != nil {
		return nil, err
	}
	headerRow, err := parseInt("HEADER_ROW", 2, 0)
	if err != nil {
		return nil, err
	}
	window, err := parseInt("ROLLING_WINDOW", 10, 1)
	if err != nil {
		return nil, err
	}
	topN, err := parseInt("TOP_N", 20, 1)
	if err != nil {
		return nil, err
	}
	unitScale, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("UNIT_SCALE", "1e6"), 64)
	if err != nil || unitScale <= 0 {
		return nil, errors.New("invalid UNIT_SCALE")
	}

	cfg := &Config{
		DataDir:        sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		EnergyURL:      sharedcfg.EnvOrDefault("ENERGY_URL", defaultEnergyURL),
		PopulationURL:  sharedcfg.EnvOrDefault("POPULATION_URL", defaultPopulationURL),
		FetchTimeout:   fetchTimeout,
		FetchAttempts:  fetchAttempts,
		HeaderRow:      headerRow,
		RollingWindow:  window,
		TopN:           topN,
		UnitScale:      unitScale,
		CountryMapFile: os.Getenv("COUNTRY_MAP_FILE"),
		Countries:      DefaultCountryTables(),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "clean-energy-rankings"),
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	}

	if cfg.EnergyFile, err = sourceFile("ENERGY_FILE", cfg.DataDir, cfg.EnergyURL); err != nil {
		return nil, err
	}
	if cfg.PopulationFile, err = sourceFile("POPULATION_FILE", cfg.DataDir, cfg.PopulationURL); err != nil {
		return nil, err
	}

	if cfg.CountryMapFile != "" {
		tables, err := LoadCountryTables(cfg.CountryMapFile, cfg.Countries)
		if err != nil {
			return nil, fmt.Errorf("COUNTRY_MAP_FILE: %w", err)
		}
		cfg.Countries = tables
	}

	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// KafkaEnabled reports whether rankings are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseInt(key string, def, minimum int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum {
		return 0, fmt.Errorf("invalid %s: must be an integer >= %d", key, minimum)
	}
	return n, nil
}

// sourceFile returns the explicit path in key, or the URL's file name under
// dataDir. The file name doubles as the cache key for downloads.
func sourceFile(key, dataDir, rawURL string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL for %s: %w", key, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("%s: cannot derive a file name from %q", key, rawURL)
	}
	return filepath.Join(dataDir, name), nil
}
