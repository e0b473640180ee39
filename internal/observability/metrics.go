package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clean_energy_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	PipelineRuns       *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration        prometheus.Histogram
	SheetsCleaned      prometheus.Counter
	RowsIngested       *prometheus.CounterVec // labels: table={energy,population}
	UnmatchedCountries prometheus.Gauge
	RankedRows         prometheus.Gauge

	RankingsPublished prometheus.Counter
	SourceDownloads   *prometheus.CounterVec // labels: result={cached,downloaded,error}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRuns,
		m.RunDuration,
		m.SheetsCleaned,
		m.RowsIngested,
		m.UnmatchedCountries,
		m.RankedRows,
		m.RankingsPublished,
		m.SourceDownloads,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SheetsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_cleaned_total",
			Help:      "Energy sheets read and cleaned.",
		}),
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Rows produced by the table builders.",
		}, []string{"table"}),
		UnmatchedCountries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmatched_countries",
			Help:      "Energy country labels without a population match in the last run.",
		}),
		RankedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ranked_rows",
			Help:      "Rows in the last ranking.",
		}),
		RankingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_published_total",
			Help:      "Ranked rows written to the sink topic.",
		}),
		SourceDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_downloads_total",
			Help:      "Source file fetches by result.",
		}, []string{"result"}),
	}
}
