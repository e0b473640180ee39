package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	"golang.org/x/sync/errgroup"
)

// SheetExtractor reads one named sheet of the energy workbook.
type SheetExtractor interface {
	ExtractSheet(ctx context.Context, sheet string) (domain.RawTable, error)
}

// TableExtractor reads the population table.
type TableExtractor interface {
	ExtractTable(ctx context.Context) (domain.RawTable, error)
}

// RankingLoader writes a finished ranking to its destination.
type RankingLoader interface {
	LoadRanking(ctx context.Context, ranking domain.Ranking) error
}

// Loaders fans a ranking out to several loaders in order, stopping at the
// first failure.
type Loaders []RankingLoader

func (ls Loaders) LoadRanking(ctx context.Context, ranking domain.Ranking) error {
	for _, l := range ls {
		if err := l.LoadRanking(ctx, ranking); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline orchestrates one extract-transform-load run.
type Pipeline struct {
	sheets      SheetExtractor
	population  TableExtractor
	transformer *Transformer
	loader      RankingLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	latest      atomic.Pointer[domain.Ranking]
}

// New creates a Pipeline with the given stages and observability.
func New(sheets SheetExtractor, population TableExtractor, t *Transformer, l RankingLoader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		sheets:      sheets,
		population:  population,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Latest returns the ranking of the last successful run.
func (p *Pipeline) Latest() (domain.Ranking, bool) {
	r := p.latest.Load()
	if r == nil {
		return domain.Ranking{}, false
	}
	return *r, true
}

// Run executes one full run: extract, transform, load. The ranking is
// returned and retained for Latest only if every stage succeeds.
func (p *Pipeline) Run(ctx context.Context) (domain.Ranking, error) {
	start := time.Now()
	p.logger.Info("pipeline started")

	ranking, err := p.run(ctx)
	if err != nil {
		p.metrics.PipelineRuns.WithLabelValues("error").Inc()
		p.logger.Error("pipeline failed", "error", err, "elapsed", time.Since(start))
		return domain.Ranking{}, err
	}

	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.latest.Store(&ranking)
	p.ready.Store(true)
	p.logger.Info("pipeline finished",
		"countries", len(ranking.Countries()),
		"rows", len(ranking.Rows),
		"elapsed", time.Since(start),
	)
	return ranking, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Ranking, error) {
	in, err := p.Extract(ctx)
	if err != nil {
		return domain.Ranking{}, err
	}

	prepared, err := p.transformer.Prepare(in)
	if err != nil {
		return domain.Ranking{}, err
	}
	p.metrics.SheetsCleaned.Add(float64(len(in.Sheets)))
	p.metrics.RowsIngested.WithLabelValues("energy").Add(float64(len(prepared.Energy)))
	p.metrics.RowsIngested.WithLabelValues("population").Add(float64(len(prepared.Population)))

	unmatched := prepared.Unmatched()
	p.metrics.UnmatchedCountries.Set(float64(len(unmatched)))
	for _, c := range unmatched {
		p.logger.Warn("energy country has no population match", "country", c)
	}

	ranking := domain.NewRanking(p.transformer.Rank(prepared))
	p.metrics.RankedRows.Set(float64(len(ranking.Rows)))

	if p.loader != nil {
		if err := p.loader.LoadRanking(ctx, ranking); err != nil {
			return domain.Ranking{}, fmt.Errorf("load ranking: %w", err)
		}
	}
	return ranking, nil
}

// Extract reads the four energy sheets and the population table
// concurrently. The first failure cancels the remaining reads.
func (p *Pipeline) Extract(ctx context.Context) (Inputs, error) {
	var (
		sheets     [len(domain.Sources)]domain.RawTable
		population domain.RawTable
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range domain.Sources {
		name := p.transformer.SheetName(s)
		g.Go(func() error {
			raw, err := p.sheets.ExtractSheet(gctx, name)
			if err != nil {
				return fmt.Errorf("extract %s sheet: %w", s, err)
			}
			sheets[i] = raw
			return nil
		})
	}
	g.Go(func() error {
		raw, err := p.population.ExtractTable(gctx)
		if err != nil {
			return fmt.Errorf("extract population table: %w", err)
		}
		population = raw
		return nil
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}

	in := Inputs{
		Sheets:     make(map[domain.Source]domain.RawTable, len(sheets)),
		Population: population,
	}
	for i, s := range domain.Sources {
		in.Sheets[s] = sheets[i]
	}
	return in, nil
}
