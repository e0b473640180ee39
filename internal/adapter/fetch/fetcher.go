// Package fetch downloads source datasets and caches them on disk by filename.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// statusError is a non-200 response. Only 5xx responses are retried.
type statusError struct {
	url    string
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("download %s: status %d: %s", e.url, e.status, e.body)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= http.StatusInternalServerError
	}
	return true
}

// Fetcher retrieves remote files into a local cache.
type Fetcher struct {
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher whose requests are bounded by timeout. A
// failed download is tried up to attempts times with doubling backoff.
func NewFetcher(timeout time.Duration, attempts int, metrics *observability.Metrics, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		attempts: max(attempts, 1),
		backoff:  initialBackoff,
		metrics:  metrics,
		logger:   logger,
	}
}

// Fetch ensures dest exists. A non-empty file already at dest is reused
// without a request. Otherwise url is downloaded to a temporary file in the
// same directory and renamed into place, so an interrupted download never
// leaves a partial dest behind.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		f.metrics.SourceDownloads.WithLabelValues("cached").Inc()
		f.logger.Info("using cached source", "path", dest, "bytes", info.Size())
		return nil
	}

	if url == "" {
		f.metrics.SourceDownloads.WithLabelValues("error").Inc()
		return fmt.Errorf("%s not found and no download URL configured", dest)
	}

	n, err := f.downloadWithRetry(ctx, url, dest)
	if err != nil {
		f.metrics.SourceDownloads.WithLabelValues("error").Inc()
		return err
	}

	f.metrics.SourceDownloads.WithLabelValues("downloaded").Inc()
	f.logger.Info("source downloaded", "url", url, "path", dest, "bytes", n)
	return nil
}

func (f *Fetcher) downloadWithRetry(ctx context.Context, url, dest string) (int64, error) {
	backoff := f.backoff
	for attempt := 1; ; attempt++ {
		n, err := f.download(ctx, url, dest)
		if err == nil {
			return n, nil
		}
		if attempt >= f.attempts || !retryable(err) {
			return 0, err
		}
		f.logger.Warn("download failed, retrying", "url", url, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return 0, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

func (f *Fetcher) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, &statusError{url: url, status: resp.StatusCode, body: body}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", dest, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("download %s: empty body", url)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("move %s into place: %w", dest, err)
	}
	return n, nil
}
