package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "ISO3_code,Location,Time,PopTotal\nNOR,Norway,2021,5403.021\n"

func testFetcher() (*Fetcher, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	f := NewFetcher(5*time.Second, 3, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.backoff = time.Millisecond
	return f, m
}

func TestFetcher_Downloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/WPP2022.csv", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f, m := testFetcher()
	dest := filepath.Join(t.TempDir(), "nested", "WPP2022.csv")

	require.NoError(t, f.Fetch(context.Background(), srv.URL+"/WPP2022.csv", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceDownloads.WithLabelValues("downloaded")), 0)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(dest), "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFetcher_UsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "bp.xlsx")
	require.NoError(t, os.WriteFile(dest, []byte("cached"), 0o600))

	f, m := testFetcher()
	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(got))
	assert.Zero(t, hits.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceDownloads.WithLabelValues("cached")), 0)
}

func TestFetcher_RefetchesEmptyFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "pop.csv")
	require.NoError(t, os.WriteFile(dest, nil, 0o600))

	f, _ := testFetcher()
	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f, m := testFetcher()
	dest := filepath.Join(t.TempDir(), "pop.csv")
	require.NoError(t, f.Fetch(context.Background(), srv.URL, dest))
	assert.Equal(t, int32(3), hits.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceDownloads.WithLabelValues("downloaded")), 0)
}

func TestFetcher_GivesUpAfterAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f, _ := testFetcher()
	err := f.Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "pop.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetcher_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		f, m := testFetcher()
		dest := filepath.Join(t.TempDir(), "pop.csv")
		err := f.Fetch(context.Background(), srv.URL, dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.Equal(t, int32(1), hits.Load())
		assert.NoFileExists(t, dest)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SourceDownloads.WithLabelValues("error")), 0)
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		f, _ := testFetcher()
		dest := filepath.Join(t.TempDir(), "pop.csv")
		err := f.Fetch(context.Background(), srv.URL, dest)
		require.Error(t, err)
		assert.NoFileExists(t, dest)
	})

	t.Run("no url and no cache", func(t *testing.T) {
		f, _ := testFetcher()
		err := f.Fetch(context.Background(), "", filepath.Join(t.TempDir(), "pop.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no download URL")
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f, _ := testFetcher()
		err := f.Fetch(ctx, srv.URL, filepath.Join(t.TempDir(), "pop.csv"))
		require.ErrorIs(t, err, context.Canceled)
	})
}
