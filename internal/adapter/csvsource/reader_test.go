package csvsource

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "\uFEFFISO3_code,Location,Time,PopTotal\n" +
	"NOR,Norway,2020,5379.839\n" +
	"NOR,Norway,2021,5403.021\n" +
	",\"Latin America and the Caribbean\",2021,656098.1\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, entries map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReader_ExtractTable(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     func(t *testing.T) []byte
		wantName string
	}{
		{
			name:     "plain",
			file:     "pop.csv",
			data:     func(*testing.T) []byte { return []byte(testCSV) },
			wantName: "pop.csv",
		},
		{
			name:     "gzip",
			file:     "pop.csv.gz",
			data:     func(t *testing.T) []byte { return gzipped(t, testCSV) },
			wantName: "pop.csv",
		},
		{
			name:     "gzip without suffix",
			file:     "pop.bin",
			data:     func(t *testing.T) []byte { return gzipped(t, testCSV) },
			wantName: "pop.bin",
		},
		{
			name: "zip",
			file: "WPP2022_TotalPopulationBySex.zip",
			data: func(t *testing.T) []byte {
				return zipped(t, map[string]string{
					"README.txt":                       "notes",
					"WPP2022_TotalPopulationBySex.csv": testCSV,
				}, "README.txt", "WPP2022_TotalPopulationBySex.csv")
			},
			wantName: "WPP2022_TotalPopulationBySex.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data(t))

			table, err := NewReader(path, discardLogger()).ExtractTable(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantName, table.Name)
			assert.Equal(t, []string{"ISO3_code", "Location", "Time", "PopTotal"}, table.Header)
			require.Len(t, table.Rows, 3)
			assert.Equal(t, []string{"NOR", "Norway", "2021", "5403.021"}, table.Rows[1])
			assert.Equal(t, "Latin America and the Caribbean", table.Rows[2][1])
		})
	}
}

func TestReader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv"), discardLogger()).ExtractTable(context.Background())
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", nil)
		_, err := NewReader(path, discardLogger()).ExtractTable(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty file")
	})

	t.Run("zip without csv", func(t *testing.T) {
		path := writeFile(t, "docs.zip", zipped(t, map[string]string{"a.txt": "x"}, "a.txt"))
		_, err := NewReader(path, discardLogger()).ExtractTable(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .csv entry")
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeFile(t, "pop.csv", []byte(testCSV))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewReader(path, discardLogger()).ExtractTable(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
