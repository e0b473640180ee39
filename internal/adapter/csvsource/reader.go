// Package csvsource reads delimited tables that may arrive plain, gzipped, or
// as the first CSV entry of a zip archive.
package csvsource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte("PK\x03\x04")
	utf8BOM   = "\uFEFF"
)

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 10000

// Reader loads a whole CSV file into memory.
// It implements pipeline.TableExtractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ExtractTable reads the file, using the first record as header.
func (r *Reader) ExtractTable(ctx context.Context) (domain.RawTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(len(zipMagic))

	var src io.Reader = br
	name := filepath.Base(r.path)
	switch {
	case bytes.HasPrefix(head, zipMagic):
		rc, entry, err := openZipEntry(r.path)
		if err != nil {
			return domain.RawTable{}, err
		}
		defer rc.Close()
		src, name = rc, entry
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	table, err := readCSV(ctx, src)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read %s: %w", name, err)
	}
	table.Name = name
	r.logger.Debug("table read", "file", r.path, "entry", name, "rows", len(table.Rows))
	return table, nil
}

// openZipEntry opens the first .csv entry of the archive at path.
func openZipEntry(path string) (io.ReadCloser, string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open zip %s: %w", path, err)
	}
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, "", fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		return &zipEntry{ReadCloser: rc, archive: zr}, f.Name, nil
	}
	zr.Close()
	return nil, "", fmt.Errorf("zip %s contains no .csv entry", path)
}

// zipEntry closes the archive together with the entry.
type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntry) Close() error {
	return errors.Join(z.ReadCloser.Close(), z.archive.Close())
}

func readCSV(ctx context.Context, src io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.RawTable{}, errors.New("empty file")
		}
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := domain.RawTable{Header: header}
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return domain.RawTable{}, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, err
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
