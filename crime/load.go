package crime

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingColumn = goerr.New("missing required column")
	ErrInvalidValue  = goerr.New("invalid value")
)

// FileName returns the name of the statistics file for year.
func FileName(year int) string {
	return fmt.Sprintf("data_%d.csv", year)
}

// ReadCSV parses records from r. name is only used in error context.
// Columns are located by header name, so their order does not matter and
// extra columns are ignored.
func ReadCSV(r io.Reader, name string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read header", goerr.V("file", name))
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Some exports carry a UTF-8 BOM on the first header cell.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[h] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, goerr.Wrap(ErrMissingColumn, "cannot read statistics file",
				goerr.V("file", name), goerr.V("column", col))
		}
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read row", goerr.V("file", name), goerr.V("line", line))
		}

		rec := Record{
			Municipality: strings.TrimSpace(row[idx[ColumnMunicipality]]),
			Category:     strings.TrimSpace(row[idx[ColumnCategory]]),
		}
		for _, f := range []struct {
			col string
			dst *int
		}{
			{ColumnYear, &rec.Year},
			{ColumnFacts, &rec.Facts},
			{ColumnPopulation, &rec.Population},
		} {
			v, err := parseCount(row[idx[f.col]])
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidValue, err.Error(),
					goerr.V("file", name), goerr.V("line", line), goerr.V("column", f.col))
			}
			*f.dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseCount parses a non-negative integer. Integral floats ("1234.0") are
// accepted since some exports write counts that way.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		v = int(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return v, nil
}

// LoadFile reads one statistics file.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open statistics file", goerr.V("path", path))
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path))
}

// LoadDir reads data_<year>.csv for every year in years from dir and returns
// the combined dataset. Files are read concurrently but records keep the
// order of years.
func LoadDir(ctx context.Context, dir string, years []int) (*Dataset, error) {
	logger := ctxlog.From(ctx)
	parts := make([][]Record, len(years))

	g, ctx := errgroup.WithContext(ctx)
	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := LoadFile(filepath.Join(dir, FileName(year)))
			if err != nil {
				return goerr.Wrap(err, "failed to load year", goerr.V("year", year))
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	records := make([]Record, 0, total)
	for _, p := range parts {
		records = append(records, p...)
	}

	logger.Debug("loaded statistics", "dir", dir, "years", len(years), "records", total)
	return NewDataset(records), nil
}

// YearRange returns the years from first to last inclusive.
func YearRange(first, last int) []int {
	if last < first {
		return nil
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
