package crime

import (
	"context"
	"sync"
)

// Source loads the statistics of a directory once and hands out the same
// Dataset on every later call. The source files are static for the lifetime
// of the process, so there is no invalidation.
type Source struct {
	dir   string
	years []int

	once sync.Once
	ds   *Dataset
	err  error
}

// NewSource returns a Source over data_<year>.csv files in dir.
func NewSource(dir string, years []int) *Source {
	return &Source{dir: dir, years: years}
}

// Dataset returns the loaded dataset, loading it on the first call. A load
// error is memoized too.
func (s *Source) Dataset(ctx context.Context) (*Dataset, error) {
	s.once.Do(func() {
		s.ds, s.err = LoadDir(ctx, s.dir, s.years)
	})
	return s.ds, s.err
}

// Dir returns the directory the source reads from.
func (s *Source) Dir() string { return s.dir }
