package rank

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/zalepa/crimerank/crime"
)

// MaxCount is the largest number of municipalities a summary lists.
const MaxCount = 50

// Params are the choices a user makes before a ranking is computed.
type Params struct {
	Year          int
	Categories    []string
	MinPopulation int
	Direction     Direction
	Count         int
}

// DefaultParams selects the latest year and every category of ds, with no
// population threshold and the ten highest rates.
func DefaultParams(ds *crime.Dataset) Params {
	return Params{
		Year:       ds.LatestYear(),
		Categories: ds.Categories(),
		Direction:  Descending,
		Count:      10,
	}
}

// Validate reports ErrInvalidFilter for a selection that can only yield an
// empty ranking, and ErrTopNOutOfRange for a count outside 1..MaxCount.
func (p Params) Validate(ds *crime.Dataset) error {
	if len(p.Categories) == 0 {
		return goerr.Wrap(ErrInvalidFilter, "no category selected")
	}
	if !ds.HasYear(p.Year) {
		return goerr.Wrap(ErrInvalidFilter, "year not in dataset",
			goerr.V("year", p.Year), goerr.V("years", ds.Years()))
	}
	if p.MinPopulation < 0 {
		return goerr.Wrap(ErrInvalidFilter, "minimum population must not be negative",
			goerr.V("min_population", p.MinPopulation))
	}
	if p.Count < 1 || p.Count > MaxCount {
		return goerr.Wrap(ErrTopNOutOfRange, "count must be between 1 and 50", goerr.V("count", p.Count))
	}
	return nil
}

// Compute filters the dataset with p and ranks the result.
func Compute(ds *crime.Dataset, p Params) Ranking {
	return Rank(Filter(ds.Records(), p.Year, p.Categories, p.MinPopulation), p.Direction)
}

// LogValue implements slog.LogValuer.
func (p Params) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", p.Year),
		slog.Int("categories", len(p.Categories)),
		slog.Int("min_population", p.MinPopulation),
		slog.String("direction", p.Direction.String()),
		slog.Int("count", p.Count),
	)
}
