package rank

import (
	"errors"
	"slices"
	"sort"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/zalepa/crimerank/crime"
)

func rec(year int, muni, cat string, facts, pop int) crime.Record {
	return crime.Record{Year: year, Municipality: muni, Category: cat, Facts: facts, Population: pop}
}

var sample = []crime.Record{
	rec(2020, "A", "X", 10, 1000),
	rec(2020, "A", "Y", 5, 1000),
	rec(2020, "B", "X", 1, 500),
}

func TestRank_Example(t *testing.T) {
	filtered := Filter(sample, 2020, []string{"X", "Y"}, 0)
	ranking := Rank(filtered, Descending)

	gt.Equal(t, ranking.Entries, []Entry{
		{Municipality: "A", TotalFacts: 15, Population: 1000, RatePerThousand: 15, Rank: 1},
		{Municipality: "B", TotalFacts: 1, Population: 500, RatePerThousand: 2, Rank: 2},
	})

	_, err := Lookup(ranking, "C")
	gt.True(t, errors.Is(err, ErrNotFound))

	top, err := TopN(ranking, 1)
	gt.NoError(t, err)
	gt.Equal(t, len(top), 1)
	gt.Equal(t, top[0].Municipality, "A")
}

func TestFilter(t *testing.T) {
	records := []crime.Record{
		rec(2020, "A", "X", 1, 100),
		rec(2020, "B", "X", 1, 5000),
		rec(2020, "B", "Z", 1, 5000),
		rec(2021, "B", "X", 1, 5000),
	}
	tests := []struct {
		name   string
		year   int
		cats   []string
		minPop int
		want   int
	}{
		{"all", 2020, []string{"X", "Z"}, 0, 3},
		{"category subset", 2020, []string{"X"}, 0, 2},
		{"population threshold inclusive", 2020, []string{"X", "Z"}, 5000, 2},
		{"threshold above all", 2020, []string{"X", "Z"}, 5001, 0},
		{"year absent", 2019, []string{"X"}, 0, 0},
		{"no category", 2020, nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.year, tt.cats, tt.minPop)
			gt.Equal(t, len(got), tt.want)
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := slices.Clone(sample)
	_ = Rank(Filter(records, 2020, []string{"X"}, 0), Ascending)
	gt.Equal(t, records, sample)
}

func TestRank_TotalFactsOnlySelectedCategories(t *testing.T) {
	ranking := Rank(Filter(sample, 2020, []string{"Y"}, 0), Descending)
	gt.Equal(t, len(ranking.Entries), 1)
	gt.Equal(t, ranking.Entries[0].TotalFacts, 5)
}

func TestRank_Ties(t *testing.T) {
	records := []crime.Record{
		rec(2020, "A", "X", 30, 1000), // 30
		rec(2020, "B", "X", 20, 1000), // 20
		rec(2020, "C", "X", 40, 2000), // 20
		rec(2020, "D", "X", 10, 1000), // 10
	}

	desc := Rank(records, Descending)
	gt.Equal(t, names(desc), []string{"A", "B", "C", "D"})
	gt.Equal(t, ranks(desc), []int{1, 2, 2, 4})

	asc := Rank(records, Ascending)
	gt.Equal(t, names(asc), []string{"D", "B", "C", "A"})
	gt.Equal(t, ranks(asc), []int{1, 2, 2, 4})
}

func TestRank_Properties(t *testing.T) {
	records := []crime.Record{
		rec(2020, "A", "X", 3, 100),
		rec(2020, "A", "Y", 4, 100),
		rec(2020, "B", "X", 7, 100),
		rec(2020, "C", "X", 1, 300),
		rec(2020, "D", "X", 9, 900),
		rec(2020, "E", "Y", 0, 50),
	}

	for _, dir := range []Direction{Descending, Ascending} {
		r := Rank(records, dir)
		gt.Equal(t, r.Len(), 5)
		for i := 1; i < r.Len(); i++ {
			prev, cur := r.Entries[i-1], r.Entries[i]
			gt.True(t, cur.Rank >= prev.Rank)
			if cur.RatePerThousand == prev.RatePerThousand {
				gt.Equal(t, cur.Rank, prev.Rank)
			}
		}
	}

	// Flipping direction keeps the set of rates.
	desc, asc := rates(Rank(records, Descending)), rates(Rank(records, Ascending))
	slices.Reverse(asc)
	gt.Equal(t, desc, asc)
	gt.True(t, sort.IsSorted(sort.Reverse(sort.Float64Slice(desc))))
}

func TestRank_ZeroPopulation(t *testing.T) {
	records := []crime.Record{
		rec(2020, "A", "X", 3, 100),
		rec(2020, "Ghost", "X", 2, 0),
		rec(2020, "Ghost", "Y", 1, 0),
	}
	r := Rank(records, Descending)
	gt.Equal(t, names(r), []string{"A"})
	gt.Equal(t, r.Undefined, []string{"Ghost"})

	_, err := Lookup(r, "Ghost")
	gt.True(t, errors.Is(err, ErrRateUndefined))
	gt.False(t, errors.Is(err, ErrNotFound))
}

func TestRank_Empty(t *testing.T) {
	r := Rank(nil, Descending)
	gt.Equal(t, r.Len(), 0)
	top, err := TopN(r, 10)
	gt.NoError(t, err)
	gt.Equal(t, len(top), 0)
}

func TestTopN(t *testing.T) {
	r := Rank(sample, Descending)

	all, err := TopN(r, 10)
	gt.NoError(t, err)
	gt.Equal(t, len(all), 2)

	none, err := TopN(r, 0)
	gt.NoError(t, err)
	gt.Equal(t, len(none), 0)

	_, err = TopN(r, -1)
	gt.True(t, errors.Is(err, ErrTopNOutOfRange))
}

func TestLookup(t *testing.T) {
	r := Rank(sample, Descending)
	e, err := Lookup(r, "B")
	gt.NoError(t, err)
	gt.Equal(t, e.Rank, 2)
	gt.Equal(t, e.RatePerThousand, 2.0)
}

func TestEvolution(t *testing.T) {
	records := []crime.Record{
		rec(2021, "A", "X", 20, 1000),
		rec(2020, "A", "X", 10, 1000),
		rec(2020, "A", "Y", 5, 1000),
		rec(2022, "A", "Y", 5, 1000),
		rec(2020, "B", "X", 1, 500),
		rec(2021, "B", "X", 2, 0),
		rec(2020, "C", "X", 9, 100),
	}

	points := Evolution(records, []string{"B", "A"}, []string{"X"})
	gt.Equal(t, points, []Point{
		{Municipality: "A", Year: 2020, TotalFacts: 10, Population: 1000, RatePerThousand: 10},
		{Municipality: "A", Year: 2021, TotalFacts: 20, Population: 1000, RatePerThousand: 20},
		{Municipality: "B", Year: 2020, TotalFacts: 1, Population: 500, RatePerThousand: 2},
	})

	single := Evolution(records, []string{"A"}, []string{"X", "Y"})
	years := make([]int, len(single))
	for i, p := range single {
		years[i] = p.Year
	}
	gt.Equal(t, years, []int{2020, 2021, 2022})
	gt.Equal(t, single[0].TotalFacts, 15)

	gt.Equal(t, len(Evolution(records, nil, []string{"X"})), 0)
	gt.Equal(t, len(Evolution(records, []string{"A"}, nil)), 0)
}

func TestSeries(t *testing.T) {
	points := Evolution(sample, []string{"A", "B"}, []string{"X", "Y"})

	lines := Series(points, []string{"B", "A", "Missing"})
	gt.Equal(t, len(lines), 2)
	gt.Equal(t, lines[0].Municipality, "B")
	gt.Equal(t, lines[1].Municipality, "A")

	byName := Series(points, nil)
	gt.Equal(t, byName[0].Municipality, "A")
	gt.Equal(t, Years(byName), []int{2020})
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"", Descending},
		{"desc", Descending},
		{"plus-hauts", Descending},
		{"ASC", Ascending},
		{"plus bas", Ascending},
		{"lowest", Ascending},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		gt.NoError(t, err)
		gt.Equal(t, got, tt.want)
	}

	_, err := ParseDirection("sideways")
	gt.True(t, errors.Is(err, ErrInvalidFilter))
}

func names(r Ranking) []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Municipality
	}
	return out
}

func ranks(r Ranking) []int {
	out := make([]int, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Rank
	}
	return out
}

func rates(r Ranking) []float64 {
	out := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.RatePerThousand
	}
	return out
}
