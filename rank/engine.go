package rank

import (
	"slices"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/zalepa/crimerank/crime"
)

// accumulator sums facts and population over the category rows of one group.
// Population is repeated on every category row, so it is averaged, not summed.
type accumulator struct {
	facts  int
	popSum int
	rows   int
}

func (a *accumulator) add(r crime.Record) {
	a.facts += r.Facts
	a.popSum += r.Population
	a.rows++
}

func (a *accumulator) population() float64 {
	if a.rows == 0 {
		return 0
	}
	return float64(a.popSum) / float64(a.rows)
}

// rate returns facts per thousand inhabitants. ok is false when population is
// zero and the rate is undefined.
func (a *accumulator) rate() (rate float64, ok bool) {
	pop := a.population()
	if pop == 0 {
		return 0, false
	}
	return float64(a.facts) / pop * 1000, true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Filter keeps the records of year whose category is in categories and
// whose population is at least minPopulation. An empty category list keeps
// nothing.
func Filter(records []crime.Record, year int, categories []string, minPopulation int) []crime.Record {
	if len(categories) == 0 {
		return nil
	}
	allowed := toSet(categories)

	var out []crime.Record
	for _, r := range records {
		if r.Year == year && allowed[r.Category] && r.Population >= minPopulation {
			out = append(out, r)
		}
	}
	return out
}

// Rank groups records by municipality and orders them by rate per thousand.
// Equal rates share the lowest rank of their group, so ranks can skip ahead
// (1, 2, 2, 4). Equal rates are listed by municipality name.
func Rank(records []crime.Record, dir Direction) Ranking {
	groups := make(map[string]*accumulator)
	for _, r := range records {
		a, ok := groups[r.Municipality]
		if !ok {
			a = &accumulator{}
			groups[r.Municipality] = a
		}
		a.add(r)
	}

	ranking := Ranking{Direction: dir, Entries: make([]Entry, 0, len(groups))}
	for name, a := range groups {
		rate, ok := a.rate()
		if !ok {
			ranking.Undefined = append(ranking.Undefined, name)
			continue
		}
		ranking.Entries = append(ranking.Entries, Entry{
			Municipality:    name,
			TotalFacts:      a.facts,
			Population:      a.population(),
			RatePerThousand: rate,
		})
	}
	sort.Strings(ranking.Undefined)

	entries := ranking.Entries
	sort.Slice(entries, func(i, j int) bool {
		ri, rj := entries[i].RatePerThousand, entries[j].RatePerThousand
		if ri != rj {
			if dir == Ascending {
				return ri < rj
			}
			return ri > rj
		}
		return entries[i].Municipality < entries[j].Municipality
	})
	for i := range entries {
		if i > 0 && entries[i].RatePerThousand == entries[i-1].RatePerThousand {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return ranking
}

// TopN returns the first n entries of the ranking, or all of them when n is
// larger than the ranking.
func TopN(ranking Ranking, n int) ([]Entry, error) {
	if n < 0 {
		return nil, goerr.Wrap(ErrTopNOutOfRange, "count must not be negative", goerr.V("n", n))
	}
	if n > len(ranking.Entries) {
		n = len(ranking.Entries)
	}
	return ranking.Entries[:n:n], nil
}

// Lookup finds municipality in the ranking. It returns ErrRateUndefined when
// the municipality was left out for a zero population and ErrNotFound when it
// is not part of the filtered set at all.
func Lookup(ranking Ranking, municipality string) (Entry, error) {
	i := slices.IndexFunc(ranking.Entries, func(e Entry) bool {
		return e.Municipality == municipality
	})
	if i >= 0 {
		return ranking.Entries[i], nil
	}
	if slices.Contains(ranking.Undefined, municipality) {
		return Entry{}, goerr.Wrap(ErrRateUndefined, "cannot rank municipality", goerr.V("municipality", municipality))
	}
	return Entry{}, goerr.Wrap(ErrNotFound, "cannot find municipality", goerr.V("municipality", municipality))
}

type pointKey struct {
	municipality string
	year         int
}

// Evolution aggregates the records of municipalities over categories for
// every year present, ordered by municipality then year. Years where the
// population is zero are skipped.
func Evolution(records []crime.Record, municipalities, categories []string) []Point {
	if len(municipalities) == 0 || len(categories) == 0 {
		return nil
	}
	munis := toSet(municipalities)
	cats := toSet(categories)

	groups := make(map[pointKey]*accumulator)
	for _, r := range records {
		if !munis[r.Municipality] || !cats[r.Category] {
			continue
		}
		k := pointKey{r.Municipality, r.Year}
		a, ok := groups[k]
		if !ok {
			a = &accumulator{}
			groups[k] = a
		}
		a.add(r)
	}

	points := make([]Point, 0, len(groups))
	for k, a := range groups {
		rate, ok := a.rate()
		if !ok {
			continue
		}
		points = append(points, Point{
			Municipality:    k.municipality,
			Year:            k.year,
			TotalFacts:      a.facts,
			Population:      a.population(),
			RatePerThousand: rate,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Municipality != points[j].Municipality {
			return points[i].Municipality < points[j].Municipality
		}
		return points[i].Year < points[j].Year
	})
	return points
}

// Series splits points into one line per municipality. Lines follow order;
// municipalities missing from order come after, by name. Municipalities
// without points get no line.
func Series(points []Point, order []string) []Line {
	byName := make(map[string][]Point)
	var names []string
	for _, p := range points {
		if _, ok := byName[p.Municipality]; !ok {
			names = append(names, p.Municipality)
		}
		byName[p.Municipality] = append(byName[p.Municipality], p)
	}

	lines := make([]Line, 0, len(byName))
	seen := make(map[string]bool, len(byName))
	for _, name := range order {
		pts, ok := byName[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		lines = append(lines, Line{Municipality: name, Points: pts})
	}
	sort.Strings(names)
	for _, name := range names {
		if !seen[name] {
			lines = append(lines, Line{Municipality: name, Points: byName[name]})
		}
	}
	return lines
}

// Years returns the distinct years across lines, ascending.
func Years(lines []Line) []int {
	set := make(map[int]bool)
	for _, l := range lines {
		for _, p := range l.Points {
			set[p.Year] = true
		}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
