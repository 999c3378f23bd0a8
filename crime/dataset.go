package crime

import (
	"slices"
	"sort"
)

// Dataset is the immutable set of records loaded for a session, along with
// the distinct values a caller picks filters from.
type Dataset struct {
	records        []Record
	years          []int
	categories     []string
	municipalities []string
}

// NewDataset builds a Dataset over records. The slice is owned by the
// Dataset afterwards and must not be modified by the caller.
func NewDataset(records []Record) *Dataset {
	yearSet := make(map[int]bool)
	catSet := make(map[string]bool)
	muniSet := make(map[string]bool)

	ds := &Dataset{records: records}
	for _, r := range records {
		if !yearSet[r.Year] {
			yearSet[r.Year] = true
			ds.years = append(ds.years, r.Year)
		}
		// Categories keep their order of first appearance, which is the order
		// of the source files.
		if !catSet[r.Category] {
			catSet[r.Category] = true
			ds.categories = append(ds.categories, r.Category)
		}
		muniSet[r.Municipality] = true
	}

	// Most recent year first.
	sort.Sort(sort.Reverse(sort.IntSlice(ds.years)))

	ds.municipalities = make([]string, 0, len(muniSet))
	for m := range muniSet {
		ds.municipalities = append(ds.municipalities, m)
	}
	sort.Strings(ds.municipalities)
	return ds
}

// Records returns every loaded record. The returned slice is shared and must
// be treated as read-only.
func (ds *Dataset) Records() []Record { return ds.records }

// Years returns the distinct years, most recent first.
func (ds *Dataset) Years() []int { return slices.Clone(ds.years) }

// Categories returns the distinct categories in order of first appearance.
func (ds *Dataset) Categories() []string { return slices.Clone(ds.categories) }

// Municipalities returns the distinct municipality names, sorted.
func (ds *Dataset) Municipalities() []string { return slices.Clone(ds.municipalities) }

// HasYear reports whether any record belongs to year.
func (ds *Dataset) HasYear(year int) bool { return slices.Contains(ds.years, year) }

// LatestYear returns the most recent year, or 0 for an empty dataset.
func (ds *Dataset) LatestYear() int {
	if len(ds.years) == 0 {
		return 0
	}
	return ds.years[0]
}

// Len returns the number of records.
func (ds *Dataset) Len() int { return len(ds.records) }
