package rank

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidFilter  = goerr.New("invalid filter")
	ErrRateUndefined  = goerr.New("rate undefined for zero population")
	ErrNotFound       = goerr.New("municipality not in ranking")
	ErrTopNOutOfRange = goerr.New("top-n count out of range")
)

// Direction selects which end of the ranking comes first.
type Direction int

const (
	// Descending puts the highest rates first.
	Descending Direction = iota
	// Ascending puts the lowest rates first.
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Word is the French adjective used in sentences: "haut" or "bas".
func (d Direction) Word() string {
	if d == Ascending {
		return "bas"
	}
	return "haut"
}

// ParseDirection accepts asc/desc and a few spellings used by the dashboard.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending", "highest", "plus-hauts", "plus hauts":
		return Descending, nil
	case "asc", "ascending", "lowest", "plus-bas", "plus bas":
		return Ascending, nil
	}
	return Descending, goerr.Wrap(ErrInvalidFilter, "unknown direction", goerr.V("direction", s))
}

// Entry is one municipality in a ranking.
type Entry struct {
	Municipality    string  `json:"municipality"`
	TotalFacts      int     `json:"totalFacts"`
	Population      float64 `json:"population"`
	RatePerThousand float64 `json:"ratePerThousand"`
	Rank            int     `json:"rank"`
}

// Point is the aggregate of one municipality for one year.
type Point struct {
	Municipality    string  `json:"municipality"`
	Year            int     `json:"year"`
	TotalFacts      int     `json:"totalFacts"`
	Population      float64 `json:"population"`
	RatePerThousand float64 `json:"ratePerThousand"`
}

// Line is the ordered points of a single municipality.
type Line struct {
	Municipality string  `json:"municipality"`
	Points       []Point `json:"points"`
}

// Ranking is the ordered result of Rank. Municipalities whose mean
// population is zero have no defined rate; they are kept out of Entries and
// listed in Undefined instead.
type Ranking struct {
	Direction Direction `json:"-"`
	Entries   []Entry   `json:"entries"`
	Undefined []string  `json:"undefined,omitempty"`
}

// Len returns the number of ranked municipalities.
func (r Ranking) Len() int { return len(r.Entries) }
