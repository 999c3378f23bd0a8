package crime

// Record holds one row of a yearly statistics file: the number of facts
// recorded for one category in one municipality.
type Record struct {
	Year         int    `json:"year"`
	Municipality string `json:"municipality"`
	Category     string `json:"category"`
	Facts        int    `json:"facts"`
	Population   int    `json:"population"`
}

// Column names of the source files. They must match exactly.
const (
	ColumnYear         = "Annee"
	ColumnMunicipality = "Commune"
	ColumnCategory     = "Categorie"
	ColumnFacts        = "Faits"
	ColumnPopulation   = "Population"
)

var requiredColumns = []string{
	ColumnYear, ColumnMunicipality, ColumnCategory, ColumnFacts, ColumnPopulation,
}
