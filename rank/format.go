package rank

import (
	"fmt"
	"strings"
)

// FormatRate renders a rate with two decimals and the per-mille sign.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f‰", rate)
}

// SummaryLine renders one entry of the top-N summary, e.g.
// "1. Lyon - 150 faits pour 1000 habitants (150.00‰)".
// Population is truncated like the rest of the dashboard displays it.
func SummaryLine(e Entry) string {
	return fmt.Sprintf("%d. %s - %d faits pour %d habitants (%s)",
		e.Rank, e.Municipality, e.TotalFacts, int(e.Population), FormatRate(e.RatePerThousand))
}

// Summary renders entries one per line.
func Summary(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(SummaryLine(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Heading is the title of a ranking.
func Heading(d Direction) string {
	showing := "plus hauts"
	if d == Ascending {
		showing = "plus bas"
	}
	return "Classement des villes avec taux de criminalité les " + showing
}

// Sentence describes where e stands in ranking:
// "Lyon est la 3e / 120 ville, de plus de 10000 habitants, avec le plus haut
// taux de criminalité en France en 2022 avec ...". The population clause is
// left out when p has no threshold.
func Sentence(ranking Ranking, e Entry, p Params) string {
	inhabitants := " "
	if p.MinPopulation > 0 {
		inhabitants = fmt.Sprintf(", de plus de %d habitants, ", p.MinPopulation)
	}
	return fmt.Sprintf("%s est la %de / %d ville%savec le plus %s taux de criminalité en France en %d avec %d faits pour %d habitants (%s).",
		e.Municipality, e.Rank, ranking.Len(), inhabitants, ranking.Direction.Word(),
		p.Year, e.TotalFacts, int(e.Population), FormatRate(e.RatePerThousand))
}
