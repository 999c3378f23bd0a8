package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/xuri/excelize/v2"
	"github.com/zalepa/crimerank/rank"
)

var entries = []rank.Entry{
	{Municipality: "A", TotalFacts: 15, Population: 1000, RatePerThousand: 15, Rank: 1},
	{Municipality: "Saint-Denis, Réunion", TotalFacts: 1, Population: 300, RatePerThousand: 3.3333333, Rank: 2},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, WriteCSV(&buf, entries)).Required()

	rows, err := csv.NewReader(&buf).ReadAll()
	gt.NoError(t, err).Required()
	gt.Equal(t, rows, [][]string{
		Header,
		{"1", "A", "15", "1000", "15.00"},
		{"2", "Saint-Denis, Réunion", "1", "300", "3.33"},
	})
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, WriteXLSX(&buf, entries)).Required()

	f, err := excelize.OpenReader(&buf)
	gt.NoError(t, err).Required()
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	gt.NoError(t, err).Required()
	gt.Equal(t, len(rows), 3)
	gt.Equal(t, rows[0], Header)
	gt.Equal(t, rows[2][1], "Saint-Denis, Réunion")
	gt.Equal(t, rows[2][4], "3.33")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, WriteCSV(&buf, nil))
	gt.Equal(t, buf.String(), "Rang,Commune,Faits,Population,Taux pour mille\n")
}
