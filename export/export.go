// Package export writes a full ranking table to CSV or XLSX, using the
// column names of the source statistics.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
	"github.com/zalepa/crimerank/rank"
)

// SheetName is the worksheet holding the ranking in XLSX exports.
const SheetName = "Classement"

// Header is the column row of every export.
var Header = []string{"Rang", "Commune", "Faits", "Population", "Taux pour mille"}

func row(e rank.Entry) []string {
	return []string{
		strconv.Itoa(e.Rank),
		e.Municipality,
		strconv.Itoa(e.TotalFacts),
		strconv.FormatFloat(e.Population, 'f', -1, 64),
		strconv.FormatFloat(e.RatePerThousand, 'f', 2, 64),
	}
}

// WriteCSV writes entries as CSV.
func WriteCSV(w io.Writer, entries []rank.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return goerr.Wrap(err, "failed to write csv header")
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return goerr.Wrap(err, "failed to write csv row", goerr.V("municipality", e.Municipality))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush csv")
	}
	return nil
}

// WriteXLSX writes entries as a single-sheet workbook. Numbers are stored as
// numeric cells so the sheet can be sorted and summed.
func WriteXLSX(w io.Writer, entries []rank.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return goerr.Wrap(err, "failed to name header cell")
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return goerr.Wrap(err, "failed to write header", goerr.V("cell", cell))
		}
	}
	if err := f.SetColWidth(SheetName, "B", "B", 30); err != nil {
		return goerr.Wrap(err, "failed to size columns")
	}

	for i, e := range entries {
		values := []any{e.Rank, e.Municipality, e.TotalFacts, e.Population, roundRate(e.RatePerThousand)}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return goerr.Wrap(err, "failed to name cell")
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return goerr.Wrap(err, "failed to write cell", goerr.V("cell", cell))
			}
		}
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func roundRate(r float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(r, 'f', 2, 64), 64)
	return v
}
