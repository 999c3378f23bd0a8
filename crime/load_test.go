package crime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestReadCSV(t *testing.T) {
	input := "Annee,Commune,Categorie,Faits,Population,Extra\n" +
		"2020,Lyon,Vols,120,500000,x\n" +
		"2020,Lyon,Coups,30.0,500000,y\n"

	got, err := ReadCSV(strings.NewReader(input), "data_2020.csv")
	gt.NoError(t, err).Required()
	gt.Equal(t, got, []Record{
		{Year: 2020, Municipality: "Lyon", Category: "Vols", Facts: 120, Population: 500000},
		{Year: 2020, Municipality: "Lyon", Category: "Coups", Facts: 30, Population: 500000},
	})
}

func TestReadCSV_ColumnOrder(t *testing.T) {
	input := "\ufeffPopulation,Faits,Categorie,Commune,Annee\n1000,5,X,A,2019\n"

	got, err := ReadCSV(strings.NewReader(input), "data_2019.csv")
	gt.NoError(t, err).Required()
	gt.Equal(t, got, []Record{{Year: 2019, Municipality: "A", Category: "X", Facts: 5, Population: 1000}})
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing column", "Annee,Commune,Categorie,Faits\n2020,A,X,1\n", ErrMissingColumn},
		{"negative facts", "Annee,Commune,Categorie,Faits,Population\n2020,A,X,-1,10\n", ErrInvalidValue},
		{"fractional population", "Annee,Commune,Categorie,Faits,Population\n2020,A,X,1,10.5\n", ErrInvalidValue},
		{"empty year", "Annee,Commune,Categorie,Faits,Population\n,A,X,1,10\n", ErrInvalidValue},
		{"not a number", "Annee,Commune,Categorie,Faits,Population\n2020,A,X,abc,10\n", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "test.csv")
			gt.Error(t, err)
			gt.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""), "empty.csv")
	gt.NoError(t, err)
	gt.Equal(t, len(got), 0)
}

func writeYear(t *testing.T, dir string, year int, body string) {
	t.Helper()
	content := "Annee,Commune,Categorie,Faits,Population\n" + body
	if err := os.WriteFile(filepath.Join(dir, FileName(year)), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2021, "2021,B,Y,3,200\n2021,A,X,4,100\n")
	writeYear(t, dir, 2020, "2020,A,X,1,100\n2020,A,Y,2,100\n")

	ds, err := LoadDir(context.Background(), dir, YearRange(2020, 2021))
	gt.NoError(t, err).Required()

	gt.Equal(t, ds.Len(), 4)
	// Records follow the order of years, not file completion order.
	gt.Equal(t, ds.Records()[0].Year, 2020)
	gt.Equal(t, ds.Records()[3].Year, 2021)
	gt.Equal(t, ds.Years(), []int{2021, 2020})
	gt.Equal(t, ds.Categories(), []string{"X", "Y"})
	gt.Equal(t, ds.Municipalities(), []string{"A", "B"})
	gt.Equal(t, ds.LatestYear(), 2021)
	gt.True(t, ds.HasYear(2020))
	gt.False(t, ds.HasYear(2019))
}

func TestLoadDir_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2020, "2020,A,X,1,100\n")

	_, err := LoadDir(context.Background(), dir, []int{2020, 2021})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSource_LoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2020, "2020,A,X,1,100\n")

	src := NewSource(dir, []int{2020})
	first, err := src.Dataset(context.Background())
	gt.NoError(t, err).Required()

	// Removing the file must not matter once the dataset is cached.
	gt.NoError(t, os.Remove(filepath.Join(dir, FileName(2020))))
	second, err := src.Dataset(context.Background())
	gt.NoError(t, err)
	gt.True(t, first == second)
}

func TestYearRange(t *testing.T) {
	gt.Equal(t, YearRange(2016, 2018), []int{2016, 2017, 2018})
	gt.Equal(t, len(YearRange(2018, 2016)), 0)
}
