package cmd

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/crime"
	"github.com/zalepa/crimerank/internal/logging"
	"github.com/zalepa/crimerank/rank"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

type logFlags struct {
	Level  string
	Format string
}

func (l *logFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("CRIMERANK_LOG_LEVEL"),
			Destination: &l.Level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json, auto)",
			Category:    "Logging",
			Value:       "auto",
			Sources:     cli.EnvVars("CRIMERANK_LOG_FORMAT"),
			Destination: &l.Format,
		},
	}
}

func (l *logFlags) Configure(w io.Writer) (*slog.Logger, error) {
	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.ParseLevel(l.Level), w, format), nil
}

// dataFlags locate the statistics. Unset flags fall back to the config file.
type dataFlags struct {
	ConfigPath string
	DataDir    string
	FirstYear  int
	LastYear   int
}

func (d *dataFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "YAML configuration file",
			Category:    "Data",
			Sources:     cli.EnvVars("CRIMERANK_CONFIG"),
			Destination: &d.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory holding data_<year>.csv files",
			Category:    "Data",
			Sources:     cli.EnvVars("CRIMERANK_DATA_DIR"),
			Destination: &d.DataDir,
		},
		&cli.IntFlag{
			Name:        "first-year",
			Usage:       "First year to load",
			Category:    "Data",
			Sources:     cli.EnvVars("CRIMERANK_FIRST_YEAR"),
			Destination: &d.FirstYear,
		},
		&cli.IntFlag{
			Name:        "last-year",
			Usage:       "Last year to load",
			Category:    "Data",
			Sources:     cli.EnvVars("CRIMERANK_LAST_YEAR"),
			Destination: &d.LastYear,
		},
	}
}

// filterFlags are the ranking choices shared by rank, city, export and report.
type filterFlags struct {
	Year          int
	Categories    []string
	MinPopulation int
	Direction     string
	Top           int
}

func (f *filterFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "year",
			Aliases:     []string{"y"},
			Usage:       "Year to rank (default: latest loaded year)",
			Category:    "Filter",
			Destination: &f.Year,
		},
		&cli.StringSliceFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Crime category to include, repeatable (default: all)",
			Category:    "Filter",
			Destination: &f.Categories,
		},
		&cli.IntFlag{
			Name:        "min-population",
			Aliases:     []string{"p"},
			Usage:       "Keep only municipalities with more inhabitants than this",
			Category:    "Filter",
			Destination: &f.MinPopulation,
		},
		&cli.StringFlag{
			Name:        "direction",
			Aliases:     []string{"d"},
			Usage:       "desc for the highest rates first, asc for the lowest",
			Category:    "Filter",
			Value:       "desc",
			Destination: &f.Direction,
		},
		&cli.IntFlag{
			Name:        "top",
			Aliases:     []string{"n"},
			Usage:       "Number of municipalities in the summary (default: from config)",
			Category:    "Filter",
			Destination: &f.Top,
		},
	}
}

// Params turns the flags into validated ranking parameters over ds.
func (f *filterFlags) Params(ds *crime.Dataset, defaultTop int) (rank.Params, error) {
	p := rank.DefaultParams(ds)
	p.Count = defaultTop

	if f.Year != 0 {
		p.Year = f.Year
	}
	if len(f.Categories) > 0 {
		p.Categories = f.Categories
	}
	p.MinPopulation = f.MinPopulation
	if f.Top != 0 {
		p.Count = f.Top
	}

	dir, err := rank.ParseDirection(f.Direction)
	if err != nil {
		return p, err
	}
	p.Direction = dir

	return p, p.Validate(ds)
}
