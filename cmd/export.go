package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/export"
	"github.com/zalepa/crimerank/rank"
)

func cmdExport(e *env) *cli.Command {
	var (
		filter  filterFlags
		csvOut  string
		xlsxOut string
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Write the full ranking to CSV or XLSX",
		Flags: joinFlags(filter.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "csv",
				Usage:       "CSV output path (- for stdout)",
				Destination: &csvOut,
			},
			&cli.StringFlag{
				Name:        "xlsx",
				Usage:       "XLSX output path",
				Destination: &xlsxOut,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			if csvOut == "" && xlsxOut == "" {
				return goerr.New("nothing to export: set --csv or --xlsx")
			}

			ds, err := e.dataset(ctx)
			if err != nil {
				return err
			}
			p, err := filter.Params(ds, e.cfg.Top)
			if err != nil {
				return err
			}
			ranking := rank.Compute(ds, p)

			if csvOut == "-" {
				if err := export.WriteCSV(e.out, ranking.Entries); err != nil {
					return err
				}
			} else if csvOut != "" {
				if err := writeFile(csvOut, func(w io.Writer) error {
					return export.WriteCSV(w, ranking.Entries)
				}); err != nil {
					return err
				}
				ctxlog.From(ctx).Info("ranking exported", slog.String("path", csvOut), slog.Int("entries", ranking.Len()))
			}

			if xlsxOut != "" {
				if err := writeFile(xlsxOut, func(w io.Writer) error {
					return export.WriteXLSX(w, ranking.Entries)
				}); err != nil {
					return err
				}
				ctxlog.From(ctx).Info("ranking exported", slog.String("path", xlsxOut), slog.Int("entries", ranking.Len()))
			}
			return nil
		},
	}
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create file", goerr.V("path", path))
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", path))
	}
	return nil
}
