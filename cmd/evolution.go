package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/chart"
	"github.com/zalepa/crimerank/rank"
)

func cmdEvolution(e *env) *cli.Command {
	var (
		cities     []string
		categories []string
		pngOut     string
		pdfOut     string
	)

	return &cli.Command{
		Name:  "evolution",
		Usage: "Show the yearly crime rate of municipalities",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "city",
				Usage:       "Municipality to follow, repeatable",
				Destination: &cities,
			},
			&cli.StringSliceFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "Crime category to include, repeatable (default: all)",
				Destination: &categories,
			},
			&cli.StringFlag{
				Name:        "png",
				Usage:       "Write the chart as a PNG image to this path",
				Destination: &pngOut,
			},
			&cli.StringFlag{
				Name:        "pdf",
				Usage:       "Write the chart as a PDF to this path",
				Destination: &pdfOut,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if len(cities) == 0 {
				return goerr.New("at least one --city is required")
			}

			ds, err := e.dataset(ctx)
			if err != nil {
				return err
			}
			cats := categories
			if len(cats) == 0 {
				cats = ds.Categories()
			}

			points := rank.Evolution(ds.Records(), cities, cats)
			lines := rank.Series(points, cities)
			if len(lines) == 0 {
				return goerr.New("no data for the selected municipalities", goerr.V("cities", cities))
			}

			title := chart.Title(lines)
			if len(lines) == 1 {
				renderChart(e.out, title, lines[0].Points)
			} else {
				renderEvolutionTable(e.out, title, lines, rank.Years(lines))
			}

			for _, path := range []string{pngOut, pdfOut} {
				if path == "" {
					continue
				}
				p, err := chart.Evolution(lines)
				if err != nil {
					return err
				}
				if err := chart.Save(path, p); err != nil {
					return err
				}
				ctxlog.From(ctx).Info("chart written", slog.String("path", path))
				fmt.Fprintf(e.out, "\nGraphique écrit dans %s\n", path)
			}
			return nil
		},
	}
}
