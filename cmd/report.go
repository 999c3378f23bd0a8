package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/chart"
	"github.com/zalepa/crimerank/rank"
)

func cmdReport(e *env) *cli.Command {
	var (
		filter filterFlags
		out    string
		cities []string
	)

	return &cli.Command{
		Name:  "report",
		Usage: "Write a PDF report with the ranking and an evolution chart",
		Flags: joinFlags(filter.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "PDF output path",
				Value:       "classement.pdf",
				Destination: &out,
			},
			&cli.StringSliceFlag{
				Name:        "city",
				Usage:       "Municipality to chart, repeatable (default: the summary)",
				Destination: &cities,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			ds, err := e.dataset(ctx)
			if err != nil {
				return err
			}
			p, err := filter.Params(ds, e.cfg.Top)
			if err != nil {
				return err
			}

			ranking := rank.Compute(ds, p)
			top, err := rank.TopN(ranking, p.Count)
			if err != nil {
				return err
			}

			charted := cities
			if len(charted) == 0 {
				for _, entry := range top {
					charted = append(charted, entry.Municipality)
				}
			}
			lines := rank.Series(rank.Evolution(ds.Records(), charted, p.Categories), charted)

			if err := writeFile(out, func(w io.Writer) error {
				return chart.WriteReport(w, chart.Report{
					Params:  p,
					Ranking: ranking,
					Entries: top,
					Lines:   lines,
				})
			}); err != nil {
				return err
			}

			ctxlog.From(ctx).Info("report written", slog.String("path", out), slog.Any("params", p))
			fmt.Fprintf(e.out, "Rapport écrit dans %s\n", out)
			return nil
		},
	}
}
