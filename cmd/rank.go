package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/rank"
)

func cmdRank(e *env) *cli.Command {
	var (
		filter filterFlags
		full   bool
	)

	return &cli.Command{
		Name:  "rank",
		Usage: "Print the municipalities with the highest or lowest crime rates",
		Flags: joinFlags(filter.Flags(), []cli.Flag{
			&cli.BoolFlag{
				Name:        "full",
				Usage:       "Also print the full ranking as a table",
				Destination: &full,
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
			ctxlog.From(ctx).Debug("ranking computed",
				slog.Any("params", p),
				slog.Int("entries", ranking.Len()),
				slog.Int("undefined", len(ranking.Undefined)),
			)

			fmt.Fprintf(e.out, "%s (%d)\n\n", rank.Heading(p.Direction), p.Year)
			fmt.Fprint(e.out, rank.Summary(top))

			if full {
				fmt.Fprintln(e.out)
				renderRanking(e.out, ranking.Entries)
			}
			if len(ranking.Undefined) > 0 {
				fmt.Fprintf(e.out, "\n%d commune(s) sans population connue ignorée(s)\n", len(ranking.Undefined))
			}
			return nil
		},
	}
}
