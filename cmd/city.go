package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/rank"
)

func cmdCity(e *env) *cli.Command {
	var (
		filter filterFlags
		cities []string
	)

	return &cli.Command{
		Name:  "city",
		Usage: "Describe where given municipalities stand in the ranking",
		Flags: joinFlags(filter.Flags(), []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "city",
				Usage:       "Municipality to look up, repeatable",
				Destination: &cities,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			if len(cities) == 0 {
				return goerr.New("at least one --city is required")
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

			for _, city := range cities {
				entry, err := rank.Lookup(ranking, city)
				switch {
				case err == nil:
					fmt.Fprintln(e.out, rank.Sentence(ranking, entry, p))
				case errors.Is(err, rank.ErrRateUndefined):
					fmt.Fprintf(e.out, "%s n'a pas de population connue en %d, son taux n'est pas défini.\n", city, p.Year)
				case errors.Is(err, rank.ErrNotFound):
					fmt.Fprintf(e.out, "%s n'apparaît pas dans le classement %d pour ces critères.\n", city, p.Year)
				default:
					return err
				}
			}
			return nil
		},
	}
}
