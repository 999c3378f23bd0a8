package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/server"
)

func cmdServe(e *env) *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address (default: from config)",
				Sources:     cli.EnvVars("CRIMERANK_ADDR"),
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if addr == "" {
				addr = e.cfg.Addr
			}

			ds, err := e.dataset(ctx)
			if err != nil {
				return err
			}
			ctxlog.From(ctx).Info("dataset loaded",
				slog.Int("records", ds.Len()),
				slog.Any("years", ds.Years()),
			)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(ctx, ds, e.cfg.Top).ListenAndServe(ctx, addr)
		},
	}
}
