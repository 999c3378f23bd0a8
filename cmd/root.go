// Package cmd implements the crimerank command line.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/zalepa/crimerank/crime"
	"github.com/zalepa/crimerank/internal/config"
)

// env is shared by every subcommand once the root command has run.
type env struct {
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	source *crime.Source
}

// dataset loads the statistics on first use.
func (e *env) dataset(ctx context.Context) (*crime.Dataset, error) {
	return e.source.Dataset(ctx)
}

// Run runs the command line with args, writing results to stdout.
func Run(ctx context.Context, args []string) error {
	if err := newApp(os.Stdout, os.Stderr).Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}
	return nil
}

func newApp(out, errOut io.Writer) *cli.Command {
	var (
		logCfg  logFlags
		dataCfg dataFlags
	)
	e := &env{out: out, errOut: errOut}

	return &cli.Command{
		Name:      "crimerank",
		Usage:     "Rank French municipalities by crime rate per thousand inhabitants",
		Version:   "0.1.0",
		Writer:    out,
		ErrWriter: errOut,
		Flags:     joinFlags(logCfg.Flags(), dataCfg.Flags()),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := logCfg.Configure(e.errOut)
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			cfg, err := config.Load(dataCfg.ConfigPath)
			if err != nil {
				return nil, err
			}
			if c.IsSet("data-dir") {
				cfg.DataDir = dataCfg.DataDir
			}
			if c.IsSet("first-year") {
				cfg.FirstYear = dataCfg.FirstYear
			}
			if c.IsSet("last-year") {
				cfg.LastYear = dataCfg.LastYear
			}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}

			e.cfg = cfg
			e.source = crime.NewSource(cfg.DataDir, crime.YearRange(cfg.FirstYear, cfg.LastYear))
			logger.Debug("configured data source",
				slog.String("dir", cfg.DataDir),
				slog.Int("first_year", cfg.FirstYear),
				slog.Int("last_year", cfg.LastYear),
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRank(e),
			cmdCity(e),
			cmdEvolution(e),
			cmdExport(e),
			cmdReport(e),
			cmdServe(e),
		},
	}
}
