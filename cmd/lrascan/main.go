package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/lrascan/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Measure the EBU R128 loudness range of a music collection",
		Version: version.Version() + " " + version.Commit(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			scanCommand(),
			sortCommand(),
			checkCommand(),
		},
	}

	err := appl.Run(ctx, os.Args)

	stop()

	if err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
