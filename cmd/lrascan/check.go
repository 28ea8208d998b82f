//nolint:wrapcheck
package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/lrascan"
	"github.com/farcloser/lrascan/internal/output"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify that the loudness analyzer is installed and runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "analyzer",
				Usage: "ffmpeg executable name or path",
				Value: "ffmpeg",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			analyzer := cmd.String("analyzer")

			analyzerVersion, err := lrascan.CheckAvailability(ctx, analyzer)
			if err != nil {
				return err
			}

			return outputSummary(analyzer, output.CheckToMap(analyzer, analyzerVersion), cmd.String("format"))
		},
	}
}
