//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/lrascan/internal/config"
	"github.com/farcloser/lrascan/internal/output"
	"github.com/farcloser/lrascan/internal/store"
)

var errSortArgs = errors.New("expected exactly one argument: result file path")

func sortCommand() *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "Re-sort an existing LRA result file by LRA descending, then path",
		ArgsUsage: "<results.txt>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file (its header is used unless --header is set)",
			},
			&cli.StringFlag{
				Name:  "header",
				Usage: "Header line written at the top of the file (default: \"" + store.DefaultHeader + "\")",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errSortArgs, cmd.NArg())
			}

			header, err := sortHeader(cmd.String("config"), cmd.String("header"), cmd.IsSet("header"))
			if err != nil {
				return err
			}

			path := cmd.Args().First()

			result, err := store.Sort(path, header)
			if err != nil {
				return err
			}

			return outputSummary(path, output.SortToMap(path, result), cmd.String("format"))
		},
	}
}

// sortHeader picks the header for a standalone sort: an explicit flag wins over the config file, which wins over
// the default.
func sortHeader(configPath, flagHeader string, flagSet bool) (string, error) {
	if flagSet && flagHeader != "" {
		return flagHeader, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}

	if err = cfg.Normalize(); err != nil {
		return "", err
	}

	return cfg.Header, nil
}
