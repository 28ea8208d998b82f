//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/lrascan"
	"github.com/farcloser/lrascan/internal/config"
	"github.com/farcloser/lrascan/internal/metrics"
	"github.com/farcloser/lrascan/internal/output"
)

const widestShown = 5

var errScanArgs = errors.New("expected exactly one argument: folder path")

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Measure every audio file under a folder and write a sorted LRA result file",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent analyzer processes (default: one per CPU)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Result file, relative to the folder unless absolute",
			},
			&cli.StringFlag{
				Name:  "analyzer",
				Usage: "ffmpeg executable name or path",
			},
			&cli.StringSliceFlag{
				Name:    "ext",
				Aliases: []string{"e"},
				Usage:   "Audio extensions to include (repeatable)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort a single analysis after this long (0: never)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file (textfile collector format)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not report per-file progress",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errScanArgs, cmd.NArg())
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runScan(ctx, cmd.Args().First(), cfg, cmd.String("format"), cmd.Bool("quiet"))
		},
	}
}

// loadConfig reads the optional config file, then applies explicitly set flags over it.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("workers") {
		cfg.Workers = cmd.Int("workers")
	}

	if cmd.IsSet("output") {
		cfg.ResultsFile = cmd.String("output")
	}

	if cmd.IsSet("analyzer") {
		cfg.Analyzer = cmd.String("analyzer")
	}

	if cmd.IsSet("ext") {
		cfg.Extensions = cmd.StringSlice("ext")
	}

	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}

	if cmd.IsSet("metrics-file") {
		cfg.MetricsFile = cmd.String("metrics-file")
	}

	if err = cfg.Normalize(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func runScan(ctx context.Context, folder string, cfg config.Config, formatName string, quiet bool) error {
	if err := lrascan.ValidateRoot(folder); err != nil {
		return err
	}

	analyzerVersion, err := lrascan.CheckAvailability(ctx, cfg.Analyzer)
	if err != nil {
		return err
	}

	slog.Debug("scan", "analyzer", cfg.Analyzer, "version", analyzerVersion, "workers", cfg.Workers)

	opts := lrascan.Options{
		Root:           folder,
		ResultsFile:    cfg.ResultsFile,
		Header:         cfg.Header,
		Extensions:     cfg.Extensions,
		Workers:        cfg.Workers,
		AnalyzerBinary: cfg.Analyzer,
		Timeout:        cfg.Timeout,
	}

	if cfg.MetricsFile != "" {
		opts.Metrics = metrics.New()
	}

	printer := &progressPrinter{out: os.Stderr, interactive: isatty.IsTerminal(os.Stderr.Fd())}
	if !quiet {
		opts.Progress = printer.report
	}

	fmt.Fprintf(os.Stderr, "Scanning %s (%d workers)\n", folder, cfg.Workers)

	report, err := lrascan.Scan(ctx, opts)

	printer.finish()

	if err != nil {
		return err
	}

	if opts.Metrics != nil {
		if err = opts.Metrics.WriteFile(cfg.MetricsFile); err != nil {
			slog.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	return outputSummary(report.Root, output.ScanToMap(output.Scan{
		Root:        report.Root,
		ResultsPath: report.ResultsPath,
		Discovered:  len(report.Entries),
		Stats:       report.Stats,
		Formats:     report.Formats,
		Spread:      report.Spread,
		Top:         report.Records[:min(widestShown, len(report.Records))],
		Sorted:      report.Sorted,
		SortErr:     report.SortErr,
		Elapsed:     report.Elapsed,
	}), formatName)
}
