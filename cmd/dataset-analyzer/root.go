package main

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-image-dataset-analyzer/internal/benchmark"
	"go-image-dataset-analyzer/internal/config"
	"go-image-dataset-analyzer/internal/container"
	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/internal/logger"
	"go-image-dataset-analyzer/internal/report"
	"go-image-dataset-analyzer/pkg/models"
)

type flags struct {
	rootDir      string
	extensions   []string
	workers      int
	timeIt       bool
	trackIt      bool
	decodePolicy string
	format       string
	logLevel     string
	logFormat    string
}

// newRootCommand builds the CLI. The report, progress notices and timing
// lines are written to out.
func newRootCommand(out io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "dataset-analyzer",
		Short: "Describe an image dataset",
		Long: `Walks a directory tree, decodes every matching image and reports
per-channel pixel averages and standard deviations together with the
range of image heights and lengths.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel, cfg.LogFormat)
			return run(cmd.Context(), cfg, out)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.rootDir, "root-dir", "r", "dataset", "Dataset root directory")
	fs.BoolVarP(&f.timeIt, "timeit", "t", false, "Print the execution duration and throughput")
	fs.BoolVar(&f.trackIt, "trackit", false, "Print a notice when each phase starts")
	fs.StringSliceVar(&f.extensions, "extensions", config.DefaultExtensions, "Filename suffixes to include (case-sensitive)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "Worker count, 0 uses every CPU")
	fs.StringVar(&f.decodePolicy, "on-decode-error", string(config.DecodePolicyFail), "What to do with undecodable images (fail, skip)")
	fs.StringVar(&f.format, "format", string(config.OutputText), "Report format (text, json)")
	fs.StringVarP(&f.logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")

	return cmd
}

// loadConfig reads the environment, applies the flags the user set and
// validates the merged result once
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.FromEnv()

	fs := cmd.Flags()
	if fs.Changed("root-dir") {
		cfg.RootDir = f.rootDir
	}
	if fs.Changed("extensions") {
		cfg.Extensions = f.extensions
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("on-decode-error") {
		cfg.DecodePolicy = config.DecodePolicy(f.decodePolicy)
	}
	if fs.Changed("format") {
		cfg.OutputFormat = config.OutputFormat(f.format)
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	cfg.TimeIt = f.timeIt
	cfg.TrackIt = f.trackIt

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := container.NewContainer(cfg, out)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize container", err)
	}
	defer logMetrics(c, &err)

	description, elapsed, err := benchmark.Timeit(func() (*models.DatasetDescription, error) {
		return c.Service().AnalyzeDataset(ctx, cfg.RootDir)
	})
	if err != nil {
		return err
	}

	if err := report.Write(out, cfg.OutputFormat, description); err != nil {
		return apperrors.NewInternalError("failed to write report", err)
	}
	if cfg.TimeIt {
		return report.WriteTiming(out, elapsed, description.Size)
	}
	return nil
}

// logMetrics reports the run counters whether or not the run succeeded
func logMetrics(c *container.Container, runErr *error) {
	fields := logrus.Fields(c.Metrics().GetMetrics())
	if *runErr != nil {
		logger.WithError(*runErr).WithFields(fields).Warn("Analysis metrics")
		return
	}
	logger.WithFields(fields).Info("Analysis metrics")
}
