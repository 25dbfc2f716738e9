package container

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"go-image-dataset-analyzer/internal/analyzer"
	"go-image-dataset-analyzer/internal/config"
	"go-image-dataset-analyzer/internal/factory"
	"go-image-dataset-analyzer/internal/logger"
	"go-image-dataset-analyzer/internal/observer"
	"go-image-dataset-analyzer/internal/service"
	"go-image-dataset-analyzer/internal/storage"
)

// Container holds all application dependencies
type Container struct {
	config                 *config.Config
	codec                  storage.ImageCodec
	scanner                *storage.DirectoryScanner
	aggregator             analyzer.Aggregator
	events                 observer.Subject
	metrics                *observer.MetricsObserver
	datasetAnalysisService service.DatasetAnalysisService
}

// NewContainer wires the analyzer for cfg. Progress notices go to progress
// when cfg.TrackIt is set.
func NewContainer(cfg *config.Config, progress io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Build dependency graph
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics := observer.NewMetricsObserver()
	events.Subscribe(metrics)
	if cfg.TrackIt && progress != nil {
		events.Subscribe(observer.NewProgressObserver(progress))
	}

	components := factory.NewComponentFactory()
	onDecodeFailure, err := components.StrategyFactory.CreateStrategy(cfg.DecodePolicy)
	if err != nil {
		return nil, err
	}
	options := analyzer.DefaultOptions().
		WithWorkers(cfg.Workers).
		WithDecodeFailureStrategy(onDecodeFailure)

	codec := components.StorageFactory.CreateCodec()
	scanner := components.StorageFactory.CreateScanner(cfg.Extensions)
	aggregator := analyzer.NewDatasetAggregator(
		analyzer.NewDimensionProbe(codec),
		analyzer.NewPixelStatsExtractor(codec),
		options,
		events,
	)
	datasetAnalysisService := service.NewDatasetAnalysisService(scanner, aggregator, events)

	logger.WithFields(logrus.Fields{
		"root_dir":        cfg.RootDir,
		"extensions":      cfg.Extensions,
		"workers":         cfg.Workers,
		"on_decode_error": onDecodeFailure.GetStrategyName(),
	}).Debug("Analyzer configured")

	return &Container{
		config:                 cfg,
		codec:                  codec,
		scanner:                scanner,
		aggregator:             aggregator,
		events:                 events,
		metrics:                metrics,
		datasetAnalysisService: datasetAnalysisService,
	}, nil
}

// Service returns the dataset analysis service
func (c *Container) Service() service.DatasetAnalysisService {
	return c.datasetAnalysisService
}

// Metrics returns the run counters
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
