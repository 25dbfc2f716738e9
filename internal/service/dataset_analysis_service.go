package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-image-dataset-analyzer/internal/analyzer"
	"go-image-dataset-analyzer/internal/observer"
	"go-image-dataset-analyzer/pkg/models"
)

// DatasetScanner lists the image files below a root directory
type DatasetScanner interface {
	Scan(root string) ([]string, error)
}

// DatasetAnalysisService describes a whole image dataset
type DatasetAnalysisService interface {
	// AnalyzeDataset scans rootDir and aggregates every matching image
	AnalyzeDataset(ctx context.Context, rootDir string) (*models.DatasetDescription, error)

	// AnalyzePaths aggregates an already discovered list of images
	AnalyzePaths(ctx context.Context, paths []string) (*models.DatasetDescription, error)
}

type datasetAnalysisService struct {
	scanner    DatasetScanner
	aggregator analyzer.Aggregator
	events     observer.Subject
}

// NewDatasetAnalysisService creates a new dataset analysis service
func NewDatasetAnalysisService(
	scanner DatasetScanner,
	aggregator analyzer.Aggregator,
	events observer.Subject,
) DatasetAnalysisService {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &datasetAnalysisService{
		scanner:    scanner,
		aggregator: aggregator,
		events:     events,
	}
}

func (s *datasetAnalysisService) AnalyzeDataset(ctx context.Context, rootDir string) (*models.DatasetDescription, error) {
	ctx = withRunID(ctx)
	start := time.Now()

	paths, err := s.scanner.Scan(rootDir)
	if err != nil {
		s.failed(ctx, rootDir, start, err)
		return nil, err
	}
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.ScanCompleted,
		Path:      rootDir,
		Images:    len(paths),
	})

	return s.aggregate(ctx, rootDir, paths, start)
}

func (s *datasetAnalysisService) AnalyzePaths(ctx context.Context, paths []string) (*models.DatasetDescription, error) {
	return s.aggregate(withRunID(ctx), "", paths, time.Now())
}

func (s *datasetAnalysisService) aggregate(ctx context.Context, rootDir string, paths []string, start time.Time) (*models.DatasetDescription, error) {
	description, err := s.aggregator.Aggregate(ctx, paths)
	if err != nil {
		s.failed(ctx, rootDir, start, err)
		return nil, err
	}

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisCompleted,
		Path:      rootDir,
		Images:    description.Size,
		Duration:  time.Since(start),
	})
	return description, nil
}

func (s *datasetAnalysisService) failed(ctx context.Context, rootDir string, start time.Time, err error) {
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:    observer.AnalysisFailed,
		Path:         rootDir,
		Duration:     time.Since(start),
		ErrorMessage: err.Error(),
	})
}

// withRunID keeps a run id set by the caller
func withRunID(ctx context.Context) context.Context {
	if observer.RunID(ctx) != "" {
		return ctx
	}
	return observer.WithRunID(ctx, uuid.NewString())
}
