package analyzer

import (
	"context"
	"math"

	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/internal/observer"
	"go-image-dataset-analyzer/internal/strategy"
	"go-image-dataset-analyzer/pkg/models"
)

// DatasetAggregator orchestrates the parallel passes over a dataset:
// dimensions, pixel extraction, mean, then variance.
type DatasetAggregator struct {
	prober    DimensionProber
	extractor PixelExtractor
	pool      *WorkerPool
	failures  strategy.DecodeFailureStrategy
	events    observer.Subject
}

// NewDatasetAggregator creates an aggregator. events may be nil.
func NewDatasetAggregator(prober DimensionProber, extractor PixelExtractor, options AggregatorOptions, events observer.Subject) *DatasetAggregator {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &DatasetAggregator{
		prober:    prober,
		extractor: extractor,
		pool:      NewWorkerPool(options.MaxWorkers),
		failures:  options.decodeFailureStrategy(),
		events:    events,
	}
}

// Aggregate computes the dataset description of the images at paths.
// An empty dataset, or one where every extraction was skipped, is an
// aggregation error rather than NaN statistics.
func (a *DatasetAggregator) Aggregate(ctx context.Context, paths []string) (*models.DatasetDescription, error) {
	a.notify(ctx, observer.AnalysisEvent{EventType: observer.DimensionPassStarted, Images: len(paths)})
	dims, err := a.dimensionPass(ctx, paths)
	if err != nil {
		return nil, err
	}

	a.notify(ctx, observer.AnalysisEvent{EventType: observer.ExtractionPassStarted, Images: len(paths)})
	descriptions, err := a.extractionPass(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		return nil, apperrors.NewAggregationError("cannot compute dataset statistics", apperrors.ErrNoImages)
	}

	a.notify(ctx, observer.AnalysisEvent{EventType: observer.AggregationStarted, Images: len(descriptions)})
	// the variance pass needs the finished mean, so these stay two reductions
	mean := a.meanPass(descriptions)
	std := a.stdPass(descriptions, mean)

	return &models.DatasetDescription{
		PixelsDescription: models.DatasetPixelDescription{
			RAvg: float32(mean.r),
			GAvg: float32(mean.g),
			BAvg: float32(mean.b),
			RStd: float32(std.r),
			GStd: float32(std.g),
			BStd: float32(std.b),
		},
		ImagesHeight: dims.height,
		ImagesLength: dims.length,
		Size:         len(descriptions),
	}, nil
}

func (a *DatasetAggregator) dimensionPass(ctx context.Context, paths []string) (dimensionRange, error) {
	probes, err := ParallelMap(ctx, a.pool, paths, func(ctx context.Context, path string) (probeResult, error) {
		width, height, err := a.prober.Probe(path)
		if err != nil {
			if fatal := a.failures.HandleFailure(path, err); fatal != nil {
				return probeResult{}, fatal
			}
			a.notify(ctx, observer.AnalysisEvent{EventType: observer.ImageProbeFailed, Path: path, ErrorMessage: err.Error()})
			return probeResult{}, nil
		}
		a.notify(ctx, observer.AnalysisEvent{EventType: observer.ImageProbed, Path: path})
		return probeResult{width: width, height: height, ok: true}, nil
	})
	if err != nil {
		return dimensionRange{}, err
	}

	return ParallelFold(a.pool, probes, emptyDimensionRange,
		func(acc dimensionRange, p probeResult) dimensionRange {
			if !p.ok {
				return acc
			}
			acc.height = acc.height.Update(p.width)
			acc.length = acc.length.Update(p.height)
			return acc
		},
		dimensionRange.merge), nil
}

func (a *DatasetAggregator) extractionPass(ctx context.Context, paths []string) ([]models.PixelDescription, error) {
	results, err := ParallelMap(ctx, a.pool, paths, func(ctx context.Context, path string) (extractionResult, error) {
		description, err := a.extractor.Extract(path)
		if err != nil {
			if fatal := a.failures.HandleFailure(path, err); fatal != nil {
				return extractionResult{}, fatal
			}
			a.notify(ctx, observer.AnalysisEvent{EventType: observer.ImageDecodeFailed, Path: path, ErrorMessage: err.Error()})
			return extractionResult{}, nil
		}
		a.notify(ctx, observer.AnalysisEvent{EventType: observer.ImageDecoded, Path: path})
		return extractionResult{description: description, ok: true}, nil
	})
	if err != nil {
		return nil, err
	}

	descriptions := make([]models.PixelDescription, 0, len(results))
	for _, r := range results {
		if r.ok {
			descriptions = append(descriptions, r.description)
		}
	}
	return descriptions, nil
}

// meanPass sums the per-image channel averages and divides by the count
func (a *DatasetAggregator) meanPass(descriptions []models.PixelDescription) channelStats {
	averages := make([]channelStats, len(descriptions))
	for i, d := range descriptions {
		averages[i] = averagesOf(d)
	}
	sums := ParallelReduce(a.pool, averages, channelStats{}, channelStats.add)
	return sums.div(float64(len(descriptions)))
}

// stdPass computes the population standard deviation (divisor n) of the
// per-image averages around the finished dataset mean
func (a *DatasetAggregator) stdPass(descriptions []models.PixelDescription, mean channelStats) channelStats {
	squares := ParallelFold(a.pool, descriptions,
		func() channelStats { return channelStats{} },
		func(acc channelStats, d models.PixelDescription) channelStats {
			dr := float64(d.RAvg) - mean.r
			dg := float64(d.GAvg) - mean.g
			db := float64(d.BAvg) - mean.b
			return acc.add(channelStats{dr * dr, dg * dg, db * db})
		},
		channelStats.add)

	variance := squares.div(float64(len(descriptions)))
	return channelStats{math.Sqrt(variance.r), math.Sqrt(variance.g), math.Sqrt(variance.b)}
}

func (a *DatasetAggregator) notify(ctx context.Context, event observer.AnalysisEvent) {
	a.events.NotifyObservers(ctx, event)
}
