package analyzer

import "go-image-dataset-analyzer/internal/strategy"

// AggregatorOptions provides configuration for dataset aggregation
type AggregatorOptions struct {
	// MaxWorkers bounds every parallel pass; 0 means runtime.NumCPU()
	MaxWorkers int

	// OnDecodeFailure applies to both the dimension and the extraction pass.
	// Fail-fast aborts the run on the first image that cannot be probed or
	// decoded; skip reports such images and leaves them out of the statistic
	// of the pass that failed. nil means fail-fast.
	OnDecodeFailure strategy.DecodeFailureStrategy
}

// DefaultOptions returns default aggregation options
func DefaultOptions() AggregatorOptions {
	return AggregatorOptions{
		MaxWorkers:      0, // Use default CPU count
		OnDecodeFailure: strategy.NewFailFastStrategy(),
	}
}

// WithWorkers returns options with a fixed worker count
func (opts AggregatorOptions) WithWorkers(workers int) AggregatorOptions {
	opts.MaxWorkers = workers
	return opts
}

// WithDecodeFailureStrategy returns options using s for undecodable images
func (opts AggregatorOptions) WithDecodeFailureStrategy(s strategy.DecodeFailureStrategy) AggregatorOptions {
	opts.OnDecodeFailure = s
	return opts
}

// WithSkipDecodeFailures returns options that log and skip undecodable images
func (opts AggregatorOptions) WithSkipDecodeFailures() AggregatorOptions {
	return opts.WithDecodeFailureStrategy(strategy.NewSkipStrategy())
}

func (opts AggregatorOptions) decodeFailureStrategy() strategy.DecodeFailureStrategy {
	if opts.OnDecodeFailure == nil {
		return strategy.NewFailFastStrategy()
	}
	return opts.OnDecodeFailure
}
