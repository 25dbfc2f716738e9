package analyzer

import (
	"context"

	"go-image-dataset-analyzer/pkg/models"
)

// Aggregator turns a list of image paths into one dataset description
type Aggregator interface {
	Aggregate(ctx context.Context, paths []string) (*models.DatasetDescription, error)
}

// PixelExtractor computes the per-image pixel summary
type PixelExtractor interface {
	Extract(path string) (models.PixelDescription, error)
}

// DimensionProber reads an image's size without decoding its pixels
type DimensionProber interface {
	Probe(path string) (width, height uint32, err error)
}
