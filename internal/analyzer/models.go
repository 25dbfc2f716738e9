package analyzer

import "go-image-dataset-analyzer/pkg/models"

// channelStats holds one float64 accumulator per RGB channel
type channelStats struct {
	r, g, b float64
}

func (c channelStats) add(o channelStats) channelStats {
	return channelStats{c.r + o.r, c.g + o.g, c.b + o.b}
}

func (c channelStats) div(n float64) channelStats {
	return channelStats{c.r / n, c.g / n, c.b / n}
}

func averagesOf(d models.PixelDescription) channelStats {
	return channelStats{float64(d.RAvg), float64(d.GAvg), float64(d.BAvg)}
}

// dimensionRange holds the two reported size ranges. height ranges over
// the first probed dimension (image width) and length over the second
// (image height), the axis naming used by existing reports.
type dimensionRange struct {
	height, length models.MinMax
}

func emptyDimensionRange() dimensionRange {
	return dimensionRange{height: models.EmptyMinMax(), length: models.EmptyMinMax()}
}

func (d dimensionRange) merge(o dimensionRange) dimensionRange {
	return dimensionRange{height: d.height.Merge(o.height), length: d.length.Merge(o.length)}
}

// probeResult is the outcome of probing one image; ok is false when the
// probe failed and the image was skipped
type probeResult struct {
	width, height uint32
	ok            bool
}

// extractionResult is the outcome of extracting one image
type extractionResult struct {
	description models.PixelDescription
	ok          bool
}
