package models

import "math"

// MinMax tracks the extrema observed over a stream of readings.
// The zero-observation sentinel is {Min: math.MaxUint32, Max: 0}.
type MinMax struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

// EmptyMinMax returns the sentinel used before the first observation
func EmptyMinMax() MinMax {
	return MinMax{Min: math.MaxUint32, Max: 0}
}

// Update folds a single observation into the range
func (m MinMax) Update(v uint32) MinMax {
	if v < m.Min {
		m.Min = v
	}
	if v > m.Max {
		m.Max = v
	}
	return m
}

// Merge combines two ranges. It is associative and commutative, and
// EmptyMinMax is its identity.
func (m MinMax) Merge(o MinMax) MinMax {
	if o.Min < m.Min {
		m.Min = o.Min
	}
	if o.Max > m.Max {
		m.Max = o.Max
	}
	return m
}

// IsEmpty reports whether no observation has been folded in yet
func (m MinMax) IsEmpty() bool {
	return m.Min > m.Max
}

// PixelDescription summarises the pixels of one image
type PixelDescription struct {
	RAvg   float32 `json:"r_avg"`
	GAvg   float32 `json:"g_avg"`
	BAvg   float32 `json:"b_avg"`
	RRange MinMax  `json:"r_range"`
	GRange MinMax  `json:"g_range"`
	BRange MinMax  `json:"b_range"`
}

// DatasetPixelDescription holds the mean and population standard deviation
// of the per-image channel averages, not of individual pixels.
type DatasetPixelDescription struct {
	RAvg float32 `json:"r_avg"`
	GAvg float32 `json:"g_avg"`
	BAvg float32 `json:"b_avg"`
	RStd float32 `json:"r_std"`
	GStd float32 `json:"g_std"`
	BStd float32 `json:"b_std"`
}

// DatasetDescription is the dataset-wide summary produced by one analysis run
type DatasetDescription struct {
	PixelsDescription DatasetPixelDescription `json:"pixels_description"`

	// ImagesHeight ranges over the first image dimension (width) and
	// ImagesLength over the second (height)
	ImagesHeight MinMax `json:"images_height"`
	ImagesLength MinMax `json:"images_length"`
	// Size counts the images that produced a PixelDescription
	Size int `json:"size"`
}
