package analyzer

import (
	"fmt"

	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/internal/storage"
	"go-image-dataset-analyzer/pkg/models"
)

// PixelStatsExtractor computes per-channel averages and ranges of one image
type PixelStatsExtractor struct {
	codec storage.ImageCodec
}

// NewPixelStatsExtractor creates an extractor decoding through codec
func NewPixelStatsExtractor(codec storage.ImageCodec) *PixelStatsExtractor {
	return &PixelStatsExtractor{codec: codec}
}

// Extract decodes path to RGB and summarises its pixels. Any decode failure
// is returned as a decode error carrying the path.
func (e *PixelStatsExtractor) Extract(path string) (models.PixelDescription, error) {
	raster, err := e.codec.DecodeRGB8(path)
	if err != nil {
		return models.PixelDescription{}, apperrors.NewDecodeError(path, err)
	}
	if raster.Width*raster.Height == 0 || len(raster.Pix) < 3*raster.Width*raster.Height {
		return models.PixelDescription{}, apperrors.NewDecodeError(path,
			fmt.Errorf("raster %dx%d has %d bytes", raster.Width, raster.Height, len(raster.Pix)))
	}
	return DescribePixels(raster), nil
}

// DescribePixels scans the raster once, front to back, accumulating the
// channel sums and extrema. Sums are uint64 so large images cannot overflow.
func DescribePixels(raster *storage.RGBImage) models.PixelDescription {
	pix := raster.Pix[:3*raster.Width*raster.Height]

	var rSum, gSum, bSum uint64
	rMin, gMin, bMin := uint8(255), uint8(255), uint8(255)
	var rMax, gMax, bMax uint8

	for i := 0; i < len(pix); i += 3 {
		r, g, b := pix[i], pix[i+1], pix[i+2]

		rSum += uint64(r)
		gSum += uint64(g)
		bSum += uint64(b)

		rMin, rMax = min(rMin, r), max(rMax, r)
		gMin, gMax = min(gMin, g), max(gMax, g)
		bMin, bMax = min(bMin, b), max(bMax, b)
	}

	pixels := float64(len(pix) / 3)
	if pixels == 0 {
		return models.PixelDescription{
			RRange: models.EmptyMinMax(),
			GRange: models.EmptyMinMax(),
			BRange: models.EmptyMinMax(),
		}
	}

	return models.PixelDescription{
		RAvg:   float32(float64(rSum) / pixels),
		GAvg:   float32(float64(gSum) / pixels),
		BAvg:   float32(float64(bSum) / pixels),
		RRange: models.MinMax{Min: uint32(rMin), Max: uint32(rMax)},
		GRange: models.MinMax{Min: uint32(gMin), Max: uint32(gMax)},
		BRange: models.MinMax{Min: uint32(bMin), Max: uint32(bMax)},
	}
}

// DimensionProbe reads image sizes from format headers
type DimensionProbe struct {
	codec storage.ImageCodec
}

// NewDimensionProbe creates a probe reading headers through codec
func NewDimensionProbe(codec storage.ImageCodec) *DimensionProbe {
	return &DimensionProbe{codec: codec}
}

// Probe returns the (width, height) of the image at path
func (p *DimensionProbe) Probe(path string) (uint32, uint32, error) {
	width, height, err := p.codec.ProbeDimensions(path)
	if err != nil {
		return 0, 0, apperrors.NewDecodeError(path, err)
	}
	return width, height, nil
}
