package storage

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RGBImage is a packed 8-bit RGB raster: 3 bytes per pixel, rows stored
// back to back without padding.
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// ImageCodec is the decoding collaborator of the analyzer. Implementations
// must either return a complete raster or an error, never a partial image.
type ImageCodec interface {
	DecodeRGB8(path string) (*RGBImage, error)
	// ProbeDimensions reads the format header only and returns the size
	// width first
	ProbeDimensions(path string) (width, height uint32, err error)
}

// FileCodec decodes images from the local filesystem with the registered
// image formats (jpeg, png, gif, bmp, tiff, webp).
type FileCodec struct{}

// NewFileCodec creates a codec backed by the image package registry
func NewFileCodec() ImageCodec {
	return &FileCodec{}
}

func (c *FileCodec) DecodeRGB8(path string) (*RGBImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%s image has no pixels (%dx%d)", format, b.Dx(), b.Dy())
	}
	return ToRGB8(img), nil
}

func (c *FileCodec) ProbeDimensions(path string) (uint32, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open failed: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, fmt.Errorf("header decode failed: %w", err)
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return uint32(cfg.Width), uint32(cfg.Height), nil
}

// ToRGB8 converts a decoded image to a packed RGB raster. Alpha is dropped
// without compositing, so non-opaque pixels keep their straight colour.
func ToRGB8(img image.Image) *RGBImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &RGBImage{Width: w, Height: h, Pix: make([]uint8, 3*w*h)}

	switch src := img.(type) {
	case *image.RGBA:
		// premultiplied bytes are only straight colour when fully opaque
		if src.Opaque() {
			copyRGBA(out, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
		} else {
			copyViaNRGBA(out, img)
		}
	case *image.NRGBA:
		copyRGBA(out, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
	case *image.Gray:
		pix := src.Pix[src.PixOffset(b.Min.X, b.Min.Y):]
		j := 0
		for y := 0; y < h; y++ {
			row := pix[y*src.Stride : y*src.Stride+w]
			for _, v := range row {
				out.Pix[j], out.Pix[j+1], out.Pix[j+2] = v, v, v
				j += 3
			}
		}
	default:
		// Opaque sources (jpeg's YCbCr, paletted) go through RGBA where draw
		// has fast paths; anything with alpha goes through NRGBA.
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
			copyRGBA(out, dst.Pix, dst.Stride)
		} else {
			copyViaNRGBA(out, img)
		}
	}
	return out
}

// copyViaNRGBA un-premultiplies img into straight colour before packing it
func copyViaNRGBA(out *RGBImage, img image.Image) {
	dst := image.NewNRGBA(image.Rect(0, 0, out.Width, out.Height))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	copyRGBA(out, dst.Pix, dst.Stride)
}

func copyRGBA(out *RGBImage, pix []uint8, stride int) {
	j := 0
	for y := 0; y < out.Height; y++ {
		row := pix[y*stride : y*stride+4*out.Width]
		for i := 0; i < len(row); i += 4 {
			out.Pix[j] = row[i]
			out.Pix[j+1] = row[i+1]
			out.Pix[j+2] = row[i+2]
			j += 3
		}
	}
}
