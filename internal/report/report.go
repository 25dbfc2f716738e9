package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"go-image-dataset-analyzer/internal/config"
	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/pkg/models"
)

// The header line ends with a space and the line before the dimension block
// holds four spaces.
const textLayout = "Dataset description " + `
    - pixels description:
        - red average: %s
        - green average: %s
        - blue average: %s

        - red std: %s
        - green std: %s
        - blue std: %s
` + "    " + `
    - images height min/max: %s
    - images length min/max: %s
    - dataset size: %d

`

// Write renders description to w in the requested format
func Write(w io.Writer, format config.OutputFormat, description *models.DatasetDescription) error {
	switch format {
	case config.OutputJSON:
		return WriteJSON(w, description)
	case config.OutputText, "":
		return WriteText(w, description)
	default:
		return apperrors.NewConfigError(fmt.Sprintf("unknown output format %q", format), nil)
	}
}

// WriteText prints the human readable report
func WriteText(w io.Writer, d *models.DatasetDescription) error {
	px := d.PixelsDescription
	_, err := fmt.Fprintf(w, textLayout,
		formatFloat(px.RAvg), formatFloat(px.GAvg), formatFloat(px.BAvg),
		formatFloat(px.RStd), formatFloat(px.GStd), formatFloat(px.BStd),
		formatRange(d.ImagesHeight), formatRange(d.ImagesLength),
		d.Size,
	)
	return err
}

// WriteJSON prints the description as an indented JSON document
func WriteJSON(w io.Writer, d *models.DatasetDescription) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteTiming prints the elapsed time and the throughput over images
func WriteTiming(w io.Writer, elapsed time.Duration, images int) error {
	seconds := float32(elapsed.Seconds())
	if _, err := fmt.Fprintf(w, "Execution duration %s seconds\n", formatFloat(seconds)); err != nil {
		return err
	}
	speed := float32(0)
	if seconds > 0 {
		speed = float32(images) / seconds
	}
	_, err := fmt.Fprintf(w, "Speed: %s (images / second)\n", formatFloat(speed))
	return err
}

// formatRange prints min/max, or n/a when no image was measured
func formatRange(m models.MinMax) string {
	if m.IsEmpty() {
		return "n/a"
	}
	return fmt.Sprintf("%d/%d", m.Min, m.Max)
}

// formatFloat uses the shortest decimal that round-trips the float32
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
