package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "go-image-dataset-analyzer/internal/errors"
	"go-image-dataset-analyzer/internal/logger"
	"go-image-dataset-analyzer/pkg/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATASET_ROOT_DIR", "DATASET_EXTENSIONS", "WORKERS",
		"DECODE_FAILURE_POLICY", "OUTPUT_FORMAT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
}

func writeSolid(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testDataset(t *testing.T) string {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSolid(t, filepath.Join(root, "a.png"), 8, 4, color.RGBA{60, 45, 40, 255})
	writeSolid(t, filepath.Join(root, "nested", "b.png"), 2, 10, color.RGBA{40, 35, 42, 255})
	return root
}

func TestRootCommand_TextReport(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)

	out, err := execute(t, "--root-dir", root, "--trackit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"Collecting images sizes information...\n",
		"Collecting images pixels information...\n",
		"Aggregating pixel information...\n",
		"        - red average: 50\n",
		"        - red std: 10\n",
		"        - green std: 5\n",
		"        - blue std: 1\n",
		"    - images height min/max: 2/8\n",
		"    - images length min/max: 4/10\n",
		"    - dataset size: 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Execution duration") {
		t.Error("Expected no timing lines without --timeit")
	}
}

func TestRootCommand_TimeitAndJSON(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)

	out, err := execute(t, "-r", root, "-t", "--format", "json", "-w", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	idx := strings.Index(out, "Execution duration ")
	if idx < 0 {
		t.Fatalf("Expected timing lines, got:\n%s", out)
	}
	if !strings.Contains(out[idx:], "(images / second)\n") {
		t.Errorf("Expected speed line, got:\n%s", out[idx:])
	}

	var got models.DatasetDescription
	if err := json.Unmarshal([]byte(out[:idx]), &got); err != nil {
		t.Fatalf("Expected JSON report before timing lines: %v\n%s", err, out)
	}
	if got.Size != 2 || got.PixelsDescription.GAvg != 40 {
		t.Errorf("Unexpected report %+v", got)
	}
}

func TestRootCommand_EnvAndFlags(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)
	t.Setenv("DATASET_ROOT_DIR", root)
	t.Setenv("DATASET_EXTENSIONS", "jpg")

	// only jpg from the environment: nothing matches
	if _, err := execute(t); !apperrors.IsType(err, apperrors.ErrorTypeAggregation) {
		t.Errorf("Expected aggregation error for empty dataset, got %v", err)
	}

	// the flag overrides the environment
	out, err := execute(t, "--extensions", "png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "dataset size: 2") {
		t.Errorf("Expected both images, got:\n%s", out)
	}
}

func TestRootCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T, root string) []string
		kind apperrors.ErrorType
	}{
		{
			name: "missing root",
			args: func(t *testing.T, root string) []string { return []string{"-r", filepath.Join(root, "nope")} },
			kind: apperrors.ErrorTypeScan,
		},
		{
			name: "invalid policy",
			args: func(t *testing.T, root string) []string { return []string{"-r", root, "--on-decode-error", "retry"} },
			kind: apperrors.ErrorTypeConfig,
		},
		{
			name: "negative workers",
			args: func(t *testing.T, root string) []string { return []string{"-r", root, "-w=-3"} },
			kind: apperrors.ErrorTypeConfig,
		},
		{
			name: "corrupt image fails by default",
			args: func(t *testing.T, root string) []string {
				if err := os.WriteFile(filepath.Join(root, "zz.png"), []byte("nope"), 0o644); err != nil {
					t.Fatal(err)
				}
				return []string{"-r", root}
			},
			kind: apperrors.ErrorTypeDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := execute(t, tt.args(t, testDataset(t))...)
			if !apperrors.IsType(err, tt.kind) {
				t.Errorf("Expected %s error, got %v", tt.kind, err)
			}
			if apperrors.ExitCode(err) != 1 {
				t.Errorf("Expected exit code 1, got %d", apperrors.ExitCode(err))
			}
		})
	}
}

func TestRootCommand_SkipPolicy(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)
	if err := os.WriteFile(filepath.Join(root, "zz.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-r", root, "--on-decode-error", "skip")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "dataset size: 2") {
		t.Errorf("Expected corrupt image to be skipped, got:\n%s", out)
	}
}

func TestRootCommand_FlagOverridesInvalidEnv(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)
	t.Setenv("DECODE_FAILURE_POLICY", "bogus")

	// the environment value alone is rejected
	if _, err := execute(t, "-r", root); !apperrors.IsType(err, apperrors.ErrorTypeConfig) {
		t.Errorf("Expected config error for bogus policy, got %v", err)
	}

	out, err := execute(t, "-r", root, "--on-decode-error", "skip")
	if err != nil {
		t.Fatalf("Expected the flag to replace the bad env value, got %v", err)
	}
	if !strings.Contains(out, "dataset size: 2") {
		t.Errorf("Unexpected report:\n%s", out)
	}
}

func TestRootCommand_LogsMetrics(t *testing.T) {
	clearEnv(t)
	root := testDataset(t)
	if err := os.WriteFile(filepath.Join(root, "zz.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	logger.SetOutput(&logs)

	if _, err := execute(t, "-r", root, "--on-decode-error", "skip", "--log-format", "json"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	t.Cleanup(func() { logger.Init("info", "text") })

	var metrics map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Expected JSON log line, got %q: %v", line, err)
		}
		if entry["msg"] == "Analysis metrics" {
			metrics = entry
		}
	}
	if metrics == nil {
		t.Fatalf("Expected a metrics line, got:\n%s", logs.String())
	}
	if metrics["images_found"] != float64(3) || metrics["images_decoded"] != float64(2) {
		t.Errorf("Unexpected counters %v", metrics)
	}
	if metrics["decode_failures"] == float64(0) {
		t.Errorf("Expected the corrupt image to be counted, got %v", metrics)
	}
}
