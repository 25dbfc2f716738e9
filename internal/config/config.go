package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go-image-dataset-analyzer/pkg/validation"
)

// DecodePolicy decides what happens when an image cannot be decoded
type DecodePolicy string

const (
	// DecodePolicyFail aborts the run on the first decode failure in any pass
	DecodePolicyFail DecodePolicy = "fail"
	// DecodePolicySkip logs the failure and leaves the image out of that pass
	DecodePolicySkip DecodePolicy = "skip"
)

// OutputFormat selects how the report is rendered
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

type Config struct {
	RootDir      string
	Extensions   []string
	Workers      int
	TimeIt       bool
	TrackIt      bool
	DecodePolicy DecodePolicy
	OutputFormat OutputFormat
	LogLevel     string
	LogFormat    string
}

// DefaultExtensions are matched as plain filename suffixes
var DefaultExtensions = []string{"jpg", "png"}

// LoadFromEnv reads the environment and validates the result
func LoadFromEnv() (*Config, error) {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the environment over the defaults without validating, so
// callers can overlay other sources before calling Validate
func FromEnv() *Config {
	return &Config{
		RootDir:      getEnvOrDefault("DATASET_ROOT_DIR", "dataset"),
		Extensions:   parseListOrDefault("DATASET_EXTENSIONS", DefaultExtensions),
		Workers:      int(parseIntOrDefault("WORKERS", 0)), // 0 means runtime.NumCPU()
		DecodePolicy: DecodePolicy(getEnvOrDefault("DECODE_FAILURE_POLICY", string(DecodePolicyFail))),
		OutputFormat: OutputFormat(getEnvOrDefault("OUTPUT_FORMAT", string(OutputText))),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// Validate checks the values that can arrive from env or flags
func (c *Config) Validate() error {
	v := validation.NewDatasetValidator()
	if err := v.ValidateRootDir(c.RootDir); err != nil {
		return err
	}
	if err := v.ValidateExtensions(c.Extensions); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must be >= 0 (got %d)", c.Workers)
	}
	switch c.DecodePolicy {
	case DecodePolicyFail, DecodePolicySkip:
	default:
		return fmt.Errorf("invalid decode failure policy: %q (want fail or skip)", c.DecodePolicy)
	}
	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format: %q (want text or json)", c.OutputFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ParseList splits a comma-separated list, trimming blanks. Case is kept:
// extension matching is case-sensitive.
func ParseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if list := ParseList(value); len(list) > 0 {
			return list
		}
	}
	return append([]string(nil), defaultValue...)
}
