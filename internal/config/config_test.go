package config

import (
	"reflect"
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DATASET_ROOT_DIR", "DATASET_EXTENSIONS", "WORKERS",
		"DECODE_FAILURE_POLICY", "OUTPUT_FORMAT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.RootDir != "dataset" {
		t.Errorf("Expected root dir 'dataset', got %q", cfg.RootDir)
	}
	if !reflect.DeepEqual(cfg.Extensions, []string{"jpg", "png"}) {
		t.Errorf("Expected default extensions, got %v", cfg.Extensions)
	}
	if cfg.Workers != 0 {
		t.Errorf("Expected 0 workers, got %d", cfg.Workers)
	}
	if cfg.DecodePolicy != DecodePolicyFail {
		t.Errorf("Expected fail policy, got %q", cfg.DecodePolicy)
	}
	if cfg.OutputFormat != OutputText {
		t.Errorf("Expected text output, got %q", cfg.OutputFormat)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATASET_ROOT_DIR", "/data/train")
	t.Setenv("DATASET_EXTENSIONS", " jpeg, JPG ,,webp")
	t.Setenv("WORKERS", "8")
	t.Setenv("DECODE_FAILURE_POLICY", "skip")
	t.Setenv("OUTPUT_FORMAT", "json")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.RootDir != "/data/train" {
		t.Errorf("Expected /data/train, got %q", cfg.RootDir)
	}
	if !reflect.DeepEqual(cfg.Extensions, []string{"jpeg", "JPG", "webp"}) {
		t.Errorf("Unexpected extensions %v", cfg.Extensions)
	}
	if cfg.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Workers)
	}
	if cfg.DecodePolicy != DecodePolicySkip {
		t.Errorf("Expected skip policy, got %q", cfg.DecodePolicy)
	}
	if cfg.OutputFormat != OutputJSON {
		t.Errorf("Expected json output, got %q", cfg.OutputFormat)
	}
}

func TestLoadFromEnv_InvalidPolicy(t *testing.T) {
	t.Setenv("DECODE_FAILURE_POLICY", "retry")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for unknown decode policy")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			RootDir:      "dataset",
			Extensions:   []string{"jpg"},
			DecodePolicy: DecodePolicyFail,
			OutputFormat: OutputText,
			LogFormat:    "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty root", func(c *Config) { c.RootDir = "  " }, true},
		{"no extensions", func(c *Config) { c.Extensions = nil }, true},
		{"blank extension", func(c *Config) { c.Extensions = []string{"jpg", ""} }, true},
		{"separator in extension", func(c *Config) { c.Extensions = []string{"raw/png"} }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"unknown format", func(c *Config) { c.OutputFormat = "yaml" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	got := ParseList("png, jpg,, ")
	if !reflect.DeepEqual(got, []string{"png", "jpg"}) {
		t.Errorf("Unexpected list %v", got)
	}
	if got := ParseList(""); len(got) != 0 {
		t.Errorf("Expected empty list, got %v", got)
	}
}
