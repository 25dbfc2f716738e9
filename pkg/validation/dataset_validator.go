package validation

import (
	"fmt"
	"strings"

	apperrors "go-image-dataset-analyzer/internal/errors"
)

// DatasetValidator checks the dataset location and suffix list before a run
type DatasetValidator struct {
	forbidden string
}

// NewDatasetValidator creates a validator rejecting suffixes that can never
// match a file name
func NewDatasetValidator() *DatasetValidator {
	return &DatasetValidator{
		forbidden: "/\\\x00",
	}
}

// ValidateRootDir rejects a blank dataset root
func (v *DatasetValidator) ValidateRootDir(rootDir string) error {
	if strings.TrimSpace(rootDir) == "" {
		return apperrors.NewConfigError("root directory cannot be empty", nil)
	}
	if strings.ContainsRune(rootDir, 0) {
		return apperrors.NewConfigError("root directory contains a NUL byte", nil)
	}
	return nil
}

// ValidateExtensions checks the suffix list. Suffixes are compared against
// whole file names, so a path separator can never match.
func (v *DatasetValidator) ValidateExtensions(extensions []string) error {
	if len(extensions) == 0 {
		return apperrors.NewConfigError("at least one extension is required", nil)
	}
	for _, ext := range extensions {
		if ext == "" {
			return apperrors.NewConfigError(fmt.Sprintf("extensions must not be empty strings (got %q)", extensions), nil)
		}
		if strings.ContainsAny(ext, v.forbidden) {
			return apperrors.NewConfigError(fmt.Sprintf("extension %q contains a path separator", ext), nil)
		}
	}
	return nil
}
