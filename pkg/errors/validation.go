package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxDimension bounds each lattice axis. A 10000×10000 lattice already needs
// several hundred megabytes once labels and both link planes are allocated.
const MaxDimension = 10000

// ValidateDimensions checks that a lattice size is usable.
// Zero-sized grids are configuration errors, never auto-corrected.
func ValidateDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidConfig, "lattice dimensions must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidConfig, "lattice dimensions too large (max %d per axis), got %dx%d",
			MaxDimension, width, height)
	}
	return nil
}

// ValidateProbability checks that p is a probability in [0, 1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidConfig, "probability must be in [0, 1], got %v", p)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
