// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/billet-recovery/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateExportFormat checks if the report format is one of the supported formats.
func ValidateExportFormat(format string) error {
	switch format {
	case constants.ExportFormatXLSX, constants.ExportFormatPDF, constants.ExportFormatCSV:
		return nil
	}
	return fmt.Errorf("expected export format of %s, %s or %s, got %s",
		constants.ExportFormatXLSX, constants.ExportFormatPDF, constants.ExportFormatCSV, format)
}

// ExportFormatFromPath infers the report format from a file extension.
func ExportFormatFromPath(path string) (string, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return "", fmt.Errorf("cannot infer export format from %q: missing extension", path)
	}
	format := strings.ToLower(path[idx+1:])
	if err := ValidateExportFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
