// Package constants provides shared constants for the billet-recovery application.
package constants

// Process constants for the extrusion line. These are properties of the
// billet cross-section and the downstream handling equipment and are not
// configurable.
const (
	// ConversionFactor converts a nominal billet length in centimeters to
	// billet weight in kilograms.
	ConversionFactor = 1.1115

	// MaxExtrusionLength is the longest extrusion (meters) the downstream
	// line can handle. Longer candidates are dropped entirely.
	MaxExtrusionLength = 28.0

	// MarginThreshold is the fraction of the extrusion length the scrap
	// margin must exceed for a candidate to be chosen as the optimum.
	MarginThreshold = 0.15

	// MaxCandidates bounds the candidate list accepted by the optimizer.
	MaxCandidates = 15

	// MinButtWeight is the smallest accepted butt weight in kilograms.
	MinButtWeight = 1.0

	// DefaultButtWeight is the butt weight used when none is configured.
	DefaultButtWeight = 4.0
)

// NoOptimumMessage is shown whenever no candidate qualifies.
const NoOptimumMessage = "No billet length meets the criteria (extrusion length <= 28 m and margin > 15%)."

// ChartTitle titles the recovery comparison chart in reports.
const ChartTitle = "Billet Length vs Recovery"

// CandidateLengths is the fixed ordered set of billet lengths (cm) stocked
// for the press. Ties between candidates are resolved in this order.
var CandidateLengths = []float64{80, 78, 76, 75, 73, 70, 67, 65, 63, 60, 58, 55, 53, 50, 48}

// DefaultCandidates returns a copy of CandidateLengths that callers may modify.
func DefaultCandidates() []float64 {
	out := make([]float64, len(CandidateLengths))
	copy(out, CandidateLengths)
	return out
}

// Display precision
const (
	// LengthDecimals is the number of decimals used when showing lengths in meters.
	LengthDecimals = 3

	// RecoveryDecimals is the number of decimals used when showing recovery percentages.
	RecoveryDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Report export formats
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
	ExportFormatCSV  = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix is the prefix for environment overrides (BILLET_LOGGING_LEVEL, ...)
	EnvPrefix = "BILLET"

	// DefaultAuditFile is the audit log written when auditing is enabled without a path
	DefaultAuditFile = "billet-audit.csv"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
