// Package output provides utilities for formatting and displaying optimization results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CSVHeader lists the columns written by CsvFormat.
var CSVHeader = []string{
	"billet_length_cm",
	"billet_weight_kg",
	"extrusion_length_m",
	"pieces",
	"margin_length_m",
	"recovery_pct",
	"margin_eligible",
	"optimal",
}

// Write renders run in the named output format.
func Write(w io.Writer, format string, run *optimizer.Run) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}
	switch format {
	case constants.OutputFormatCSV:
		return CsvFormat(w, run.Result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, run)
	default:
		return PrettyFormat(w, run.Result)
	}
}

// RoundingLabel describes the rounding rule applied for params.
func RoundingLabel(params recovery.ProcessParameters) string {
	if params.CausticEtching {
		return "caustic etching, floor - 1"
	}
	return "no etching, floor"
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
// The optimal row is marked with '*'.
func PrettyFormat(w io.Writer, result *recovery.Result) error {
	p := message.NewPrinter(language.English)
	params := result.Params

	_, _ = p.Fprintf(w, "--- Billet recovery for %.3f m cuts, %d holes, %.3f kg/m, %.1f kg butt (%s) ---\n",
		params.CutLength, params.NumHoles, params.KgPerMeter, params.ButtWeight, RoundingLabel(params))
	_, _ = fmt.Fprintf(w, "  | Billet (cm) | Weight (kg) | Extrusion (m) | Pieces | Margin (m) | Recovery (%%) | Margin OK\n")
	_, _ = fmt.Fprintf(w, "__ | ___________ | ___________ | _____________ | ______ | __________ | ____________ | _________\n")
	for _, c := range result.Candidates {
		mark := " "
		if c.Optimal {
			mark = "*"
		}
		eligible := "no"
		if c.MarginEligible {
			eligible = "yes"
		}
		_, _ = p.Fprintf(w, "%s | %11.0f | %11.3f | %13.3f | %6d | %10.3f | %12.2f | %s\n",
			mark, c.BilletLength, c.BilletWeight, c.ExtrusionLength, c.PiecesPerBillet,
			c.MarginLength, c.RecoveryPercent, eligible)
	}

	if len(result.Excluded) > 0 {
		lengths := make([]string, len(result.Excluded))
		for i, b := range result.Excluded {
			lengths[i] = strconv.FormatFloat(b, 'f', -1, 64)
		}
		_, _ = fmt.Fprintf(w, "\nExcluded (extrusion over %.0f m or butt heavier than billet): %s cm\n",
			constants.MaxExtrusionLength, strings.Join(lengths, ", "))
	}

	best, err := result.Optimum()
	if err != nil {
		_, err = fmt.Fprintf(w, "\n%s\n", constants.NoOptimumMessage)
		return err
	}
	_, err = p.Fprintf(w, "\nOptimal billet length: %.0f cm, max recovery %.2f%%, %d pieces per billet\n",
		best.BilletLength, best.RecoveryPercent, best.PiecesPerBillet)
	return err
}

// CsvRecords converts the ranked candidates into CSV records, header first.
func CsvRecords(result *recovery.Result) [][]string {
	records := make([][]string, 0, len(result.Candidates)+1)
	records = append(records, CSVHeader)
	for _, c := range result.Candidates {
		records = append(records, []string{
			strconv.FormatFloat(c.BilletLength, 'f', -1, 64),
			strconv.FormatFloat(c.BilletWeight, 'f', constants.LengthDecimals, 64),
			strconv.FormatFloat(c.ExtrusionLength, 'f', constants.LengthDecimals, 64),
			strconv.Itoa(c.PiecesPerBillet),
			strconv.FormatFloat(c.MarginLength, 'f', constants.LengthDecimals, 64),
			strconv.FormatFloat(c.RecoveryPercent, 'f', constants.RecoveryDecimals, 64),
			strconv.FormatBool(c.MarginEligible),
			strconv.FormatBool(c.Optimal),
		})
	}
	return records
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, result *recovery.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(CsvRecords(result)); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// CsvString returns the CSV rendering of result.
func CsvString(result *recovery.Result) (string, error) {
	var sb strings.Builder
	if err := CsvFormat(&sb, result); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// JSONFormat outputs the run as indented JSON.
func JSONFormat(w io.Writer, run *optimizer.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
