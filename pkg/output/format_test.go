package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/testutil"
	"go.uber.org/zap"
)

func referenceRun(t *testing.T, params recovery.ProcessParameters) *optimizer.Run {
	t.Helper()
	runner := optimizer.NewRunner(zap.NewNop(), optimizer.WithFixedTime(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	run, err := runner.Run(params)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return run
}

func TestPrettyFormat(t *testing.T) {
	run := referenceRun(t, testutil.ReferenceParams())

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, run.Result); err != nil {
		t.Fatalf("PrettyFormat returned error: %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Billet recovery for 2.500 m cuts, 4 holes, 1.500 kg/m, 4.0 kg butt (no etching, floor) ---",
		"Billet (cm) | Weight (kg) | Extrusion (m)",
		"Optimal billet length: 70 cm, max recovery 77.12%, 4 pieces per billet",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat missing %q in:\n%s", want, output)
		}
	}

	var starred []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "* |") {
			starred = append(starred, line)
		}
	}
	if len(starred) != 1 {
		t.Fatalf("expected exactly one marked row, got %d", len(starred))
	}
	if !strings.Contains(starred[0], "77.12") || !strings.Contains(starred[0], " 70 |") {
		t.Errorf("marked row is not the optimum: %q", starred[0])
	}
	if strings.Contains(output, "Excluded") {
		t.Errorf("did not expect excluded lengths for the reference run")
	}
}

func TestPrettyFormatNoOptimum(t *testing.T) {
	params := testutil.ReferenceParams()
	params.CutLength = 1
	run := referenceRun(t, params)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, run.Result); err != nil {
		t.Fatalf("PrettyFormat returned error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, constants.NoOptimumMessage) {
		t.Errorf("PrettyFormat missing no-optimum warning:\n%s", output)
	}
	if strings.Contains(output, "* |") {
		t.Errorf("no row should be marked when there is no optimum")
	}
}

func TestPrettyFormatExcluded(t *testing.T) {
	params := recovery.ProcessParameters{CutLength: 6, NumHoles: 1, KgPerMeter: 1, ButtWeight: 4}
	run := referenceRun(t, params)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, run.Result); err != nil {
		t.Fatalf("PrettyFormat returned error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Excluded (extrusion over 28 m or butt heavier than billet): 80, 78") {
		t.Errorf("PrettyFormat missing excluded lengths:\n%s", output)
	}
	if !strings.Contains(output, "48 cm") {
		t.Errorf("PrettyFormat missing the last excluded length:\n%s", output)
	}
}

func TestRoundingLabel(t *testing.T) {
	params := testutil.ReferenceParams()
	if got := RoundingLabel(params); got != "no etching, floor" {
		t.Errorf("RoundingLabel = %q", got)
	}
	params.CausticEtching = true
	if got := RoundingLabel(params); got != "caustic etching, floor - 1" {
		t.Errorf("RoundingLabel = %q", got)
	}
}

func TestCsvFormat(t *testing.T) {
	run := referenceRun(t, testutil.ReferenceParams())

	out, err := CsvString(run.Result)
	if err != nil {
		t.Fatalf("CsvString returned error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) != len(run.Result.Candidates)+1 {
		t.Fatalf("expected %d records, got %d", len(run.Result.Candidates)+1, len(records))
	}
	for i, col := range CSVHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, expected %q", i, records[0][i], col)
		}
	}

	// 58 cm recovers the most but fails the margin test.
	if records[1][0] != "58" || records[1][6] != "false" {
		t.Errorf("expected 58 cm ranked first without margin, got %v", records[1])
	}
	optimal := 0
	for _, row := range records[1:] {
		if row[7] != "true" {
			continue
		}
		optimal++
		if row[0] != "70" || row[5] != "77.12" || row[3] != "4" || row[6] != "true" {
			t.Errorf("unexpected optimal row %v", row)
		}
	}
	if optimal != 1 {
		t.Errorf("expected exactly one optimal row, got %d", optimal)
	}
}

func TestCsvFormatMarginDecimals(t *testing.T) {
	run := referenceRun(t, testutil.ReferenceParams())
	c := testutil.FindCandidate(run.Result.Candidates, 50)
	if c == nil || c.MarginEligible {
		t.Fatalf("expected a feasible, ineligible 50 cm candidate, got %+v", c)
	}

	records := CsvRecords(run.Result)
	for _, row := range records[1:] {
		if row[0] == "50" {
			if row[2] != "8.596" || row[4] != "1.096" {
				t.Errorf("expected 3-decimal lengths for 50 cm, got %v", row)
			}
			return
		}
	}
	t.Fatal("50 cm candidate missing from CSV")
}

func TestJSONFormat(t *testing.T) {
	run := referenceRun(t, testutil.ReferenceParams())

	var buf bytes.Buffer
	if err := JSONFormat(&buf, run); err != nil {
		t.Fatalf("JSONFormat returned error: %v", err)
	}

	var decoded struct {
		RunID  string `json:"runId"`
		Result struct {
			Optimum *struct {
				BilletLength float64 `json:"billetLength"`
			} `json:"optimum"`
			Candidates []json.RawMessage `json:"candidates"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if decoded.RunID != run.ID {
		t.Errorf("expected run ID %s, got %s", run.ID, decoded.RunID)
	}
	if decoded.Result.Optimum == nil || decoded.Result.Optimum.BilletLength != 70 {
		t.Errorf("expected optimum 70 in JSON, got %+v", decoded.Result.Optimum)
	}
	if len(decoded.Result.Candidates) != 15 {
		t.Errorf("expected 15 candidates, got %d", len(decoded.Result.Candidates))
	}
}

func TestWrite(t *testing.T) {
	run := referenceRun(t, testutil.ReferenceParams())

	tests := []struct {
		format   string
		contains string
		wantErr  bool
	}{
		{format: constants.OutputFormatPretty, contains: "Optimal billet length"},
		{format: constants.OutputFormatCSV, contains: "billet_length_cm"},
		{format: constants.OutputFormatJSON, contains: `"runId"`},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, run)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unsupported format")
				}
				return
			}
			if err != nil {
				t.Fatalf("Write returned error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("expected output to contain %q", tt.contains)
			}
		})
	}
}
