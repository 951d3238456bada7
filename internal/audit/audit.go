// Package audit keeps an append-only CSV log with one row per optimization run.
package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/datetime"
	"github.com/rotisserie/eris"
)

// Header is the first row written to a new audit log.
var Header = []string{
	"run_id",
	"timestamp",
	"cut_length_m",
	"num_holes",
	"kg_per_m",
	"caustic_etching",
	"butt_weight_kg",
	"optimal_billet_cm",
	"max_recovery_pct",
	"pieces_per_billet",
	"margin_m",
	"feasible_candidates",
}

// Entry is one audited optimization run.
type Entry struct {
	RunID      string
	Timestamp  time.Time
	Params     recovery.ProcessParameters
	Optimum    *recovery.CandidateResult
	Candidates int
}

// NewEntry builds the audit entry for a finished run.
func NewEntry(runID string, at time.Time, result *recovery.Result) Entry {
	entry := Entry{RunID: runID, Timestamp: at}
	if result == nil {
		return entry
	}
	entry.Params = result.Params
	entry.Candidates = len(result.Candidates)
	if result.Best != nil {
		best := *result.Best
		entry.Optimum = &best
	}
	return entry
}

// Record renders the entry as a CSV row. Optimum columns are empty when the
// run found no qualifying candidate.
func (e Entry) Record() []string {
	row := []string{
		e.RunID,
		datetime.AuditTimestamp(e.Timestamp),
		strconv.FormatFloat(e.Params.CutLength, 'f', -1, 64),
		strconv.Itoa(e.Params.NumHoles),
		strconv.FormatFloat(e.Params.KgPerMeter, 'f', -1, 64),
		strconv.FormatBool(e.Params.CausticEtching),
		strconv.FormatFloat(e.Params.ButtWeight, 'f', -1, 64),
		"", "", "", "",
		strconv.Itoa(e.Candidates),
	}
	if e.Optimum != nil {
		row[7] = strconv.FormatFloat(e.Optimum.BilletLength, 'f', -1, 64)
		row[8] = strconv.FormatFloat(e.Optimum.RecoveryPercent, 'f', 2, 64)
		row[9] = strconv.Itoa(e.Optimum.PiecesPerBillet)
		row[10] = strconv.FormatFloat(e.Optimum.MarginLength, 'f', 3, 64)
	}
	return row
}

// Sink receives audit entries.
type Sink interface {
	Record(entry Entry) error
}

// CSVSink appends entries to a CSV file, writing the header when the file is new.
type CSVSink struct {
	mu   sync.Mutex
	path string
}

// NewCSVSink prepares the audit log at path, creating parent directories and
// checking that the file can be opened for appending.
func NewCSVSink(path string) (*CSVSink, error) {
	if path == "" {
		return nil, eris.New("audit: path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, eris.Wrapf(err, "audit: create directory %s", dir)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, eris.Wrapf(err, "audit: open %s", path)
	}
	_ = file.Close()
	return &CSVSink{path: path}, nil
}

// Path returns the audit log location.
func (s *CSVSink) Path() string {
	return s.path
}

// Record appends one row.
func (s *CSVSink) Record(entry Entry) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return eris.Wrapf(err, "audit: open %s", s.path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "audit: close %s", s.path)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return eris.Wrap(err, "audit: stat")
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return eris.Wrap(err, "audit: write header")
		}
	}
	if err := w.Write(entry.Record()); err != nil {
		return eris.Wrap(err, "audit: write row")
	}
	w.Flush()
	return eris.Wrap(w.Error(), "audit: flush")
}
