// Package export writes optimization reports to spreadsheet, PDF and CSV
// files for sharing outside the terminal.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/output"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"github.com/rotisserie/eris"
)

// Report column headings, shared by the XLSX sheet and the PDF table.
var reportColumns = []string{
	"Billet Length (cm)",
	"Billet Weight (kg)",
	"Extrusion Length (m)",
	"Pieces",
	"Margin Length (m)",
	"Recovery (%)",
	"Margin OK",
}

// Write renders run as a report in the given format.
func Write(w io.Writer, format string, run *optimizer.Run) error {
	if run == nil || run.Result == nil {
		return eris.New("export: no result to export")
	}
	if err := validation.ValidateExportFormat(format); err != nil {
		return eris.Wrap(err, "export: format")
	}
	switch format {
	case constants.ExportFormatXLSX:
		return WriteXLSX(w, run)
	case constants.ExportFormatPDF:
		return WritePDF(w, run)
	default:
		return eris.Wrap(output.CsvFormat(w, run.Result), "export: csv")
	}
}

// WriteFile writes run to path, choosing the format from the file extension.
func WriteFile(path string, run *optimizer.Run) (err error) {
	format, err := validation.ExportFormatFromPath(path)
	if err != nil {
		return eris.Wrap(err, "export: format")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
		// Leave no truncated report behind.
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, format, run); err != nil {
		return err
	}
	return eris.Wrap(bw.Flush(), "export: flush")
}

// ContentType returns the MIME type served for a report format.
func ContentType(format string) string {
	switch format {
	case constants.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case constants.ExportFormatPDF:
		return "application/pdf"
	case constants.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename returns the download name for a run's report.
func Filename(run *optimizer.Run, format string) string {
	id := "report"
	if run != nil && len(run.ID) >= 8 {
		id = run.ID[:8]
	}
	return fmt.Sprintf("billet-recovery-%s.%s", id, format)
}
