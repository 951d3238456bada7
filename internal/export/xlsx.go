package export

import (
	"fmt"
	"io"

	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/datetime"
	"github.com/iwvelando/billet-recovery/pkg/mathutil"
	"github.com/iwvelando/billet-recovery/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the XLSX report.
const (
	SummarySheet    = "Summary"
	ParametersSheet = "Parameters"
)

const (
	headerFill  = "003366"
	optimumFill = "FFE599"
	barColor    = "00C853"
)

// WriteXLSX writes an XLSX workbook with the ranked summary table, a
// recovery bar chart and a sheet describing the run.
func WriteXLSX(w io.Writer, run *optimizer.Run) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return eris.Wrap(err, "export: rename sheet")
	}
	if err := writeSummarySheet(f, run); err != nil {
		return err
	}
	if _, err := f.NewSheet(ParametersSheet); err != nil {
		return eris.Wrap(err, "export: add parameters sheet")
	}
	if err := writeParametersSheet(f, run); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func writeSummarySheet(f *excelize.File, run *optimizer.Run) error {
	result := run.Result

	header := make([]interface{}, len(reportColumns))
	for i, col := range reportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return eris.Wrap(err, "export: header style")
	}
	optimumStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{optimumFill}, Pattern: 1},
	})
	if err != nil {
		return eris.Wrap(err, "export: optimum style")
	}

	lastCol, _ := excelize.ColumnNumberToName(len(reportColumns))
	if err := f.SetCellStyle(SummarySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return eris.Wrap(err, "export: apply header style")
	}
	if err := f.SetColWidth(SummarySheet, "A", lastCol, 20); err != nil {
		return eris.Wrap(err, "export: column width")
	}

	for i, c := range result.Candidates {
		rowNum := i + 2
		eligible := "no"
		if c.MarginEligible {
			eligible = "yes"
		}
		row := []interface{}{
			c.BilletLength,
			mathutil.RoundLength(c.BilletWeight),
			mathutil.RoundLength(c.ExtrusionLength),
			c.PiecesPerBillet,
			mathutil.RoundLength(c.MarginLength),
			mathutil.RoundPercent(c.RecoveryPercent),
			eligible,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return eris.Wrapf(err, "export: write row %d", rowNum)
		}
		if c.Optimal {
			if err := f.SetCellStyle(SummarySheet, cell, fmt.Sprintf("%s%d", lastCol, rowNum), optimumStyle); err != nil {
				return eris.Wrap(err, "export: apply optimum style")
			}
		}
	}

	if len(result.Candidates) == 0 {
		return nil
	}

	lastRow := len(result.Candidates) + 1
	err = f.AddChart(SummarySheet, "I2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$F$1", SummarySheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", SummarySheet, lastRow),
				Values:     fmt.Sprintf("%s!$F$2:$F$%d", SummarySheet, lastRow),
				Fill:       excelize.Fill{Type: "pattern", Color: []string{barColor}, Pattern: 1},
			},
		},
		Title:  []excelize.RichTextRun{{Text: constants.ChartTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Billet Length (cm)"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Recovery (%)"}}},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
		},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
	if err != nil {
		return eris.Wrap(err, "export: add chart")
	}
	return nil
}

func writeParametersSheet(f *excelize.File, run *optimizer.Run) error {
	result := run.Result
	params := result.Params

	rows := [][]interface{}{
		{"Run ID", run.ID},
		{"Started", datetime.ReportTimestamp(run.StartedAt)},
		{"Cut length (m)", params.CutLength},
		{"Number of holes", params.NumHoles},
		{"Kg per meter", params.KgPerMeter},
		{"Butt weight (kg)", params.ButtWeight},
		{"Rounding", output.RoundingLabel(params)},
		{"Excluded billet lengths (cm)", fmt.Sprint(result.Excluded)},
	}
	if best, err := result.Optimum(); err == nil {
		rows = append(rows,
			[]interface{}{"Optimal billet length (cm)", best.BilletLength},
			[]interface{}{"Max recovery (%)", mathutil.RoundPercent(best.RecoveryPercent)},
			[]interface{}{"Pieces per billet", best.PiecesPerBillet},
		)
	} else {
		rows = append(rows, []interface{}{"Optimum", constants.NoOptimumMessage})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(ParametersSheet, cell, &row); err != nil {
			return eris.Wrapf(err, "export: write parameter row %d", i+1)
		}
	}
	if err := f.SetColWidth(ParametersSheet, "A", "A", 30); err != nil {
		return eris.Wrap(err, "export: column width")
	}
	return nil
}
