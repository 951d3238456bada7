package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/datetime"
	"github.com/iwvelando/billet-recovery/pkg/mathutil"
	"github.com/iwvelando/billet-recovery/pkg/output"
	"github.com/rotisserie/eris"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	qrSize       = 32.0
	chartHeight  = 70.0
)

// RunSummary is the data encoded into the report's QR code.
type RunSummary struct {
	RunID           string  `json:"run"`
	CutLength       float64 `json:"cut_m"`
	NumHoles        int     `json:"holes"`
	KgPerMeter      float64 `json:"kg_m"`
	CausticEtching  bool    `json:"etching"`
	ButtWeight      float64 `json:"butt_kg"`
	BilletLength    float64 `json:"billet_cm,omitempty"`
	RecoveryPercent float64 `json:"recovery_pct,omitempty"`
	Pieces          int     `json:"pieces,omitempty"`
}

// Summarize builds the QR payload for run.
func Summarize(run *optimizer.Run) RunSummary {
	p := run.Result.Params
	s := RunSummary{
		RunID:          run.ID,
		CutLength:      p.CutLength,
		NumHoles:       p.NumHoles,
		KgPerMeter:     p.KgPerMeter,
		CausticEtching: p.CausticEtching,
		ButtWeight:     p.ButtWeight,
	}
	if best, err := run.Result.Optimum(); err == nil {
		s.BilletLength = best.BilletLength
		s.RecoveryPercent = mathutil.RoundPercent(best.RecoveryPercent)
		s.Pieces = best.PiecesPerBillet
	}
	return s
}

// WritePDF writes a one-page PDF report: parameters, optimum, the ranked
// table and a recovery bar chart, with a QR code of the run summary.
func WritePDF(w io.Writer, run *optimizer.Run) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Billet Recovery Report", false)
	pdf.AddPage()

	if err := renderHeader(pdf, run); err != nil {
		return err
	}
	y := renderTable(pdf, run.Result, marginTop+headerHeight+qrSize+4)
	if len(run.Result.Candidates) > 0 {
		if y+chartHeight+12 > 210-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		renderChart(pdf, run.Result, y+6)
	}

	if err := pdf.Output(w); err != nil {
		return eris.Wrap(err, "export: write pdf")
	}
	return nil
}

func renderHeader(pdf *fpdf.Fpdf, run *optimizer.Run) error {
	result := run.Result
	params := result.Params
	contentWidth := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-qrSize, headerHeight, "Billet Recovery Report", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Run %s, %s", run.ID, datetime.ReportTimestamp(run.StartedAt)),
		fmt.Sprintf("Cut length %.3f m | Holes %d | %.3f kg/m | Butt %.1f kg | %s",
			params.CutLength, params.NumHoles, params.KgPerMeter, params.ButtWeight, output.RoundingLabel(params)),
	}
	if best, err := result.Optimum(); err == nil {
		lines = append(lines, fmt.Sprintf("Optimal billet length %.0f cm | Max recovery %.2f%% | %d pieces per billet",
			best.BilletLength, best.RecoveryPercent, best.PiecesPerBillet))
	} else {
		lines = append(lines, constants.NoOptimumMessage)
	}
	if len(result.Excluded) > 0 {
		lines = append(lines, fmt.Sprintf("Excluded billet lengths (cm): %v", result.Excluded))
	}
	for i, line := range lines {
		pdf.SetXY(marginLeft, marginTop+headerHeight+float64(i)*5)
		pdf.CellFormat(contentWidth-qrSize, 5, line, "", 0, "L", false, 0, "")
	}

	qrData, err := json.Marshal(Summarize(run))
	if err != nil {
		return eris.Wrap(err, "export: marshal run summary")
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return eris.Wrap(err, "export: generate qr code")
	}
	imgName := "qr_" + run.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// renderTable draws the ranked table starting at y and returns the y
// position below it. The optimal row is highlighted.
func renderTable(pdf *fpdf.Fpdf, result *recovery.Result, y float64) float64 {
	colWidth := (pageWidth - marginLeft - marginRight) / float64(len(reportColumns))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(marginLeft, y)
	for _, col := range reportColumns {
		pdf.CellFormat(colWidth, rowHeight, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, c := range result.Candidates {
		fill := c.Optimal
		if fill {
			pdf.SetFillColor(255, 229, 153)
		}
		eligible := "no"
		if c.MarginEligible {
			eligible = "yes"
		}
		cells := []string{
			fmt.Sprintf("%.0f", c.BilletLength),
			fmt.Sprintf("%.3f", c.BilletWeight),
			fmt.Sprintf("%.3f", c.ExtrusionLength),
			fmt.Sprintf("%d", c.PiecesPerBillet),
			fmt.Sprintf("%.3f", c.MarginLength),
			fmt.Sprintf("%.2f", c.RecoveryPercent),
			eligible,
		}
		pdf.SetX(marginLeft)
		for _, cell := range cells {
			pdf.CellFormat(colWidth, rowHeight, cell, "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.GetY()
}

// renderChart draws a recovery bar chart in ranked order at y.
func renderChart(pdf *fpdf.Fpdf, result *recovery.Result, y float64) {
	contentWidth := pageWidth - marginLeft - marginRight
	axisX := marginLeft + 12
	plotWidth := contentWidth - 12
	plotTop := y + 8
	plotHeight := chartHeight - 16
	baseY := plotTop + plotHeight

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 6, constants.ChartTitle, "", 0, "C", false, 0, "")

	recoveries := make([]float64, len(result.Candidates))
	for i, c := range result.Candidates {
		recoveries[i] = c.RecoveryPercent
	}
	maxVal := mathutil.MaxOf(recoveries)
	if mathutil.IsZero(maxVal) {
		maxVal = 1
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(axisX, plotTop, axisX, baseY)
	pdf.Line(axisX, baseY, axisX+plotWidth, baseY)

	pdf.SetFont("Helvetica", "", 7)
	slot := plotWidth / float64(len(result.Candidates))
	barWidth := slot * 0.7
	for i, c := range result.Candidates {
		h := plotHeight * c.RecoveryPercent / maxVal
		x := axisX + float64(i)*slot + (slot-barWidth)/2
		if c.Optimal {
			pdf.SetFillColor(255, 179, 0)
		} else {
			pdf.SetFillColor(0, 200, 83)
		}
		pdf.Rect(x, baseY-h, barWidth, h, "FD")

		pdf.SetXY(x, baseY-h-4)
		pdf.CellFormat(barWidth, 4, fmt.Sprintf("%.2f", c.RecoveryPercent), "", 0, "C", false, 0, "")
		pdf.SetXY(x, baseY+1)
		pdf.CellFormat(barWidth, 4, fmt.Sprintf("%.0f", c.BilletLength), "", 0, "C", false, 0, "")
	}

	pdf.SetXY(marginLeft, baseY+5)
	pdf.CellFormat(contentWidth, 4, "Billet Length (cm)", "", 0, "C", false, 0, "")
	pdf.TransformBegin()
	pdf.TransformRotate(90, marginLeft+3, plotTop+plotHeight/2)
	pdf.Text(marginLeft+3-10, plotTop+plotHeight/2, "Recovery (%)")
	pdf.TransformEnd()
}
